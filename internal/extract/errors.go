// Error codes reference
//
// Extraction errors carry short codes users can quote when reporting
// problems. Codes are grouped by category:
//
//	DL001  - Source unreachable (network/transport failure)
//	DL002  - Source returned a non-success HTTP status
//	DL003  - Source file exceeds the download size limit
//	CSV001 - Source content is not valid CSV
//	CSV002 - Source workbook could not be read (XLSX)
//	CSV003 - Source file has no data rows
//	MAP001 - Configured header text not found in the header row
//	MAP002 - Two mapping entries name the same output field
//	REQ001 - Request body is missing required parameters
//	REQ002 - Request was cancelled by the client
//	REQ003 - Request timed out
//	RATE001 - Too many requests
//	ERR000 - Fallback for anything unrecognized
//
// Patterns are matched case-insensitively with strings.Contains; the
// first match wins, so specific patterns sit above general ones.
package extract

import (
	"fmt"
	"strings"
)

// HeaderNotFoundError reports a configured header or sub-header text
// that is absent from the source's header row. The whole request is
// aborted; no partial results are produced.
type HeaderNotFoundError struct {
	Header string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("header %q not found in header row", e.Header)
}

// DuplicateFieldError reports two mapping entries targeting the same
// output field name. Detected before any row processing.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate output field %q in mapping", e.Field)
}

// ParseError wraps a failure to decode the downloaded source content.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UserMessage is the client-facing shape of an error: what happened,
// what to do about it, and a code for support reference.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Cancellation first: a cancelled download still says "download
	// failed" and must not classify as a source problem.
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try a smaller file or check the source URL's responsiveness",
			Code:    "REQ003",
		},
	},

	// Download errors
	{
		pattern: "unexpected status",
		msg: UserMessage{
			Message: "The source URL returned an error status",
			Action:  "Check that the URL is publicly reachable and points at the file",
			Code:    "DL002",
		},
	},
	{
		pattern: "response too large",
		msg: UserMessage{
			Message: "The source file exceeds the download size limit",
			Action:  "Reduce the file size or raise FETCH_MAX_BYTES",
			Code:    "DL003",
		},
	},
	{
		pattern: "download failed",
		msg: UserMessage{
			Message: "The source URL could not be reached",
			Action:  "Verify the URL and try again",
			Code:    "DL001",
		},
	},
	{
		pattern: "unsupported url scheme",
		msg: UserMessage{
			Message: "The source URL could not be reached",
			Action:  "Use an http or https URL",
			Code:    "DL001",
		},
	},

	// Parse errors
	{
		pattern: "workbook",
		msg: UserMessage{
			Message: "The Excel workbook could not be read",
			Action:  "Re-export the file and try again",
			Code:    "CSV002",
		},
	},
	{
		pattern: "malformed csv",
		msg: UserMessage{
			Message: "The source content is not valid CSV",
			Action:  "Ensure the file is comma separated with consistent quoting",
			Code:    "CSV001",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The source file has no data rows",
			Action:  "Upload a file with at least one row below the header",
			Code:    "CSV003",
		},
	},

	// Mapping errors
	{
		pattern: "not found in header row",
		msg: UserMessage{
			Message: "A configured header was not found in the file",
			Action:  "Verify the header texts match the file exactly",
			Code:    "MAP001",
		},
	},
	{
		pattern: "duplicate output field",
		msg: UserMessage{
			Message: "Two mapping entries name the same output field",
			Action:  "Give every selected field a unique name",
			Code:    "MAP002",
		},
	},

	// Request errors
	{
		pattern: "missing required parameters",
		msg: UserMessage{
			Message: "The request body is incomplete",
			Action:  "Send either excel_url with excel_headers, or csv with csvUrl",
			Code:    "REQ001",
		},
	},
	// Throttling
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into its user-facing message.
// Unrecognized errors fall back to ERR000; check the server logs for
// the original error in that case.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}
