package web

// errors.go provides unified error responses for the web layer.
//
// Handlers call respondError with the technical error; the extract
// error mapper turns it into a user-facing message with a support code,
// the technical detail is logged with the request ID, and the client
// receives a JSON body.

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"csvextract/internal/extract"
	"csvextract/internal/logging"
)

// errRateLimited feeds the RATE001 pattern in the error mapper.
var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse is the JSON body for all error statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the mapped
// user-facing message as JSON.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := extract.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusFor picks the HTTP status for an extraction error. Download
// problems are upstream failures; mapping and parse problems are the
// caller's to fix.
func statusFor(err error) int {
	var (
		headerErr *extract.HeaderNotFoundError
		dupErr    *extract.DuplicateFieldError
		parseErr  *extract.ParseError
	)
	switch {
	case errors.As(err, &headerErr), errors.As(err, &dupErr), errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	}

	code := extract.MapError(err).Code
	switch {
	case strings.HasPrefix(code, "DL"):
		return http.StatusBadGateway
	case strings.HasPrefix(code, "CSV"), strings.HasPrefix(code, "MAP"):
		return http.StatusUnprocessableEntity
	case code == "REQ001":
		return http.StatusBadRequest
	case code == "REQ003":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v as JSON. Encoding errors are logged since the
// headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
