package extract

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "header not found",
			err:      &HeaderNotFoundError{Header: "(CM)"},
			wantCode: "MAP001",
		},
		{
			name:     "duplicate output field",
			err:      &DuplicateFieldError{Field: "height"},
			wantCode: "MAP002",
		},
		{
			name:     "malformed csv",
			err:      &ParseError{Err: errors.New("parse error on line 3")},
			wantCode: "CSV001",
		},
		{
			name:     "workbook failure",
			err:      fmt.Errorf("opening workbook: zip: not a valid zip file"),
			wantCode: "CSV002",
		},
		{
			name:     "empty source",
			err:      errors.New("source file has no data rows"),
			wantCode: "CSV003",
		},
		{
			name:     "transport failure",
			err:      errors.New(`download failed: Get "http://example.com": connection refused`),
			wantCode: "DL001",
		},
		{
			name:     "bad scheme",
			err:      errors.New(`unsupported url scheme "ftp"`),
			wantCode: "DL001",
		},
		{
			name:     "non-2xx status",
			err:      errors.New("download failed: unexpected status 404 from example.com"),
			wantCode: "DL002",
		},
		{
			name:     "oversized body",
			err:      errors.New("download failed: response too large (limit 26214400 bytes)"),
			wantCode: "DL003",
		},
		{
			name:     "missing request parameters",
			err:      errors.New("missing required parameters: either csv and csvUrl, or excel_url and excel_headers"),
			wantCode: "REQ001",
		},
		{
			name:     "cancelled request",
			err:      fmt.Errorf("download failed: %w", errors.New("context canceled")),
			wantCode: "REQ002",
		},
		{
			name:     "rate limited",
			err:      errors.New("rate limit exceeded"),
			wantCode: "RATE001",
		},
		{
			name:     "unknown error falls back",
			err:      errors.New("something nobody anticipated"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %s, want %s", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" {
				t.Errorf("MapError(%v).Message is empty", tt.err)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	if got := MapError(nil); got != (UserMessage{}) {
		t.Errorf("MapError(nil) = %v, want zero value", got)
	}
}
