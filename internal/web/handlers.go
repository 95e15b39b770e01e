package web

import (
	"embed"
	"encoding/json"
	"errors"
	"net/http"

	"csvextract/internal/extract"
)

//go:embed static
var staticFiles embed.FS

// extractRequest is the POST /extract body. Two shapes are accepted:
// the full mapping form (excel_url + excel_headers) and the shorthand
// form (csv + csvUrl) where header texts double as output field names.
type extractRequest struct {
	ExcelURL     string          `json:"excel_url"`
	ExcelHeaders []headerMapping `json:"excel_headers"`

	CSV    string       `json:"csv"`
	CSVURL []headerInfo `json:"csvUrl"`

	ExcludePhoto    bool            `json:"exclude_photo"`
	SplitDimensions *dimensionSplit `json:"split_dimensions"`
}

// headerMapping is one mapping rule in the full form. Up to three
// sub-header/selected pairs ride along as flat fields.
type headerMapping struct {
	Header   string `json:"header"`
	Selected string `json:"selected"`

	SubHeader1 string `json:"sub_header1"`
	Selected1  string `json:"selected1"`
	SubHeader2 string `json:"sub_header2"`
	Selected2  string `json:"selected2"`
	SubHeader3 string `json:"sub_header3"`
	Selected3  string `json:"selected3"`
}

// headerInfo is one mapping rule in the shorthand form.
type headerInfo struct {
	Header     string   `json:"header"`
	SubHeaders []string `json:"subHeaders"`
}

type dimensionSplit struct {
	Source string    `json:"source"`
	Into   [3]string `json:"into"`
}

var errMissingParams = errors.New("missing required parameters: either csv and csvUrl, or excel_url and excel_headers")

// handleExtract downloads the configured source file, remaps its
// columns per the request mapping and responds with one JSON object
// per data row.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errors.New("missing required parameters: invalid JSON body"), http.StatusBadRequest)
		return
	}

	srcURL, mapping, err := req.resolve()
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	opts := extract.Options{ExcludePhoto: req.ExcludePhoto}
	if req.SplitDimensions != nil {
		opts.SplitDimensions = &extract.DimensionSplit{
			Source: req.SplitDimensions.Source,
			Into:   req.SplitDimensions.Into,
		}
	}

	records, err := s.service.Extract(r.Context(), srcURL, mapping, opts)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	// Empty result encodes as [] rather than null.
	if records == nil {
		records = []extract.Record{}
	}
	writeJSON(w, r, records)
}

// resolve picks the source URL and mapping from whichever request shape
// is populated, preferring the shorthand form as the original API did.
func (r *extractRequest) resolve() (string, extract.Mapping, error) {
	switch {
	case r.CSV != "" && len(r.CSVURL) > 0:
		return r.CSV, shorthandMapping(r.CSVURL), nil
	case r.ExcelURL != "" && len(r.ExcelHeaders) > 0:
		return r.ExcelURL, fullMapping(r.ExcelHeaders), nil
	default:
		return "", nil, errMissingParams
	}
}

// fullMapping converts the flat wire fields into HeaderSpecs.
func fullMapping(headers []headerMapping) extract.Mapping {
	mapping := make(extract.Mapping, 0, len(headers))
	for _, h := range headers {
		spec := extract.HeaderSpec{Header: h.Header, Selected: h.Selected}
		pairs := [extract.MaxSubHeaders][2]string{
			{h.SubHeader1, h.Selected1},
			{h.SubHeader2, h.Selected2},
			{h.SubHeader3, h.Selected3},
		}
		for _, p := range pairs {
			if p[0] == "" && p[1] == "" {
				continue
			}
			spec.SubHeaders = append(spec.SubHeaders, extract.SubHeader{Header: p[0], Selected: p[1]})
		}
		mapping = append(mapping, spec)
	}
	return mapping
}

// shorthandMapping builds HeaderSpecs whose output field names are the
// header texts themselves. Only the first three sub-headers per group
// are honored.
func shorthandMapping(infos []headerInfo) extract.Mapping {
	mapping := make(extract.Mapping, 0, len(infos))
	for _, info := range infos {
		spec := extract.HeaderSpec{Header: info.Header, Selected: info.Header}
		subs := info.SubHeaders
		if len(subs) > extract.MaxSubHeaders {
			subs = subs[:extract.MaxSubHeaders]
		}
		for _, sub := range subs {
			spec.SubHeaders = append(spec.SubHeaders, extract.SubHeader{Header: sub, Selected: sub})
		}
		mapping = append(mapping, spec)
	}
	return mapping
}

// handleRoot reports service liveness and points at the docs page.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{
		"service": "csv-extraction-api",
		"status":  "ok",
		"docs":    "/docs",
	})
}

// handleDocs serves the embedded API documentation page.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/docs.html")
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
