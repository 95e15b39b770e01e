package extract

// mapper.go resolves a Mapping against a concrete header row and applies
// the result to data rows.
//
// Resolution rules:
//  1. Parent headers are matched exactly (after cell cleanup) anywhere in
//     the header row, first occurrence wins.
//  2. Sub-headers are matched exactly within their group's column range:
//     the scan starts at the parent's resolved column and advances left to
//     right as each sub-header resolves. Groups with identical sub-header
//     texts therefore never steal each other's columns.
//  3. A HeaderSpec with an empty Header starts its group at the column
//     immediately following the previously resolved group.
//
// Any configured header or sub-header text absent from the header row is
// a hard error; there are no silently empty mappings.

import "strings"

// MakeHeaderIndex builds a lookup from cleaned header text to the first
// column position carrying it. Built once per request and reused for all
// parent header lookups.
func MakeHeaderIndex(headerRow []string) HeaderIndex {
	idx := make(HeaderIndex, len(headerRow))
	for i, h := range headerRow {
		key := CleanHeader(h)
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

// Resolve matches mapping against headerRow and returns the resolved
// column map. It validates output field uniqueness before any column
// lookup and fails on the first header or sub-header text that cannot
// be located.
func Resolve(headerRow []string, mapping Mapping) (*ColumnMap, error) {
	if err := checkDuplicateFields(mapping); err != nil {
		return nil, err
	}

	cleaned := make([]string, len(headerRow))
	for i, h := range headerRow {
		cleaned[i] = CleanHeader(h)
	}
	index := MakeHeaderIndex(headerRow)

	cm := &ColumnMap{}
	cursor := 0 // first column following the last resolved group

	for _, spec := range mapping {
		groupStart := cursor

		if spec.Header != "" {
			col, ok := index[CleanHeader(spec.Header)]
			if !ok {
				return nil, &HeaderNotFoundError{Header: spec.Header}
			}
			if spec.Selected != "" {
				cm.bindings = append(cm.bindings, Binding{Col: col, Field: spec.Selected})
			}
			groupStart = col
			cursor = col + 1
		}

		for _, sub := range spec.SubHeaders {
			if sub.Header == "" {
				continue
			}
			col := findHeader(cleaned, sub.Header, groupStart)
			if col < 0 {
				return nil, &HeaderNotFoundError{Header: sub.Header}
			}
			if sub.Selected != "" {
				cm.bindings = append(cm.bindings, Binding{Col: col, Field: sub.Selected})
			}
			groupStart = col + 1
			if groupStart > cursor {
				cursor = groupStart
			}
		}
	}

	return cm, nil
}

// Apply builds one Record per data row in input order. Cells beyond the
// end of a short row become empty strings.
func (cm *ColumnMap) Apply(rows [][]string) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(cm.bindings))
		for _, b := range cm.bindings {
			var v string
			if b.Col < len(row) {
				v = CleanCell(row[b.Col])
			}
			rec[b.Field] = v
		}
		out = append(out, rec)
	}
	return out
}

// FindHeaderRow returns the index of the first row that carries any of
// the mapping's configured header texts. Source files often have title
// or preamble rows above the real header; the mapping tells us what the
// header row must contain. Returns 0 when nothing matches so Resolve
// can report the precise missing header.
func FindHeaderRow(rows [][]string, mapping Mapping) int {
	texts := headerTexts(mapping)
	if len(texts) == 0 {
		return 0
	}
	for i, row := range rows {
		for _, cell := range row {
			if _, ok := texts[CleanHeader(cell)]; ok {
				return i
			}
		}
	}
	return 0
}

// headerTexts collects the mapping's non-empty parent header texts,
// falling back to sub-header texts when every parent is empty.
func headerTexts(mapping Mapping) map[string]struct{} {
	texts := make(map[string]struct{})
	for _, spec := range mapping {
		if spec.Header != "" {
			texts[CleanHeader(spec.Header)] = struct{}{}
		}
	}
	if len(texts) > 0 {
		return texts
	}
	for _, spec := range mapping {
		for _, sub := range spec.SubHeaders {
			if sub.Header != "" {
				texts[CleanHeader(sub.Header)] = struct{}{}
			}
		}
	}
	return texts
}

// checkDuplicateFields rejects mappings where two specs name the same
// output field. This runs before any row processing.
func checkDuplicateFields(mapping Mapping) error {
	seen := make(map[string]struct{})
	record := func(field string) error {
		if field == "" {
			return nil
		}
		if _, dup := seen[field]; dup {
			return &DuplicateFieldError{Field: field}
		}
		seen[field] = struct{}{}
		return nil
	}

	for _, spec := range mapping {
		if err := record(spec.Selected); err != nil {
			return err
		}
		for _, sub := range spec.SubHeaders {
			if err := record(sub.Selected); err != nil {
				return err
			}
		}
	}
	return nil
}

// findHeader returns the index of the first cell at or after start whose
// cleaned text equals want, or -1.
func findHeader(cleaned []string, want string, start int) int {
	want = CleanHeader(want)
	if start < 0 {
		start = 0
	}
	for i := start; i < len(cleaned); i++ {
		if cleaned[i] == want {
			return i
		}
	}
	return -1
}

// CleanHeader normalizes a header cell for matching: surrounding
// whitespace is trimmed and Excel's leading formula apostrophe dropped.
func CleanHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "'")
	return strings.TrimSpace(s)
}

// CleanCell trims surrounding whitespace from a data cell.
func CleanCell(s string) string {
	return strings.TrimSpace(s)
}
