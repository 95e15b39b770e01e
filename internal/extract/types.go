// Package extract provides the column-mapping core for CSV extraction.
// Given a parsed source file and a caller-supplied mapping, it resolves
// each configured header to a physical column and emits one flat record
// per data row. This package has no HTTP dependencies.
package extract

// MaxSubHeaders is the number of sub-header slots a single HeaderSpec
// carries on the wire (sub_header1..sub_header3).
const MaxSubHeaders = 3

// SubHeader pairs a nested column label with the output field it maps to.
// A sub-header belongs to the column group of its parent HeaderSpec and is
// resolved within that group's column range.
type SubHeader struct {
	Header   string // literal header-row text to match
	Selected string // output field name; empty means the column is skipped
}

// HeaderSpec maps one logical column group to output field names.
//
// Header is matched exactly against the header row. It may be empty when
// only sub-headers apply; the group is then assumed to occupy the columns
// immediately following the previously resolved group.
type HeaderSpec struct {
	Header     string
	Selected   string
	SubHeaders []SubHeader
}

// Mapping is the ordered set of HeaderSpecs defining an extraction's
// output schema. Output field names must be unique across the mapping.
type Mapping []HeaderSpec

// Record maps output field names to raw cell values for one data row.
type Record map[string]string

// HeaderIndex maps cleaned header text to its first physical column
// position in the header row.
type HeaderIndex map[string]int

// Binding ties a physical column index to an output field name.
type Binding struct {
	Col   int
	Field string
}

// ColumnMap is a resolved mapping: the ordered bindings produced by
// matching a Mapping against a concrete header row.
type ColumnMap struct {
	bindings []Binding
}

// Bindings returns the resolved column bindings in mapping order.
func (cm *ColumnMap) Bindings() []Binding {
	return cm.bindings
}

// Fields returns the output field names in binding order.
func (cm *ColumnMap) Fields() []string {
	out := make([]string, len(cm.bindings))
	for i, b := range cm.bindings {
		out[i] = b.Field
	}
	return out
}

// DimensionSplit derives three numeric output fields from a combined
// size value such as "120*40*75cm". Source names the output field that
// holds the combined value; Into names the length, width and height
// fields, in that order.
type DimensionSplit struct {
	Source string
	Into   [3]string
}

// Options carries per-request extraction behavior.
type Options struct {
	// ExcludePhoto blanks the "Photo" output field in every record.
	ExcludePhoto bool

	// SplitDimensions, when non-nil, fills the configured dimension
	// fields from the combined source field wherever they are empty.
	SplitDimensions *DimensionSplit
}
