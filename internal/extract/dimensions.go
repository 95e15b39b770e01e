package extract

// dimensions.go parses combined product-size strings. Supplier sheets
// often carry a single "120*40*75" style cell instead of separate
// length/width/height columns.

import (
	"regexp"
	"strings"
)

var dimensionNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// dimensionUnits are trailing unit suffixes stripped before parsing.
var dimensionUnits = []string{"cm", "mm", "inch", "in", "'", `"`}

// ParseDimensions extracts length, width and height from a combined
// dimension string such as "120*40*75", "120x40x75cm" or "120 × 40 × 75".
// Values are returned as the literal numeric substrings. ok is false when
// fewer than three numbers are present.
func ParseDimensions(s string) (length, width, height string, ok bool) {
	dim := strings.ToLower(strings.TrimSpace(s))
	dim = strings.NewReplacer("×", "x", "*", "x", " ", "").Replace(dim)

	for _, unit := range dimensionUnits {
		dim = strings.TrimSuffix(dim, unit)
	}

	nums := dimensionNumber.FindAllString(dim, -1)
	if len(nums) < 3 {
		return "", "", "", false
	}
	return nums[0], nums[1], nums[2], true
}

// applyDimensionSplit fills the configured dimension fields of rec from
// its combined source field. Existing non-empty values win.
func applyDimensionSplit(rec Record, split *DimensionSplit) {
	src, ok := rec[split.Source]
	if !ok || src == "" {
		return
	}
	l, w, h, ok := ParseDimensions(src)
	if !ok {
		return
	}
	for i, v := range []string{l, w, h} {
		field := split.Into[i]
		if field == "" {
			continue
		}
		if cur := rec[field]; cur == "" {
			rec[field] = v
		}
	}
}
