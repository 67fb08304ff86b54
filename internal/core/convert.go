package core

// convert.go turns raw CSV cells into typed record fields.
//
// The dataset is hand-curated, so cells carry the usual spreadsheet noise:
//   - currency symbols and thousands separators in amounts
//   - accounting negatives "(1.5)"
//   - years written as floats ("2015.0") after a round trip through pandas
//   - Excel formula prefixes (="value") and stray quotes
//
// Parse* functions report ok=false for empty or unusable input instead of
// failing the load; the caller decides what a missing value means.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Cell returns the cleaned value of col in row, or "" when absent.
func (h HeaderIndex) Cell(row []string, col string) string {
	pos, ok := h[col]
	if !ok || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}

// CleanCell removes common CSV artifacts from a cell value:
// surrounding whitespace, an Excel formula prefix and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// ParseNumber parses an amount, tolerating currency symbols, thousands
// separators and accounting-style negatives.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.NewReplacer("$", "", "€", "", "£", "", ",", "").Replace(s)
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "nan", "n/a", "na", "-", "none", "null":
		return 0, false
	}
	if !numericRegex.MatchString(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// ParseYear parses a founding year. "2015" and "2015.0" are both accepted;
// anything outside 1800..2200 is rejected.
func ParseYear(s string) (int, bool) {
	v, ok := ParseNumber(s)
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	y := int(v)
	if y < 1800 || y > 2200 {
		return 0, false
	}
	return y, true
}

// ParseCoordinate parses a latitude (limit 90) or longitude (limit 180).
func ParseCoordinate(s string, limit float64) (float64, bool) {
	v, ok := ParseNumber(s)
	if !ok || math.Abs(v) > limit {
		return 0, false
	}
	return v, true
}
