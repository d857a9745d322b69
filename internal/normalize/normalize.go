// Package normalize converts raw spreadsheet cells into typed values.
//
// Every function is total: malformed input maps to nil (or "" for Text),
// never to an error or a panic.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
	isoLayout      = "2006-01-02T15:04:05"
)

// isNull reports whether a cell is empty or one of the null spellings
// spreadsheet exports produce for blank cells.
func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "none", "null", "nat":
		return true
	}
	return false
}

// ParseDate returns the ISO-8601 form of a "YYYY-MM-DD HH:MM:SS" or
// "YYYY-MM-DD" cell, or nil.
func ParseDate(raw string) *string {
	s := strings.TrimSpace(raw)
	if isNull(s) {
		return nil
	}

	for _, layout := range []string{dateTimeLayout, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			iso := t.Format(isoLayout)
			return &iso
		}
	}
	return nil
}

// ParseNumeric returns the float value of a cell, or nil when the cell is
// empty or not a finite number.
func ParseNumeric(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if isNull(s) {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseInt returns the integer value of a cell, or nil. Whole numbers
// written as floats ("3.0") are accepted; fractional values are not.
func ParseInt(raw string) *int {
	s := strings.TrimSpace(raw)
	if isNull(s) {
		return nil
	}

	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	if math.Abs(f) > 1<<53 {
		return nil
	}
	v := int(f)
	return &v
}

// Text coerces a cell to a trimmed string, "" for null spellings.
func Text(raw string) string {
	s := strings.TrimSpace(raw)
	if isNull(s) {
		return ""
	}
	return s
}
