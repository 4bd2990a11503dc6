package dataprep

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber parses a cell as a plain decimal number: optional sign,
// digits, decimal point, e-notation. Go literal extras that a data file
// never means (underscore separators, hex floats) are rejected, as are
// textual NaN and infinity forms.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.ContainsAny(s, "_xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isNumericLike reports whether a value still reads as a number once
// every character other than digits and decimal points is stripped.
// At most one decimal point is allowed; an empty remainder fails.
func isNumericLike(s string) bool {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Replace(b.String(), ".", "", 1)
	if cleaned == "" {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
