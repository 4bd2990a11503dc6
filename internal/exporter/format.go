package exporter

import (
	"math"
	"strconv"
)

// formatFloat formats a float64 value for CSV output. The shortest
// representation that round-trips is used so re-loading an export does
// not lose precision. NaN marks a missing or undefined value and
// becomes an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
