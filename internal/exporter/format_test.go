package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"integer value", 42, "42"},
		{"decimal keeps precision", 13.4, "13.4"},
		{"negative", -1234.5, "-1234.5"},
		{"zero", 0, "0"},
		{"small fraction", 0.001, "0.001"},
		{"nan is empty", math.NaN(), ""},
		{"large magnitude", 1e21, "1e+21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFloat(tt.input))
		})
	}
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "12", formatInt(12))
	assert.Equal(t, "-7", formatInt(-7))
}
