package dataprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "integer", input: "42", want: 42, ok: true},
		{name: "decimal", input: "3.14", want: 3.14, ok: true},
		{name: "negative", input: "-250", want: -250, ok: true},
		{name: "explicit positive", input: "+5", want: 5, ok: true},
		{name: "exponent", input: "1.5e3", want: 1500, ok: true},
		{name: "surrounding whitespace", input: "  12.5  ", want: 12.5, ok: true},
		{name: "leading dot", input: ".5", want: 0.5, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "whitespace only", input: "   ", ok: false},
		{name: "text", input: "abc", ok: false},
		{name: "trailing text", input: "12abc", ok: false},
		{name: "underscore separator", input: "1_000", ok: false},
		{name: "hex float", input: "0x1p-2", ok: false},
		{name: "textual nan", input: "NaN", ok: false},
		{name: "textual infinity", input: "Inf", ok: false},
		{name: "lone sign", input: "-", ok: false},
		{name: "double dot", input: "1.2.3", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestIsNumericLike(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "plain integer", input: "12", want: true},
		{name: "decimal", input: "34.5", want: true},
		{name: "digits with noise", input: "12abc", want: true},
		{name: "currency form", input: "$12.50", want: true},
		{name: "single dot removed", input: "1.5", want: true},
		{name: "two dots remain", input: "1.2.3", want: false},
		{name: "pure text", input: "abc", want: false},
		{name: "empty", input: "", want: false},
		{name: "dot only", input: ".", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNumericLike(tt.input))
		})
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{name: "median of two", sorted: []float64{10, 20}, p: 0.5, want: 15},
		{name: "median of three", sorted: []float64{1, 2, 3}, p: 0.5, want: 2},
		{name: "median of four interpolates", sorted: []float64{1, 2, 3, 4}, p: 0.5, want: 2.5},
		{name: "lower quartile", sorted: []float64{1, 2, 3, 4}, p: 0.25, want: 1.75},
		{name: "upper quartile", sorted: []float64{1, 2, 3, 4}, p: 0.75, want: 3.25},
		{name: "p zero is min", sorted: []float64{3, 7, 9}, p: 0, want: 3},
		{name: "p one is max", sorted: []float64{3, 7, 9}, p: 1, want: 9},
		{name: "single value", sorted: []float64{5}, p: 0.5, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, quantile(tt.sorted, tt.p), 1e-12)
		})
	}
}
