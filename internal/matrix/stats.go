package matrix

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// FeatureStats holds the per-column descriptive statistics of a
// dataset matrix. Variance and StdDev are population figures.
type FeatureStats struct {
	Feature  int     `json:"feature"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
}

// ComputeStats returns the statistics of every column of m.
func ComputeStats(m *mat.Dense) []FeatureStats {
	_, cols := m.Dims()
	out := make([]FeatureStats, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, m)
		mean := stat.Mean(col, nil)
		variance := stat.MomentAbout(2, col, mean, nil)

		sorted := append([]float64(nil), col...)
		sort.Float64s(sorted)

		out[j] = FeatureStats{
			Feature:  j,
			Mean:     mean,
			Median:   median(sorted),
			Variance: variance,
			StdDev:   math.Sqrt(variance),
		}
	}
	return out
}

// median of ascending sorted values, averaging the middle pair for an
// even count.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
