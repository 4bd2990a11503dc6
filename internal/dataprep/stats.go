package dataprep

import "math"

// quantile returns the p-quantile of ascending sorted values using
// linear interpolation between closest ranks (the type-7 convention,
// h = (n-1)p). gonum's Quantile interpolates the empirical CDF
// instead, which puts the median of two values at the lower one.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := p * float64(n-1)
	i := int(h)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}
