package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinMax returns a copy of m with every column rescaled to [0, 1] by
// (x-min)/(max-min). A column with no spread maps to zero.
func MinMax(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, m)
		lo, hi := floats.Min(col), floats.Max(col)
		span := hi - lo
		for i := 0; i < rows; i++ {
			if span == 0 {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, (m.At(i, j)-lo)/span)
		}
	}
	return out
}

// ZScore returns a copy of m with every column standardized to
// (x-mean)/stddev using the population deviation. A column with no
// spread maps to zero.
func ZScore(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, m)
		mean := stat.Mean(col, nil)
		std := math.Sqrt(stat.MomentAbout(2, col, mean, nil))
		for i := 0; i < rows; i++ {
			if std == 0 {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, (m.At(i, j)-mean)/std)
		}
	}
	return out
}
