package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultWeights combine the three features into the composite score.
var DefaultWeights = []float64{0.5, 0.3, 0.2}

// Score returns the weighted sum of each row of m.
func Score(m *mat.Dense, weights []float64) ([]float64, error) {
	rows, cols := m.Dims()
	if len(weights) != cols {
		return nil, fmt.Errorf("got %d weights for %d features", len(weights), cols)
	}

	scores := make([]float64, rows)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, m)
		scores[i] = floats.Dot(row, weights)
	}
	return scores, nil
}

// Rank returns the indices of the top k scores in descending order.
// k larger than the score count returns every index.
func Rank(scores []float64, k int) []int {
	cp := append([]float64(nil), scores...)
	inds := make([]int, len(cp))
	floats.Argsort(cp, inds)

	for i, j := 0, len(inds)-1; i < j; i, j = i+1, j-1 {
		inds[i], inds[j] = inds[j], inds[i]
	}
	if k < 0 || k > len(inds) {
		k = len(inds)
	}
	return inds[:k]
}

// Select returns the row indices where the first column exceeds t0 and
// the second exceeds t1. m must have at least two columns.
func Select(m *mat.Dense, t0, t1 float64) ([]int, error) {
	rows, cols := m.Dims()
	if cols < 2 {
		return nil, fmt.Errorf("selection needs 2 columns, matrix has %d", cols)
	}

	var selected []int
	for i := 0; i < rows; i++ {
		if m.At(i, 0) > t0 && m.At(i, 1) > t1 {
			selected = append(selected, i)
		}
	}
	return selected, nil
}
