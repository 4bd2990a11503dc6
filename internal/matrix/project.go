package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultProjection maps the three normalized features onto two
// derived axes.
func DefaultProjection() *mat.Dense {
	return mat.NewDense(2, 3, []float64{
		0.7, 0.2, 0.1,
		0.1, 0.6, 0.3,
	})
}

// Project returns m multiplied by the transpose of p, mapping each row
// of m into the projection's output space. p must have as many columns
// as m.
func Project(m, p *mat.Dense) (*mat.Dense, error) {
	rows, cols := m.Dims()
	pRows, pCols := p.Dims()
	if pCols != cols {
		return nil, fmt.Errorf("projection has %d columns, matrix has %d", pCols, cols)
	}

	out := mat.NewDense(rows, pRows, nil)
	out.Mul(m, p.T())
	return out, nil
}
