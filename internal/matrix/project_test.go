package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/mat"
)

func TestProject(t *testing.T) {
	data := mat.NewDense(1, 3, []float64{1, 2, 3})

	out, err := Project(data, DefaultProjection())
	require.NoError(t, err)

	rows, cols := out.Dims()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 2, cols)
	assert.InDelta(t, 1.4, out.At(0, 0), 1e-12)
	assert.InDelta(t, 2.2, out.At(0, 1), 1e-12)
}

func TestProject_DimensionMismatch(t *testing.T) {
	data := mat.NewDense(1, 2, []float64{1, 2})

	_, err := Project(data, DefaultProjection())
	require.Error(t, err)
}
