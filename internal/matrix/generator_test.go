package matrix

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/mat"
)

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	gen := NewGenerator(nil, GeneratorConfig{Entities: 50})

	data := gen.Generate(ctx)

	rows, cols := data.Dims()
	assert.Equal(t, 50, rows)
	assert.Equal(t, 3, cols)

	for j, fr := range DefaultFeatureRanges {
		for i := 0; i < rows; i++ {
			v := data.At(i, j)
			assert.GreaterOrEqual(t, v, float64(fr.Low), "feature %d row %d", j, i)
			assert.Less(t, v, float64(fr.High), "feature %d row %d", j, i)
			assert.Equal(t, math.Trunc(v), v, "features are whole numbers")
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	ctx := context.Background()

	a := NewGenerator(nil, GeneratorConfig{Entities: 30}).Generate(ctx)
	b := NewGenerator(nil, GeneratorConfig{Entities: 30}).Generate(ctx)
	assert.True(t, mat.Equal(a, b), "same seed must reproduce the dataset")

	c := NewGenerator(nil, GeneratorConfig{Entities: 30, Seed: 7}).Generate(ctx)
	assert.False(t, mat.Equal(a, c), "different seed must change the dataset")
}

func TestGenerator_Defaults(t *testing.T) {
	gen := NewGenerator(nil, GeneratorConfig{})
	require.Equal(t, 100, gen.entities)
	require.Equal(t, DefaultSeed, gen.seed)
	require.Equal(t, DefaultFeatureRanges, gen.features)
}

func TestGenerator_CustomFeatures(t *testing.T) {
	gen := NewGenerator(nil, GeneratorConfig{
		Entities: 10,
		Features: []FeatureRange{{Low: 0, High: 2}},
	})

	data := gen.Generate(context.Background())
	rows, cols := data.Dims()
	assert.Equal(t, 10, rows)
	assert.Equal(t, 1, cols)
	for i := 0; i < rows; i++ {
		v := data.At(i, 0)
		assert.True(t, v == 0 || v == 1)
	}
}
