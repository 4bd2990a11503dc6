package dataprep

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabprep/internal/errors"
	"tabprep/pkg/tabular"
)

func TestCoercer_Coerce(t *testing.T) {
	ctx := context.Background()
	coercer := NewCoercer(nil)

	table := tabular.MustNew([]tabular.Column{
		textColumn("age", []string{"30", " 41 ", "abc", ""}, nil),
		textColumn("name", []string{"alice", "bob", "carol", "dan"}, nil),
	})

	out, failures, err := coercer.Coerce(ctx, table, []string{"age"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"age": 1}, failures)

	age, ok := out.Column("age")
	require.True(t, ok)
	assert.Equal(t, tabular.KindNumeric, age.Kind)

	v, _ := age.Float(0)
	assert.Equal(t, 30.0, v)
	v, _ = age.Float(1)
	assert.Equal(t, 41.0, v)
	assert.True(t, age.IsMissing(2), "unparseable becomes missing")
	assert.True(t, age.IsMissing(3), "empty becomes missing without counting")

	// Every cell is now a number or the missing marker.
	for i := 0; i < age.Len(); i++ {
		if age.IsMissing(i) {
			assert.True(t, math.IsNaN(age.Floats[i]))
			continue
		}
		assert.False(t, math.IsNaN(age.Floats[i]))
	}

	name, ok := out.Column("name")
	require.True(t, ok)
	assert.Equal(t, tabular.KindText, name.Kind)
	assert.Equal(t, []string{"alice", "bob", "carol", "dan"}, name.Text)
}

func TestCoercer_AlreadyNumericPassesThrough(t *testing.T) {
	coercer := NewCoercer(nil)
	table := tabular.MustNew([]tabular.Column{
		numericColumn("score", []float64{1.5, 2.5}, nil),
	})

	out, failures, err := coercer.Coerce(context.Background(), table, []string{"score"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"score": 0}, failures)

	score, _ := out.Column("score")
	assert.Equal(t, []float64{1.5, 2.5}, score.Floats)
}

func TestCoercer_UnknownColumn(t *testing.T) {
	coercer := NewCoercer(nil)
	table := tabular.MustNew([]tabular.Column{
		textColumn("age", []string{"1"}, nil),
	})

	_, _, err := coercer.Coerce(context.Background(), table, []string{"absent"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestCoercer_InputUnchanged(t *testing.T) {
	coercer := NewCoercer(nil)
	table := tabular.MustNew([]tabular.Column{
		textColumn("age", []string{"30", "abc"}, nil),
	})

	_, _, err := coercer.Coerce(context.Background(), table, []string{"age"})
	require.NoError(t, err)

	age, _ := table.Column("age")
	assert.Equal(t, tabular.KindText, age.Kind)
	assert.Equal(t, []string{"30", "abc"}, age.Text)
}
