package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassificationMembership(t *testing.T) {
	c := &Classification{
		Numeric:   []string{"qty", "price"},
		Financial: []string{"revenue"},
		Threshold: DefaultNumericThreshold,
	}

	assert.True(t, c.IsNumeric("qty"))
	assert.True(t, c.IsNumeric("price"))
	assert.False(t, c.IsNumeric("revenue"))
	assert.True(t, c.IsFinancial("revenue"))
	assert.False(t, c.IsFinancial("qty"))
	assert.False(t, c.IsNumeric("unknown"))
}

func TestNumericWithout(t *testing.T) {
	c := &Classification{Numeric: []string{"a", "b", "c"}}

	assert.Equal(t, []string{"a", "c"}, c.NumericWithout([]string{"b"}))
	assert.Equal(t, []string{"a", "b", "c"}, c.NumericWithout(nil))
	assert.Empty(t, c.NumericWithout([]string{"a", "b", "c"}))

	// The receiver's list is never shared with the result.
	out := c.NumericWithout(nil)
	out[0] = "mutated"
	assert.Equal(t, "a", c.Numeric[0])
}

func TestSummaryLookups(t *testing.T) {
	s := &Summary{
		Statistics: []ColumnStats{{Column: "v", Count: 3, Mean: 2}},
		Columns: []ColumnInfo{
			{Column: "v", Kind: KindNumeric, NonMissing: 3},
			{Column: "label", Kind: KindText, NonMissing: 2},
		},
	}

	st, ok := s.StatsFor("v")
	assert.True(t, ok)
	assert.Equal(t, 3, st.Count)

	_, ok = s.StatsFor("label")
	assert.False(t, ok, "text columns carry no statistics")

	ci, ok := s.InfoFor("label")
	assert.True(t, ok)
	assert.Equal(t, KindText, ci.Kind)

	_, ok = s.InfoFor("absent")
	assert.False(t, ok)
}
