package tabular

// DefaultNumericThreshold is the minimum fraction of numeric-like
// values a text column needs to be classified numeric.
const DefaultNumericThreshold = 0.7

// Classification is the result of column-type detection: two disjoint
// lists of column names in table order. A column may appear in neither
// list (pure text) but never in both. Values of this type are
// immutable; detection always returns a fresh one.
type Classification struct {
	Numeric   []string `json:"numeric_columns"`
	Financial []string `json:"financial_columns"`
	Threshold float64  `json:"threshold"`
}

// IsNumeric reports whether the named column was classified numeric.
func (c *Classification) IsNumeric(name string) bool {
	return contains(c.Numeric, name)
}

// IsFinancial reports whether the named column was classified financial.
func (c *Classification) IsFinancial(name string) bool {
	return contains(c.Financial, name)
}

// NumericWithout returns the numeric list minus the excluded names,
// preserving order.
func (c *Classification) NumericWithout(exclude []string) []string {
	if len(exclude) == 0 {
		return append([]string(nil), c.Numeric...)
	}
	out := make([]string, 0, len(c.Numeric))
	for _, name := range c.Numeric {
		if !contains(exclude, name) {
			out = append(out, name)
		}
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
