package tabular

// ColumnStats holds the descriptive statistics of one numeric column.
// Fields that are undefined for the sample size (std-dev of a single
// value, anything over an empty column) are NaN.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// ColumnInfo holds per-column metadata: the declared storage kind and
// how many cells hold a value.
type ColumnInfo struct {
	Column     string `json:"column"`
	Kind       Kind   `json:"kind"`
	NonMissing int    `json:"non_missing"`
}

// Summary is the pair of artifacts produced by the reporter:
// statistics for every numeric column and metadata for every column,
// both in table order.
type Summary struct {
	Statistics []ColumnStats `json:"statistics"`
	Columns    []ColumnInfo  `json:"columns"`
}

// StatsFor returns the statistics row for the named column, or false
// when the column has none (missing or non-numeric).
func (s *Summary) StatsFor(name string) (ColumnStats, bool) {
	for _, st := range s.Statistics {
		if st.Column == name {
			return st, true
		}
	}
	return ColumnStats{}, false
}

// InfoFor returns the metadata row for the named column.
func (s *Summary) InfoFor(name string) (ColumnInfo, bool) {
	for _, ci := range s.Columns {
		if ci.Column == name {
			return ci, true
		}
	}
	return ColumnInfo{}, false
}
