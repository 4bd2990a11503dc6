package dataprep

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"tabprep/pkg/tabular"
)

// Summarizer computes the descriptive report of a table: quartile
// statistics for every numeric column and kind plus non-missing count
// for every column. It never modifies the table and is deterministic
// for a given input.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a new summary reporter.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize builds the summary for the table. Percentiles use linear
// interpolation between closest ranks; the standard deviation is the
// sample deviation and is NaN for fewer than two values.
func (s *Summarizer) Summarize(ctx context.Context, t *tabular.Table) tabular.Summary {
	summary := tabular.Summary{
		Statistics: make([]tabular.ColumnStats, 0, t.NumCols()),
		Columns:    make([]tabular.ColumnInfo, 0, t.NumCols()),
	}

	for i := 0; i < t.NumCols(); i++ {
		col := t.At(i)
		summary.Columns = append(summary.Columns, tabular.ColumnInfo{
			Column:     col.Name,
			Kind:       col.Kind,
			NonMissing: col.NonMissing(),
		})
		if col.Kind == tabular.KindNumeric {
			summary.Statistics = append(summary.Statistics, describeColumn(col))
		}
	}

	s.logger.InfoContext(ctx, "summarized table",
		slog.Int("columns", len(summary.Columns)),
		slog.Int("numeric_columns", len(summary.Statistics)))

	return summary
}

// describeColumn computes the statistics row for one numeric column.
func describeColumn(col *tabular.Column) tabular.ColumnStats {
	vals := col.NumericValues()
	cs := tabular.ColumnStats{Column: col.Name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std = nan, nan
		cs.Min, cs.P25, cs.Median, cs.P75, cs.Max = nan, nan, nan, nan, nan
		return cs
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	cs.Mean = stat.Mean(vals, nil)
	cs.Std = stat.StdDev(vals, nil)
	cs.Min = sorted[0]
	cs.P25 = quantile(sorted, 0.25)
	cs.Median = quantile(sorted, 0.5)
	cs.P75 = quantile(sorted, 0.75)
	cs.Max = sorted[len(sorted)-1]
	return cs
}
