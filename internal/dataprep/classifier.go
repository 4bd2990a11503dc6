package dataprep

import (
	"context"
	"log/slog"
	"strings"

	"tabprep/pkg/tabular"
)

// financialMarkers are the characters whose presence in any cell marks
// a column as currency-formatted: a currency sign, a thousands
// separator, or a parenthesis-negative.
const financialMarkers = "$,()"

// ClassifierConfig holds configuration options for the Classifier.
type ClassifierConfig struct {
	Threshold float64 // Numeric-like fraction required, DefaultNumericThreshold when unset
}

// Classifier decides, per column, whether its content is numeric,
// financial, or plain text. Columns already stored numerically are
// numeric unconditionally. For text columns the financial check runs
// first: one cell containing a financial marker classifies the whole
// column, regardless of how many cells would parse as numbers.
type Classifier struct {
	logger    *slog.Logger
	threshold float64
}

// NewClassifier creates a new column classifier with the given
// configuration.
func NewClassifier(logger *slog.Logger, config ClassifierConfig) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Threshold <= 0 {
		config.Threshold = tabular.DefaultNumericThreshold
	}

	return &Classifier{
		logger:    logger,
		threshold: config.Threshold,
	}
}

// Classify examines every column of the table and returns the numeric
// and financial column sets. The table is not modified. A column with
// no values lands in neither set. Text columns that pass the ratio
// test are listed before columns that were numeric by storage kind.
func (c *Classifier) Classify(ctx context.Context, t *tabular.Table) tabular.Classification {
	result := tabular.Classification{Threshold: c.threshold}

	for i := 0; i < t.NumCols(); i++ {
		col := t.At(i)
		if col.Kind == tabular.KindNumeric {
			continue
		}

		values := make([]string, 0, col.Len())
		for j := 0; j < col.Len(); j++ {
			if v, ok := col.StringAt(j); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		if containsFinancialMarker(values) {
			result.Financial = append(result.Financial, col.Name)
			continue
		}

		numericLike := 0
		for _, v := range values {
			if isNumericLike(v) {
				numericLike++
			}
		}
		if float64(numericLike)/float64(len(values)) >= c.threshold {
			result.Numeric = append(result.Numeric, col.Name)
		}
	}

	for i := 0; i < t.NumCols(); i++ {
		if col := t.At(i); col.Kind == tabular.KindNumeric {
			result.Numeric = append(result.Numeric, col.Name)
		}
	}

	c.logger.InfoContext(ctx, "classified columns",
		slog.Float64("threshold", c.threshold),
		slog.Any("numeric_columns", result.Numeric),
		slog.Any("financial_columns", result.Financial))

	return result
}

func containsFinancialMarker(values []string) bool {
	for _, v := range values {
		if strings.ContainsAny(v, financialMarkers) {
			return true
		}
	}
	return false
}
