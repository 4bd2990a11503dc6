package dataprep

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"tabprep/internal/errors"
	"tabprep/pkg/tabular"
)

// Strategy names a missing-value treatment.
type Strategy string

const (
	// StrategyMean fills missing cells with the column mean.
	StrategyMean Strategy = "mean"

	// StrategyMedian fills missing cells with the column median.
	StrategyMedian Strategy = "median"

	// StrategyCustom fills missing cells with a caller-supplied value.
	StrategyCustom Strategy = "custom"

	// StrategyDrop removes rows missing a value in any target column.
	StrategyDrop Strategy = "drop"
)

// ParseStrategy maps a strategy name to its Strategy, rejecting names
// outside the recognized set with a strategy error.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(name); s {
	case StrategyMean, StrategyMedian, StrategyCustom, StrategyDrop:
		return s, nil
	default:
		return "", errors.NewStrategyError(fmt.Sprintf("unknown imputation strategy %q", name), nil)
	}
}

// FillOptions selects how missing values are treated.
type FillOptions struct {
	Strategy Strategy
	Columns  []string // Target columns; empty selects the strategy's default scope
	Value    string   // Custom fill value, "0" when empty
}

// Imputer fills or removes missing values under a selected strategy.
// The statistics behind mean and median fills come from the table as
// given, not from values filled earlier in the same call, and every
// target column is validated before any cell changes. A failed call
// therefore never yields a partially treated table.
type Imputer struct {
	logger *slog.Logger
}

// NewImputer creates a new missing-value imputer.
func NewImputer(logger *slog.Logger) *Imputer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Imputer{logger: logger}
}

// Impute applies the selected strategy and returns the treated table.
// With no explicit columns, mean and median target every numeric
// column while custom and drop target all columns. Mean and median on
// a non-numeric column, and a non-numeric custom value for a numeric
// column, are strategy errors.
func (im *Imputer) Impute(ctx context.Context, t *tabular.Table, opts FillOptions) (*tabular.Table, error) {
	if _, err := ParseStrategy(string(opts.Strategy)); err != nil {
		return nil, err
	}

	targets, err := im.resolveTargets(t, opts)
	if err != nil {
		return nil, err
	}

	im.logger.InfoContext(ctx, "treating missing values",
		slog.String("strategy", string(opts.Strategy)),
		slog.Int("columns", len(targets)))

	if opts.Strategy == StrategyDrop {
		return im.dropRows(ctx, t, targets)
	}

	fills, err := im.resolveFills(ctx, t, targets, opts)
	if err != nil {
		return nil, err
	}

	filled := 0
	cols := make([]tabular.Column, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		src := t.At(i)
		col := src.Clone()
		if fill, ok := fills[src.Name]; ok {
			filled += fill.apply(&col)
		}
		cols[i] = col
	}

	out, err := tabular.New(cols)
	if err != nil {
		return nil, fmt.Errorf("assemble treated table: %w", err)
	}

	im.logger.InfoContext(ctx, "treated missing values",
		slog.String("strategy", string(opts.Strategy)),
		slog.Int("filled_cells", filled))

	return out, nil
}

// resolveTargets expands the column selection, validating explicit
// names against the table.
func (im *Imputer) resolveTargets(t *tabular.Table, opts FillOptions) ([]string, error) {
	if len(opts.Columns) > 0 {
		for _, name := range opts.Columns {
			if !t.HasColumn(name) {
				return nil, errors.NewValidationError(fmt.Sprintf("unknown column %q", name), nil)
			}
		}
		return opts.Columns, nil
	}

	if opts.Strategy == StrategyMean || opts.Strategy == StrategyMedian {
		var numeric []string
		for i := 0; i < t.NumCols(); i++ {
			if col := t.At(i); col.Kind == tabular.KindNumeric {
				numeric = append(numeric, col.Name)
			}
		}
		return numeric, nil
	}
	return t.Names(), nil
}

// fillValue is a per-column fill resolved ahead of any mutation.
type fillValue struct {
	numeric float64
	text    string
	isText  bool
}

// apply fills the missing cells of col in place and returns how many
// were filled.
func (f fillValue) apply(col *tabular.Column) int {
	filled := 0
	for j, miss := range col.Missing {
		if !miss {
			continue
		}
		if f.isText {
			col.Text[j] = f.text
		} else {
			col.Floats[j] = f.numeric
		}
		col.Missing[j] = false
		filled++
	}
	return filled
}

// resolveFills validates every target column for the strategy and
// computes its fill value. Columns with nothing to average are left
// out and stay unchanged.
func (im *Imputer) resolveFills(ctx context.Context, t *tabular.Table, targets []string, opts FillOptions) (map[string]fillValue, error) {
	fills := make(map[string]fillValue, len(targets))

	switch opts.Strategy {
	case StrategyMean, StrategyMedian:
		for _, name := range targets {
			col, _ := t.Column(name)
			if col.Kind != tabular.KindNumeric {
				return nil, errors.NewStrategyError(
					fmt.Sprintf("strategy %q requires numeric columns, column %q holds %s", opts.Strategy, name, col.Kind), nil)
			}
		}
		for _, name := range targets {
			col, _ := t.Column(name)
			vals := col.NumericValues()
			if len(vals) == 0 {
				im.logger.DebugContext(ctx, "column has no values to aggregate",
					slog.String("column", name))
				continue
			}
			if opts.Strategy == StrategyMean {
				fills[name] = fillValue{numeric: stat.Mean(vals, nil)}
			} else {
				sorted := append([]float64(nil), vals...)
				sort.Float64s(sorted)
				fills[name] = fillValue{numeric: quantile(sorted, 0.5)}
			}
		}

	case StrategyCustom:
		value := opts.Value
		if value == "" {
			value = "0"
		}
		numericValue, numericOK := parseNumber(value)
		for _, name := range targets {
			col, _ := t.Column(name)
			if col.Kind == tabular.KindNumeric && !numericOK {
				return nil, errors.NewStrategyError(
					fmt.Sprintf("custom fill value %q is not numeric, column %q holds numbers", value, name), nil)
			}
		}
		for _, name := range targets {
			col, _ := t.Column(name)
			if col.Kind == tabular.KindNumeric {
				fills[name] = fillValue{numeric: numericValue}
			} else {
				fills[name] = fillValue{text: value, isText: true}
			}
		}
	}

	return fills, nil
}

// dropRows removes every row missing a value in any target column.
func (im *Imputer) dropRows(ctx context.Context, t *tabular.Table, targets []string) (*tabular.Table, error) {
	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range targets {
		col, _ := t.Column(name)
		for j := range keep {
			if col.IsMissing(j) {
				keep[j] = false
			}
		}
	}

	out, err := t.FilterRows(keep)
	if err != nil {
		return nil, fmt.Errorf("drop rows: %w", err)
	}

	im.logger.InfoContext(ctx, "dropped rows with missing values",
		slog.Int("before", t.NumRows()),
		slog.Int("after", out.NumRows()))

	return out, nil
}
