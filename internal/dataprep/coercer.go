package dataprep

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tabprep/internal/errors"
	"tabprep/pkg/tabular"
)

// Coercer converts designated columns to numeric storage. Cells that
// fail to parse become the missing marker and are counted rather than
// aborting the operation; columns not named are copied unchanged.
type Coercer struct {
	logger *slog.Logger
}

// NewCoercer creates a new numeric coercer.
func NewCoercer(logger *slog.Logger) *Coercer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coercer{logger: logger}
}

// Coerce converts the named columns to numeric storage and returns the
// transformed table with the per-column count of unparseable cells.
// Empty cells become missing without counting as failures. A named
// column that is already numeric passes through as is.
func (c *Coercer) Coerce(ctx context.Context, t *tabular.Table, columns []string) (*tabular.Table, map[string]int, error) {
	targets := make(map[string]bool, len(columns))
	for _, name := range columns {
		if !t.HasColumn(name) {
			return nil, nil, errors.NewValidationError(fmt.Sprintf("unknown column %q", name), nil)
		}
		targets[name] = true
	}

	c.logger.InfoContext(ctx, "coercing columns to numeric",
		slog.Int("columns", len(targets)))

	failures := make(map[string]int, len(targets))
	cols := make([]tabular.Column, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		src := t.At(i)
		if !targets[src.Name] {
			cols[i] = src.Clone()
			continue
		}
		if src.Kind == tabular.KindNumeric {
			cols[i] = src.Clone()
			failures[src.Name] = 0
			continue
		}
		converted, failed := coerceColumn(src)
		cols[i] = converted
		failures[src.Name] = failed
		if failed > 0 {
			c.logger.WarnContext(ctx, "cells failed numeric coercion",
				slog.String("column", src.Name),
				slog.Int("failed", failed))
		}
	}

	out, err := tabular.New(cols)
	if err != nil {
		return nil, nil, errors.NewParsingError("failed to assemble coerced table", err)
	}

	total := 0
	for _, f := range failures {
		total += f
	}
	c.logger.InfoContext(ctx, "coerced columns to numeric",
		slog.Int("columns", len(targets)),
		slog.Int("failed_cells", total))

	return out, failures, nil
}

// coerceColumn parses a single text column into numeric storage,
// returning it with the count of unparseable cells.
func coerceColumn(src *tabular.Column) (tabular.Column, int) {
	rows := src.Len()
	floats := make([]float64, rows)
	missing := make([]bool, rows)
	failed := 0

	for j := 0; j < rows; j++ {
		raw, ok := src.StringAt(j)
		if !ok {
			missing[j] = true
			continue
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			missing[j] = true
			continue
		}
		f, parsed := parseNumber(trimmed)
		if !parsed {
			missing[j] = true
			failed++
			continue
		}
		floats[j] = f
	}

	return tabular.Column{
		Name:    src.Name,
		Kind:    tabular.KindNumeric,
		Floats:  floats,
		Missing: missing,
	}, failed
}
