package dataprep

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"tabprep/internal/errors"
	"tabprep/pkg/tabular"
)

// DefaultRemoveSymbols is the character set stripped from financial
// cells before parsing. Parentheses are deliberately absent so the
// negative form "(body)" survives removal and can be matched.
const DefaultRemoveSymbols = "$,/ "

// CurrencyNormalizerConfig holds configuration options for the
// CurrencyNormalizer.
type CurrencyNormalizerConfig struct {
	RemoveSymbols string // Characters stripped from cells, DefaultRemoveSymbols when empty
}

// CurrencyNormalizer rewrites currency-formatted text columns into
// numeric columns. Cells are compatibility-folded so full-width digits
// and currency signs read like their ASCII forms, stripped of the
// removal set, converted from "(body)" to "-body", then parsed.
// Unparseable cells become the missing marker and are counted, never
// fatal.
type CurrencyNormalizer struct {
	logger  *slog.Logger
	removal map[rune]bool
}

// NewCurrencyNormalizer creates a new currency normalizer with the
// given configuration.
func NewCurrencyNormalizer(logger *slog.Logger, config CurrencyNormalizerConfig) *CurrencyNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.RemoveSymbols == "" {
		config.RemoveSymbols = DefaultRemoveSymbols
	}
	removal := make(map[rune]bool, len(config.RemoveSymbols))
	for _, r := range config.RemoveSymbols {
		removal[r] = true
	}

	return &CurrencyNormalizer{
		logger:  logger,
		removal: removal,
	}
}

// Normalize converts the named columns to numeric storage and returns
// the transformed table together with the per-column count of cells
// that failed to parse. Columns not named are copied unchanged; a
// named column that is already numeric passes through as is.
func (n *CurrencyNormalizer) Normalize(ctx context.Context, t *tabular.Table, columns []string) (*tabular.Table, map[string]int, error) {
	targets := make(map[string]bool, len(columns))
	for _, name := range columns {
		if !t.HasColumn(name) {
			return nil, nil, errors.NewValidationError(fmt.Sprintf("unknown column %q", name), nil)
		}
		targets[name] = true
	}

	n.logger.InfoContext(ctx, "normalizing currency columns",
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
		converted, failed := n.convertColumn(src)
		cols[i] = converted
		failures[src.Name] = failed
		if failed > 0 {
			n.logger.WarnContext(ctx, "currency cells failed to parse",
				slog.String("column", src.Name),
				slog.Int("failed", failed))
		}
	}

	out, err := tabular.New(cols)
	if err != nil {
		return nil, nil, errors.NewParsingError("failed to assemble normalized table", err)
	}

	total := 0
	for _, f := range failures {
		total += f
	}
	n.logger.InfoContext(ctx, "normalized currency columns",
		slog.Int("columns", len(targets)),
		slog.Int("failed_cells", total))

	return out, failures, nil
}

// convertColumn normalizes a single text column into numeric storage,
// returning it with the count of unparseable cells.
func (n *CurrencyNormalizer) convertColumn(src *tabular.Column) (tabular.Column, int) {
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
		f, miss, parsed := n.normalizeCell(raw)
		switch {
		case miss:
			missing[j] = true
		case !parsed:
			missing[j] = true
			failed++
		default:
			floats[j] = f
		}
	}

	return tabular.Column{
		Name:    src.Name,
		Kind:    tabular.KindNumeric,
		Floats:  floats,
		Missing: missing,
	}, failed
}

// normalizeCell runs one cell through fold, trim, symbol removal,
// parenthesis-negative conversion, and parsing. The results are the
// value, whether the cell was empty (missing, not a failure), and
// whether parsing succeeded.
func (n *CurrencyNormalizer) normalizeCell(raw string) (value float64, empty bool, parsed bool) {
	s := strings.TrimSpace(norm.NFKC.String(raw))
	if s == "" {
		return 0, true, false
	}

	s = strings.Map(func(r rune) rune {
		if n.removal[r] {
			return -1
		}
		return r
	}, s)

	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = "-" + s[1:len(s)-1]
	}

	f, ok := parseNumber(s)
	if !ok {
		return 0, false, false
	}
	return f, false, true
}
