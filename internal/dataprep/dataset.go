package dataprep

import (
	"context"
	"log/slog"

	"tabprep/internal/errors"
	"tabprep/pkg/tabular"
)

// DatasetConfig holds the tunables for a Dataset and the engines it
// drives. Zero values select the defaults of each engine.
type DatasetConfig struct {
	Threshold     float64  // Classifier numeric-like threshold
	Delimiter     rune     // Loader field delimiter
	NAValues      []string // Loader missing-value spellings
	RemoveSymbols string   // Normalizer removal set
}

// Dataset owns one table loaded from a source, together with the most
// recent column classification, and sequences the preparation engines
// over it. Mutating methods replace the owned table only when the
// underlying engine succeeds, so a failed call leaves the previous
// state intact.
//
// A Dataset must not be mutated from two goroutines at once; use
// separate instances, or the engines directly, for concurrent work.
type Dataset struct {
	source         string
	logger         *slog.Logger
	table          *tabular.Table
	classification *tabular.Classification

	loader     *Loader
	classifier *Classifier
	normalizer *CurrencyNormalizer
	coercer    *Coercer
	imputer    *Imputer
	summarizer *Summarizer
}

// NewDataset creates a dataset bound to a source location. No data is
// read until Load is called.
func NewDataset(source string, logger *slog.Logger, config DatasetConfig) *Dataset {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dataset{
		source: source,
		logger: logger,
		loader: NewLoader(logger, LoaderConfig{
			Delimiter: config.Delimiter,
			NAValues:  config.NAValues,
		}),
		classifier: NewClassifier(logger, ClassifierConfig{
			Threshold: config.Threshold,
		}),
		normalizer: NewCurrencyNormalizer(logger, CurrencyNormalizerConfig{
			RemoveSymbols: config.RemoveSymbols,
		}),
		coercer:    NewCoercer(logger),
		imputer:    NewImputer(logger),
		summarizer: NewSummarizer(logger),
	}
}

// Source returns the source location the dataset was created with.
func (d *Dataset) Source() string {
	return d.source
}

// Loaded reports whether Load has populated the table.
func (d *Dataset) Loaded() bool {
	return d.table != nil
}

// Table returns the current table, nil before Load. The table is owned
// by the dataset; callers must treat it as read-only and Clone before
// modifying.
func (d *Dataset) Table() *tabular.Table {
	return d.table
}

// Classification returns the most recent classification and whether
// one has been computed.
func (d *Dataset) Classification() (tabular.Classification, bool) {
	if d.classification == nil {
		return tabular.Classification{}, false
	}
	return *d.classification, true
}

// Load reads the source into the owned table. A previous table and
// classification are discarded only when loading succeeds.
func (d *Dataset) Load(ctx context.Context) error {
	table, err := d.loader.Load(ctx, d.source)
	if err != nil {
		return err
	}
	d.table = table
	d.classification = nil
	return nil
}

// Classify recomputes the column classification and stores it as the
// most recent result.
func (d *Dataset) Classify(ctx context.Context) (tabular.Classification, error) {
	if err := d.requireTable(); err != nil {
		return tabular.Classification{}, err
	}
	cls := d.classifier.Classify(ctx, d.table)
	d.classification = &cls
	return cls, nil
}

// NormalizeCurrency rewrites every financial column into numeric
// storage, classifying first when no classification exists yet. The
// per-column counts of unparseable cells are returned.
func (d *Dataset) NormalizeCurrency(ctx context.Context) (map[string]int, error) {
	if err := d.requireTable(); err != nil {
		return nil, err
	}
	cls := d.ensureClassification(ctx)
	if len(cls.Financial) == 0 {
		d.logger.DebugContext(ctx, "no financial columns to normalize")
		return map[string]int{}, nil
	}

	table, failures, err := d.normalizer.Normalize(ctx, d.table, cls.Financial)
	if err != nil {
		return nil, err
	}
	d.table = table
	return failures, nil
}

// CoerceNumeric parses every classified numeric column, minus the
// excluded names, into numeric storage. Classification runs first when
// none exists yet. The per-column counts of unparseable cells are
// returned.
func (d *Dataset) CoerceNumeric(ctx context.Context, exclude ...string) (map[string]int, error) {
	if err := d.requireTable(); err != nil {
		return nil, err
	}
	cls := d.ensureClassification(ctx)
	targets := cls.NumericWithout(exclude)
	if len(targets) == 0 {
		d.logger.DebugContext(ctx, "no numeric columns to coerce")
		return map[string]int{}, nil
	}
	return d.coerceInto(ctx, targets)
}

// CoerceColumns parses an explicit column list into numeric storage,
// bypassing the classification scope.
func (d *Dataset) CoerceColumns(ctx context.Context, columns []string) (map[string]int, error) {
	if err := d.requireTable(); err != nil {
		return nil, err
	}
	return d.coerceInto(ctx, columns)
}

func (d *Dataset) coerceInto(ctx context.Context, columns []string) (map[string]int, error) {
	table, failures, err := d.coercer.Coerce(ctx, d.table, columns)
	if err != nil {
		return nil, err
	}
	d.table = table
	return failures, nil
}

// Clean treats missing values under the selected strategy. On error
// the owned table is unchanged.
func (d *Dataset) Clean(ctx context.Context, opts FillOptions) error {
	if err := d.requireTable(); err != nil {
		return err
	}
	table, err := d.imputer.Impute(ctx, d.table, opts)
	if err != nil {
		return err
	}
	d.table = table
	return nil
}

// Summarize builds the descriptive report for the current table.
func (d *Dataset) Summarize(ctx context.Context) (tabular.Summary, error) {
	if err := d.requireTable(); err != nil {
		return tabular.Summary{}, err
	}
	return d.summarizer.Summarize(ctx, d.table), nil
}

// requireTable guards operations that need a loaded table.
func (d *Dataset) requireTable() error {
	if d.table == nil {
		return errors.NewStateError("no table loaded, call Load first", nil)
	}
	return nil
}

// ensureClassification returns the most recent classification,
// computing one on demand when an operation needs it before Classify
// has ever run.
func (d *Dataset) ensureClassification(ctx context.Context) tabular.Classification {
	if d.classification == nil {
		d.logger.DebugContext(ctx, "classification missing, computing on demand")
		cls := d.classifier.Classify(ctx, d.table)
		d.classification = &cls
	}
	return *d.classification
}
