package operations

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"tabprep/internal/config"
	"tabprep/internal/dataprep"
	"tabprep/internal/exporter"
	"tabprep/internal/infrastructure"
	"tabprep/internal/validation"
	"tabprep/pkg/tabular"
)

// Step identifiers
const (
	StepIDLoad      = "load"
	StepIDClassify  = "classify"
	StepIDNormalize = "normalize_currency"
	StepIDCoerce    = "coerce_numeric"
	StepIDClean     = "clean"
	StepIDSummarize = "summarize"
	StepIDExport    = "export"
)

// Step names
const (
	StepNameLoad      = "Load Source"
	StepNameClassify  = "Column Classification"
	StepNameNormalize = "Currency Normalization"
	StepNameCoerce    = "Numeric Coercion"
	StepNameClean     = "Missing Value Treatment"
	StepNameSummarize = "Summary Statistics"
	StepNameExport    = "Report Export"
)

// requireDataset guards steps that need a dataset on the state
func requireDataset(state *OperationState) error {
	if state.Dataset == nil {
		return fmt.Errorf("operation state carries no dataset")
	}
	return nil
}

// requireLoaded guards steps that need a loaded table
func requireLoaded(state *OperationState) error {
	if err := requireDataset(state); err != nil {
		return err
	}
	if !state.Dataset.Loaded() {
		return fmt.Errorf("dataset is not loaded")
	}
	return nil
}

// LoadStep reads the source file into the dataset
type LoadStep struct {
	BaseStep
	validator *validation.FileValidator
	metrics   *infrastructure.PipelineMetrics
}

// NewLoadStep creates the load step. A nil validator skips the
// pre-load file checks.
func NewLoadStep(validator *validation.FileValidator, metrics *infrastructure.PipelineMetrics) *LoadStep {
	return &LoadStep{
		BaseStep:  NewBaseStep(StepIDLoad, StepNameLoad),
		validator: validator,
		metrics:   metrics,
	}
}

// Validate checks the source file before anything is read
func (s *LoadStep) Validate(state *OperationState) error {
	if err := requireDataset(state); err != nil {
		return err
	}
	if s.validator != nil {
		return s.validator.ValidateSourceFile(state.Dataset.Source())
	}
	return nil
}

// Execute loads the source into the dataset
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	if err := state.Dataset.Load(ctx); err != nil {
		return err
	}

	table := state.Dataset.Table()
	stepState := state.Step(StepIDLoad)
	stepState.SetMetadata("rows", table.NumRows())
	stepState.SetMetadata("columns", table.NumCols())

	if s.metrics != nil {
		s.metrics.RowsLoadedTotal.Add(ctx, int64(table.NumRows()),
			metric.WithAttributes(sourceAttr(state.Source)))
	}
	return nil
}

// ClassifyStep computes the column classification
type ClassifyStep struct {
	BaseStep
}

// NewClassifyStep creates the classification step
func NewClassifyStep() *ClassifyStep {
	return &ClassifyStep{BaseStep: NewBaseStep(StepIDClassify, StepNameClassify)}
}

// Validate requires a loaded table
func (s *ClassifyStep) Validate(state *OperationState) error {
	return requireLoaded(state)
}

// Execute classifies the table columns
func (s *ClassifyStep) Execute(ctx context.Context, state *OperationState) error {
	cls, err := state.Dataset.Classify(ctx)
	if err != nil {
		return err
	}

	stepState := state.Step(StepIDClassify)
	stepState.SetMetadata("numeric_columns", len(cls.Numeric))
	stepState.SetMetadata("financial_columns", len(cls.Financial))
	stepState.SetMetadata("threshold", cls.Threshold)
	return nil
}

// NormalizeStep rewrites financial columns into numeric storage
type NormalizeStep struct {
	BaseStep
	metrics *infrastructure.PipelineMetrics
}

// NewNormalizeStep creates the currency normalization step
func NewNormalizeStep(metrics *infrastructure.PipelineMetrics) *NormalizeStep {
	return &NormalizeStep{
		BaseStep: NewBaseStep(StepIDNormalize, StepNameNormalize),
		metrics:  metrics,
	}
}

// Validate requires a loaded table
func (s *NormalizeStep) Validate(state *OperationState) error {
	return requireLoaded(state)
}

// Execute normalizes every financial column
func (s *NormalizeStep) Execute(ctx context.Context, state *OperationState) error {
	failures, err := state.Dataset.NormalizeCurrency(ctx)
	if err != nil {
		return err
	}

	recordCellFailures(ctx, state, StepIDNormalize, failures, s.metrics)
	return nil
}

// CoerceStep parses classified numeric columns into numeric storage
type CoerceStep struct {
	BaseStep
	exclude []string
	metrics *infrastructure.PipelineMetrics
}

// NewCoerceStep creates the numeric coercion step. Excluded columns
// keep their text storage even when classified numeric.
func NewCoerceStep(exclude []string, metrics *infrastructure.PipelineMetrics) *CoerceStep {
	return &CoerceStep{
		BaseStep: NewBaseStep(StepIDCoerce, StepNameCoerce),
		exclude:  exclude,
		metrics:  metrics,
	}
}

// Validate requires a loaded table
func (s *CoerceStep) Validate(state *OperationState) error {
	return requireLoaded(state)
}

// Execute coerces the classified numeric columns
func (s *CoerceStep) Execute(ctx context.Context, state *OperationState) error {
	failures, err := state.Dataset.CoerceNumeric(ctx, s.exclude...)
	if err != nil {
		return err
	}

	recordCellFailures(ctx, state, StepIDCoerce, failures, s.metrics)
	return nil
}

// CleanStep treats missing values under the configured strategy
type CleanStep struct {
	BaseStep
	options dataprep.FillOptions
	metrics *infrastructure.PipelineMetrics
}

// NewCleanStep creates the missing value treatment step
func NewCleanStep(options dataprep.FillOptions, metrics *infrastructure.PipelineMetrics) *CleanStep {
	return &CleanStep{
		BaseStep: NewBaseStep(StepIDClean, StepNameClean),
		options:  options,
		metrics:  metrics,
	}
}

// Validate requires a loaded table
func (s *CleanStep) Validate(state *OperationState) error {
	return requireLoaded(state)
}

// Execute fills or drops missing values
func (s *CleanStep) Execute(ctx context.Context, state *OperationState) error {
	rowsBefore := state.Dataset.Table().NumRows()
	missingBefore := countMissingCells(state.Dataset.Table())
	if err := state.Dataset.Clean(ctx, s.options); err != nil {
		return err
	}
	rowsAfter := state.Dataset.Table().NumRows()

	stepState := state.Step(StepIDClean)
	stepState.SetMetadata("strategy", string(s.options.Strategy))
	stepState.SetMetadata("rows_before", rowsBefore)
	stepState.SetMetadata("rows_after", rowsAfter)

	if dropped := rowsBefore - rowsAfter; dropped > 0 {
		stepState.SetMetadata("rows_dropped", dropped)
		if s.metrics != nil {
			s.metrics.RowsDroppedTotal.Add(ctx, int64(dropped),
				metric.WithAttributes(sourceAttr(state.Source)))
		}
	}

	if s.options.Strategy != dataprep.StrategyDrop {
		if filled := missingBefore - countMissingCells(state.Dataset.Table()); filled > 0 {
			stepState.SetMetadata("cells_filled", filled)
			if s.metrics != nil {
				s.metrics.CellsFilledTotal.Add(ctx, int64(filled),
					metric.WithAttributes(sourceAttr(state.Source)))
			}
		}
	}
	return nil
}

// SummarizeStep computes descriptive statistics for the current table
type SummarizeStep struct {
	BaseStep
}

// NewSummarizeStep creates the summary step
func NewSummarizeStep() *SummarizeStep {
	return &SummarizeStep{BaseStep: NewBaseStep(StepIDSummarize, StepNameSummarize)}
}

// Validate requires a loaded table
func (s *SummarizeStep) Validate(state *OperationState) error {
	return requireLoaded(state)
}

// Execute summarizes the table and stores the result on the state
func (s *SummarizeStep) Execute(ctx context.Context, state *OperationState) error {
	summary, err := state.Dataset.Summarize(ctx)
	if err != nil {
		return err
	}
	state.SetSummary(summary)

	stepState := state.Step(StepIDSummarize)
	stepState.SetMetadata("numeric_columns", len(summary.Statistics))
	stepState.SetMetadata("columns", len(summary.Columns))
	return nil
}

// ExportStep writes the prepared table and its summary reports
type ExportStep struct {
	BaseStep
	tables    *exporter.TableExporter
	summaries *exporter.SummaryExporter
	paths     *config.Paths
}

// NewExportStep creates the export step
func NewExportStep(tables *exporter.TableExporter, summaries *exporter.SummaryExporter, paths *config.Paths) *ExportStep {
	return &ExportStep{
		BaseStep:  NewBaseStep(StepIDExport, StepNameExport),
		tables:    tables,
		summaries: summaries,
		paths:     paths,
	}
}

// Validate requires a loaded table and a computed summary
func (s *ExportStep) Validate(state *OperationState) error {
	if err := requireLoaded(state); err != nil {
		return err
	}
	if _, ok := state.Summary(); !ok {
		return fmt.Errorf("no summary to export, run the summarize step first")
	}
	return nil
}

// Execute writes the prepared CSV plus the summary CSV and JSON
func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	summary, _ := state.Summary()

	prepared := s.paths.GetPreparedCSVPath(state.Source)
	if err := s.tables.Export(state.Dataset.Table(), prepared); err != nil {
		return err
	}
	state.AddArtifact(prepared)

	summaryCSV := s.paths.GetSummaryCSVPath(state.Source)
	if err := s.summaries.ExportCSV(summary, summaryCSV); err != nil {
		return err
	}
	state.AddArtifact(summaryCSV)

	summaryJSON := s.paths.GetSummaryJSONPath(state.Source)
	if err := s.summaries.ExportJSON(summary, summaryJSON); err != nil {
		return err
	}
	state.AddArtifact(summaryJSON)

	state.Step(StepIDExport).SetMetadata("files", []string{prepared, summaryCSV, summaryJSON})
	return nil
}

// PipelineDeps carries the collaborators shared by the concrete steps
type PipelineDeps struct {
	Validator *validation.FileValidator
	Tables    *exporter.TableExporter
	Summaries *exporter.SummaryExporter
	Paths     *config.Paths
	Metrics   *infrastructure.PipelineMetrics
}

// PreparationSteps assembles the full preparation pipeline in its
// canonical order
func PreparationSteps(deps PipelineDeps, fill dataprep.FillOptions, exclude []string) []Step {
	return []Step{
		NewLoadStep(deps.Validator, deps.Metrics),
		NewClassifyStep(),
		NewNormalizeStep(deps.Metrics),
		NewCoerceStep(exclude, deps.Metrics),
		NewCleanStep(fill, deps.Metrics),
		NewSummarizeStep(),
		NewExportStep(deps.Tables, deps.Summaries, deps.Paths),
	}
}

// recordCellFailures stores per-column parse failure counts in step
// metadata and feeds the failure counter
func recordCellFailures(ctx context.Context, state *OperationState, stepID string, failures map[string]int, metrics *infrastructure.PipelineMetrics) {
	total := 0
	for _, count := range failures {
		total += count
	}

	stepState := state.Step(stepID)
	stepState.SetMetadata("columns_touched", len(failures))
	if total > 0 {
		stepState.SetMetadata("failed_cells", total)
		stepState.SetMetadata("failures_by_column", failures)
	}

	if metrics != nil && total > 0 {
		metrics.CellsFailedTotal.Add(ctx, int64(total),
			metric.WithAttributes(sourceAttr(state.Source), stepAttr(stepID)))
	}
}

// countMissingCells counts the missing cells across every column
func countMissingCells(t *tabular.Table) int {
	missing := 0
	for i := 0; i < t.NumCols(); i++ {
		col := t.At(i)
		missing += col.Len() - col.NonMissing()
	}
	return missing
}

func sourceAttr(source string) attribute.KeyValue {
	return attribute.String("source", source)
}

func stepAttr(step string) attribute.KeyValue {
	return attribute.String("step", step)
}
