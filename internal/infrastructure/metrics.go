package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// PipelineMetrics holds the preparation pipeline instruments
type PipelineMetrics struct {
	FilesProcessedTotal metric.Int64Counter
	FileDuration        metric.Float64Histogram
	ActiveFiles         metric.Int64UpDownCounter

	RowsLoadedTotal  metric.Int64Counter
	CellsFailedTotal metric.Int64Counter
	CellsFilledTotal metric.Int64Counter
	RowsDroppedTotal metric.Int64Counter
	StepsTotal       metric.Int64Counter
	StepDuration     metric.Float64Histogram
	ProcessingErrors metric.Int64Counter
}

// CreatePipelineMetrics creates the pipeline instruments on the meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	filesProcessed, err := meter.Int64Counter(
		"prep_files_processed_total",
		metric.WithDescription("Total number of source files processed"),
	)
	if err != nil {
		return nil, err
	}

	fileDuration, err := meter.Float64Histogram(
		"prep_file_duration_seconds",
		metric.WithDescription("End to end processing duration per source file"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeFiles, err := meter.Int64UpDownCounter(
		"prep_active_files",
		metric.WithDescription("Number of files currently being processed"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"prep_rows_loaded_total",
		metric.WithDescription("Total number of data rows loaded"),
	)
	if err != nil {
		return nil, err
	}

	cellsFailed, err := meter.Int64Counter(
		"prep_cells_failed_total",
		metric.WithDescription("Total number of cells that failed numeric conversion"),
	)
	if err != nil {
		return nil, err
	}

	cellsFilled, err := meter.Int64Counter(
		"prep_cells_filled_total",
		metric.WithDescription("Total number of missing cells filled"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"prep_rows_dropped_total",
		metric.WithDescription("Total number of rows dropped for missing values"),
	)
	if err != nil {
		return nil, err
	}

	stepsTotal, err := meter.Int64Counter(
		"prep_steps_total",
		metric.WithDescription("Total number of pipeline steps executed"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"prep_step_duration_seconds",
		metric.WithDescription("Pipeline step execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	processingErrors, err := meter.Int64Counter(
		"prep_errors_total",
		metric.WithDescription("Total number of processing errors"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		FilesProcessedTotal: filesProcessed,
		FileDuration:        fileDuration,
		ActiveFiles:         activeFiles,
		RowsLoadedTotal:     rowsLoaded,
		CellsFailedTotal:    cellsFailed,
		CellsFilledTotal:    cellsFilled,
		RowsDroppedTotal:    rowsDropped,
		StepsTotal:          stepsTotal,
		StepDuration:        stepDuration,
		ProcessingErrors:    processingErrors,
	}, nil
}

// RecordStepMetrics records metrics for one pipeline step execution
func RecordStepMetrics(ctx context.Context, metrics *PipelineMetrics, source, step string, duration time.Duration, success bool) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.String("step", step),
	}

	metrics.StepsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	statusAttr := attribute.String("status", "success")
	if !success {
		statusAttr = attribute.String("status", "failure")
	}
	durationAttrs := append(attrs, statusAttr)
	metrics.StepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(durationAttrs...))
}

// RecordFileMetrics records metrics for one processed source file
func RecordFileMetrics(ctx context.Context, metrics *PipelineMetrics, source string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("source", source),
	}

	statusAttr := attribute.String("status", "success")
	if err != nil {
		statusAttr = attribute.String("status", "failure")
		errorAttrs := append(attrs, attribute.String("error.type", fmt.Sprintf("%T", err)))
		metrics.ProcessingErrors.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
	}

	metrics.FilesProcessedTotal.Add(ctx, 1, metric.WithAttributes(append(attrs, statusAttr)...))
	metrics.FileDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	// Add span event
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("file.metrics_recorded",
			trace.WithAttributes(
				attribute.String("source", source),
				attribute.Bool("success", err == nil),
				attribute.Float64("duration_seconds", duration.Seconds()),
			),
		)
	}
}

// RecordActiveFileChange records a change in the number of in-flight files
func RecordActiveFileChange(ctx context.Context, metrics *PipelineMetrics, delta int64) {
	if metrics == nil {
		return
	}
	metrics.ActiveFiles.Add(ctx, delta)
}
