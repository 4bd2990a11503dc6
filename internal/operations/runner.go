package operations

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tabprep/internal/dataprep"
	"tabprep/internal/infrastructure"
)

// Runner drives the registered steps sequentially over one dataset.
// The first step failure stops the run; remaining steps are marked
// skipped so the final report accounts for every step.
type Runner struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	steps   []Step
}

// RunnerConfig holds the optional instrumentation for a Runner
type RunnerConfig struct {
	// Tracer emits one span per step when set
	Tracer trace.Tracer

	// Metrics receives step counters and durations when set
	Metrics *infrastructure.PipelineMetrics
}

// NewRunner creates a runner over the given steps in order
func NewRunner(logger *slog.Logger, config RunnerConfig, steps ...Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger:  logger,
		tracer:  config.Tracer,
		metrics: config.Metrics,
		steps:   steps,
	}
}

// Steps returns the registered steps in run order
func (r *Runner) Steps() []Step {
	return r.steps
}

// Run executes every step against a fresh operation state wrapping the
// dataset. The returned state is complete even on failure: it records
// which step failed and which never ran.
func (r *Runner) Run(ctx context.Context, operationID string, dataset *dataprep.Dataset) (*OperationState, error) {
	state := NewOperationState(operationID, dataset)
	if len(r.steps) == 0 {
		state.Fail(ErrNoSteps)
		return state, ErrNoSteps
	}

	ctx = infrastructure.EnsureTraceID(ctx)

	for _, step := range r.steps {
		state.AddStep(NewStepState(step.ID(), step.Name()))
	}

	state.Start()
	r.logger.InfoContext(ctx, "operation started",
		slog.String("operation_id", state.ID),
		slog.String("source", state.Source),
		slog.Int("step_count", len(r.steps)))

	for i, step := range r.steps {
		if err := ctx.Err(); err != nil {
			r.logger.WarnContext(ctx, "operation cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			cancelErr := NewCancellationError(step.ID(), err)
			r.skipRemaining(state, i, "operation cancelled")
			state.Cancel(cancelErr)
			return state, cancelErr
		}

		if err := r.runStep(ctx, state, step, i); err != nil {
			r.skipRemaining(state, i+1, "previous step failed")
			state.Fail(err)
			return state, err
		}
	}

	state.Complete()
	r.logger.InfoContext(ctx, "operation completed",
		slog.String("operation_id", state.ID),
		slog.String("source", state.Source),
		slog.Duration("duration", state.Duration()))
	return state, nil
}

// runStep validates and executes one step, maintaining its state,
// span and metrics
func (r *Runner) runStep(ctx context.Context, state *OperationState, step Step, position int) error {
	stepState := state.Step(step.ID())

	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "pipeline.step."+step.ID(),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				attribute.String("operation.id", state.ID),
				attribute.String("step.id", step.ID()),
				attribute.String("source", state.Source),
			))
		defer span.End()
	}

	if err := step.Validate(state); err != nil {
		valErr := NewValidationError(step.ID(), err.Error(), err)
		stepState.Fail(valErr)
		infrastructure.RecordError(ctx, valErr)
		r.logger.ErrorContext(ctx, "step validation failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		return valErr
	}

	r.logger.InfoContext(ctx, "step started",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.Int("step_number", position+1),
		slog.Int("step_count", len(r.steps)))

	stepState.Start()
	start := time.Now()
	err := step.Execute(ctx, state)
	duration := time.Since(start)

	infrastructure.RecordStepMetrics(ctx, r.metrics, state.Source, step.ID(), duration, err == nil)

	if err != nil {
		wrapped := WrapError(err, step.ID())
		stepState.Fail(wrapped)
		infrastructure.RecordError(ctx, wrapped)
		r.logger.ErrorContext(ctx, "step failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", wrapped.Error()))
		return wrapped
	}

	stepState.Complete()
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetStatus(codes.Ok, "step completed")
	}
	r.logger.InfoContext(ctx, "step completed",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

// skipRemaining marks every still-pending step from position onward
// as skipped
func (r *Runner) skipRemaining(state *OperationState, position int, reason string) {
	for _, step := range r.steps[min(position, len(r.steps)):] {
		if stepState := state.Step(step.ID()); stepState.CurrentStatus() == StepStatusPending {
			stepState.Skip(reason)
		}
	}
}
