// Package operations orchestrates the data preparation pipeline as an
// ordered sequence of steps over one dataset.
//
// Core components:
//
// Step: a single unit of work. Each concrete step wraps one engine
// call (load, classify, normalize, coerce, clean, summarize) or the
// report export, records its details in step metadata, and feeds the
// pipeline counters.
//
// OperationState: the runtime record of one run. It owns the working
// dataset, the per-step states, the produced summary and the written
// artifact paths, and snapshots into a serializable run report.
//
// Runner: sequential executor with fail-fast semantics. The first
// failing step stops the run; steps that never ran are marked skipped
// so the report accounts for all of them. When configured with a
// tracer and metrics, every step gets a span and duration histogram.
//
// Example usage:
//
//	steps := operations.PreparationSteps(deps, fill, nil)
//	runner := operations.NewRunner(logger, operations.RunnerConfig{
//		Tracer:  providers.Tracer,
//		Metrics: metrics,
//	}, steps...)
//
//	dataset := dataprep.NewDataset(path, logger, datasetConfig)
//	state, err := runner.Run(ctx, uuid.New().String(), dataset)
//	report := state.Snapshot()
package operations
