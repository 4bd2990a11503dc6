package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tabprep/internal/config"
	"tabprep/internal/dataprep"
	"tabprep/internal/exporter"
	"tabprep/internal/files"
	"tabprep/internal/infrastructure"
	"tabprep/internal/operations"
	"tabprep/internal/validation"
)

func main() {
	file := flag.String("file", "", "prepare a single source file instead of scanning the input directory")
	inDir := flag.String("in", "", "input directory for source files (defaults to data/input relative to the executable)")
	outDir := flag.String("out", "", "output directory for reports (defaults to data/reports relative to the executable)")
	strategy := flag.String("strategy", "", "missing value strategy: mean, median, custom or drop (defaults to the configured strategy)")
	fillValue := flag.String("fill-value", "", "fill value for the custom strategy")
	exclude := flag.String("exclude", "", "comma-separated columns to keep as text during coercion")
	workers := flag.Int("workers", 0, "concurrent files in batch mode (defaults to the configured worker count)")
	archive := flag.Bool("archive", false, "move prepared sources into input/processed")
	configFile := flag.String("config", "", "explicit config file path")
	flag.Parse()

	startTime := time.Now()

	cfg := loadConfig(*configFile)
	applyFlagOverrides(cfg, *strategy, *fillValue, *workers)

	paths := cfg.ResolvedPaths()
	if *inDir != "" {
		paths.InputDir = absPath(*inDir)
	}
	if *outDir != "" {
		paths.ReportsDir = absPath(*outDir)
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = filepath.Join(paths.ExecutableDir, cfg.Logging.FilePath)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	fill, err := fillOptions(cfg.Pipeline)
	if err != nil {
		logger.Error("Invalid missing value strategy",
			slog.String("strategy", cfg.Pipeline.Strategy),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Observability), logger)
	if err != nil {
		logger.Warn("Failed to initialize telemetry, continuing without it",
			slog.String("error", err.Error()))
		providers = nil
	}

	var metrics *infrastructure.PipelineMetrics
	var runtimeMetrics *infrastructure.RuntimeMetrics
	if providers != nil && providers.Meter != nil {
		if metrics, err = infrastructure.CreatePipelineMetrics(providers.Meter); err != nil {
			logger.Warn("Failed to create pipeline metrics", slog.String("error", err.Error()))
		}
		if runtimeMetrics, err = infrastructure.NewRuntimeMetrics(providers.Meter); err != nil {
			logger.Warn("Failed to create runtime metrics", slog.String("error", err.Error()))
		}
	}

	logger.Info("Starting tabular preparation",
		slog.String("input_dir", paths.InputDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.String("strategy", string(fill.Strategy)),
		slog.Int("workers", cfg.Pipeline.Workers),
		slog.String("executable_dir", paths.ExecutableDir))

	sources, err := collectSources(*file, paths, logger)
	if err != nil {
		logger.Error("Failed to discover source files", slog.String("error", err.Error()))
		shutdownTelemetry(providers, logger)
		os.Exit(1)
	}

	fmt.Printf("Found %d source files\n", len(sources))
	if len(sources) == 0 {
		logger.Warn("No source files found", slog.String("input_dir", paths.InputDir))
		shutdownTelemetry(providers, logger)
		return
	}

	deps := operations.PipelineDeps{
		Validator: validation.NewFileValidator(logger),
		Tables:    exporter.NewTableExporter(paths),
		Summaries: exporter.NewSummaryExporter(paths),
		Paths:     paths,
		Metrics:   metrics,
	}

	runnerConfig := operations.RunnerConfig{Metrics: metrics}
	if providers != nil {
		runnerConfig.Tracer = providers.Tracer
	}
	runner := operations.NewRunner(logger, runnerConfig,
		operations.PreparationSteps(deps, fill, splitColumns(*exclude))...)

	p := &preparer{
		runner:    runner,
		pipeline:  cfg.Pipeline,
		paths:     paths,
		manager:   files.NewManager(paths),
		summaries: deps.Summaries,
		metrics:   metrics,
		logger:    logger,
		archive:   *archive,
	}

	ctx := infrastructure.EnsureTraceID(context.Background())
	outcomes := make([]fileOutcome, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Pipeline.Workers)
	for i, source := range sources {
		g.Go(func() error {
			outcomes[i] = p.prepareFile(gctx, source)
			return nil
		})
	}
	g.Wait()

	prepared, failed := 0, 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			fmt.Printf("Failed %s: %v\n", filepath.Base(outcome.Source), outcome.Err)
			continue
		}
		prepared++
		fmt.Printf("Prepared %s (%d rows)\n", filepath.Base(outcome.Source), outcome.Rows)
	}
	fmt.Printf("Preparation complete: %d prepared, %d failed\n", prepared, failed)

	if runtimeMetrics != nil {
		stats := runtimeMetrics.Collect(ctx, startTime)
		logger.Info("Runtime statistics",
			slog.Int64("goroutines", stats.GoRoutines),
			slog.Int64("memory_bytes", stats.MemoryUsage),
			slog.Duration("uptime", stats.ProcessUptime))
	}

	logger.Info("Preparation finished",
		slog.Int("prepared", prepared),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(startTime)))

	writeMetricsSnapshot(providers, cfg.Observability.MetricsFile, paths, logger)
	shutdownTelemetry(providers, logger)

	if failed > 0 {
		os.Exit(1)
	}
}

// loadConfig loads the application configuration, falling back to
// defaults anchored at the executable directory
func loadConfig(configFile string) *config.Config {
	if configFile != "" {
		cfg, err := config.LoadFrom(configFile)
		if err != nil {
			slog.Error("Failed to load config file", "path", configFile, "error", err)
			os.Exit(1)
		}
		return cfg
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		if paths, perr := config.GetPaths(); perr == nil {
			cfg.Paths.ExecutableDir = paths.ExecutableDir
		}
	}
	return cfg
}

// applyFlagOverrides lets command line flags win over the config file
func applyFlagOverrides(cfg *config.Config, strategy, fillValue string, workers int) {
	if strategy != "" {
		cfg.Pipeline.Strategy = strategy
	}
	if fillValue != "" {
		cfg.Pipeline.FillValue = fillValue
	}
	if workers > 0 {
		cfg.Pipeline.Workers = workers
	}
	if cfg.Pipeline.Workers <= 0 {
		cfg.Pipeline.Workers = 1
	}
	if cfg.Pipeline.Workers > config.MaxWorkers {
		cfg.Pipeline.Workers = config.MaxWorkers
	}
}

// fillOptions translates the pipeline config into imputation options
func fillOptions(pipeline config.PipelineConfig) (dataprep.FillOptions, error) {
	strategy, err := dataprep.ParseStrategy(pipeline.Strategy)
	if err != nil {
		return dataprep.FillOptions{}, err
	}
	return dataprep.FillOptions{
		Strategy: strategy,
		Value:    pipeline.FillValue,
	}, nil
}

// collectSources resolves the single-file flag or discovers every
// source in the input directory, sorted by name
func collectSources(file string, paths *config.Paths, logger *slog.Logger) ([]string, error) {
	if file != "" {
		return []string{resolveSource(file, paths)}, nil
	}

	discovery := files.NewDiscovery(paths.InputDir)
	found, err := discovery.FindSourceFiles("")
	if err != nil {
		return nil, err
	}

	sources := make([]string, 0, len(found))
	for _, f := range found {
		sources = append(sources, f.Path)
	}
	logger.Info("Discovered source files", slog.Int("count", len(sources)))
	return sources, nil
}

// resolveSource accepts an absolute path, a path relative to the
// working directory, or a bare name under the input directory
func resolveSource(file string, paths *config.Paths) string {
	if filepath.IsAbs(file) {
		return file
	}
	if _, err := os.Stat(file); err == nil {
		return absPath(file)
	}
	return paths.GetInputPath(file)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// splitColumns parses a comma-separated column list
func splitColumns(list string) []string {
	if list == "" {
		return nil
	}
	var columns []string
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			columns = append(columns, c)
		}
	}
	return columns
}

// fileOutcome is the result of preparing one source file
type fileOutcome struct {
	Source string
	Report string
	Rows   int
	Err    error
}

// preparer runs the preparation pipeline over individual source files.
// The runner is shared; each file gets its own dataset.
type preparer struct {
	runner    *operations.Runner
	pipeline  config.PipelineConfig
	paths     *config.Paths
	manager   *files.Manager
	summaries *exporter.SummaryExporter
	metrics   *infrastructure.PipelineMetrics
	logger    *slog.Logger
	archive   bool
}

// prepareFile runs the pipeline for one source and writes its run
// report. Failures are captured in the outcome, not returned, so one
// bad file never stops the batch.
func (p *preparer) prepareFile(ctx context.Context, source string) fileOutcome {
	start := time.Now()
	infrastructure.RecordActiveFileChange(ctx, p.metrics, 1)
	defer infrastructure.RecordActiveFileChange(ctx, p.metrics, -1)

	dataset := dataprep.NewDataset(source, p.logger, dataprep.DatasetConfig{
		Threshold:     p.pipeline.Threshold,
		Delimiter:     p.pipeline.DelimiterRune(),
		NAValues:      p.pipeline.NAValues,
		RemoveSymbols: p.pipeline.RemoveSymbols,
	})

	state, runErr := p.runner.Run(ctx, uuid.NewString(), dataset)
	infrastructure.RecordFileMetrics(ctx, p.metrics, source, time.Since(start), runErr)

	outcome := fileOutcome{Source: source, Err: runErr}
	if dataset.Loaded() {
		outcome.Rows = dataset.Table().NumRows()
	}

	reportName := runReportName(source)
	if err := p.summaries.WriteJSONReport(state.Snapshot(), reportName); err != nil {
		p.logger.ErrorContext(ctx, "Failed to write run report",
			slog.String("source", source),
			slog.String("report", reportName),
			slog.String("error", err.Error()))
	} else {
		outcome.Report = p.paths.GetReportPath(reportName)
	}

	if p.archive && runErr == nil {
		dest := filepath.Join("input", "processed", filepath.Base(source))
		if err := p.manager.MoveFile(source, dest); err != nil {
			p.logger.WarnContext(ctx, "Failed to archive prepared source",
				slog.String("source", source),
				slog.String("error", err.Error()))
		}
	}
	return outcome
}

// runReportName derives the per-run report file name from the source
func runReportName(source string) string {
	name := filepath.Base(source)
	return strings.TrimSuffix(name, filepath.Ext(name)) + "_run.json"
}

// writeMetricsSnapshot dumps the Prometheus registry in text form next
// to the logs so a run leaves an inspectable metrics file behind
func writeMetricsSnapshot(providers *infrastructure.OTelProviders, metricsFile string, paths *config.Paths, logger *slog.Logger) {
	if providers == nil || providers.Registry == nil || metricsFile == "" {
		return
	}
	path := metricsFile
	if !filepath.IsAbs(path) {
		path = paths.GetLogPath(path)
	}
	if err := providers.WriteMetricsSnapshot(path); err != nil {
		logger.Warn("Failed to write metrics snapshot",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	logger.Info("Metrics snapshot written", slog.String("path", path))
}

// shutdownTelemetry flushes and stops the telemetry providers
func shutdownTelemetry(providers *infrastructure.OTelProviders, logger *slog.Logger) {
	if providers == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := providers.Shutdown(ctx); err != nil {
		logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
	}
}
