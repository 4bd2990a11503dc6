package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tabprep/internal/config"
	"tabprep/internal/exporter"
	"tabprep/internal/infrastructure"
	"tabprep/internal/matrix"
)

func main() {
	n := flag.Int("n", 0, "number of synthetic entities to generate (defaults to the configured count)")
	seed := flag.Uint64("seed", 0, "generator seed for reproducible runs (defaults to the configured seed)")
	top := flag.Int("top", 0, "ranked entities to report (defaults to the configured count)")
	outDir := flag.String("out", "", "artifacts directory (defaults to data/artifacts relative to the executable)")
	configFile := flag.String("config", "", "explicit config file path")
	flag.Parse()

	startTime := time.Now()

	cfg := loadConfig(*configFile)
	applyMatrixOverrides(cfg, *n, *seed, *top)

	paths := cfg.ResolvedPaths()
	if *outDir != "" {
		overrideArtifactsDir(paths, *outDir)
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

	logger.Info("Starting matrix lab",
		slog.Int("entities", cfg.Matrix.Entities),
		slog.Uint64("seed", cfg.Matrix.Seed),
		slog.Int("top_k", cfg.Matrix.TopK),
		slog.String("artifacts_dir", paths.ArtifactsDir))

	ctx := infrastructure.EnsureTraceID(context.Background())
	result, err := runLab(ctx, cfg.Matrix, paths, logger, startTime)
	if err != nil {
		logger.Error("Matrix lab failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Generated %d entities with seed %d\n", cfg.Matrix.Entities, cfg.Matrix.Seed)
	fmt.Printf("Top %d ranked: %v\n", len(result.TopRanked), result.TopRanked)
	fmt.Printf("Selected %d entities above thresholds\n", len(result.Selected))
	fmt.Printf("Artifacts written to %s\n", paths.ArtifactsDir)

	logger.Info("Matrix lab finished",
		slog.Int("top_ranked", len(result.TopRanked)),
		slog.Int("selected", len(result.Selected)),
		slog.Duration("duration", time.Since(startTime)))
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

// applyMatrixOverrides lets command line flags win over the config file
func applyMatrixOverrides(cfg *config.Config, n int, seed uint64, top int) {
	if n > 0 {
		cfg.Matrix.Entities = n
	}
	if seed > 0 {
		cfg.Matrix.Seed = seed
	}
	if top > 0 {
		cfg.Matrix.TopK = top
	}
}

// overrideArtifactsDir repoints the artifacts directory and the
// well-known artifact files it anchors
func overrideArtifactsDir(paths *config.Paths, dir string) {
	paths.ArtifactsDir = absPath(dir)
	paths.MatrixDataset = filepath.Join(paths.ArtifactsDir, config.MatrixDatasetFile)
	paths.MatrixNormalized = filepath.Join(paths.ArtifactsDir, config.MatrixNormalizedFile)
	paths.MatrixReport = filepath.Join(paths.ArtifactsDir, config.MatrixReportFile)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// matrixReport is the JSON document summarizing one lab run
type matrixReport struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Entities    int                   `json:"entities"`
	Seed        uint64                `json:"seed"`
	TopK        int                   `json:"top_k"`
	Stats       []matrix.FeatureStats `json:"stats"`
	Scores      []float64             `json:"scores"`
	TopRanked   []int                 `json:"top_ranked"`
	Selected    []int                 `json:"selected"`
}

// buildReport maps a lab result into its report document
func buildReport(matrixCfg config.MatrixConfig, result *matrix.Result, start time.Time) matrixReport {
	return matrixReport{
		GeneratedAt: start.UTC(),
		Entities:    matrixCfg.Entities,
		Seed:        matrixCfg.Seed,
		TopK:        matrixCfg.TopK,
		Stats:       result.Stats,
		Scores:      result.Scores,
		TopRanked:   result.TopRanked,
		Selected:    result.Selected,
	}
}

// runLab executes the matrix sequence and writes the run's artifacts:
// the raw and normalized matrices in binary form plus the JSON report
func runLab(ctx context.Context, matrixCfg config.MatrixConfig, paths *config.Paths, logger *slog.Logger, start time.Time) (*matrix.Result, error) {
	lab := matrix.NewLab(logger, matrix.LabConfig{
		Generator: matrix.GeneratorConfig{
			Entities: matrixCfg.Entities,
			Seed:     matrixCfg.Seed,
		},
		TopK: matrixCfg.TopK,
	})

	result, err := lab.Run(ctx)
	if err != nil {
		return nil, err
	}

	for _, fs := range result.Stats {
		logger.InfoContext(ctx, "Feature statistics",
			slog.Int("feature", fs.Feature),
			slog.Float64("mean", fs.Mean),
			slog.Float64("median", fs.Median),
			slog.Float64("variance", fs.Variance),
			slog.Float64("std_dev", fs.StdDev))
	}

	matrices := exporter.NewMatrixExporter(paths)
	if err := matrices.Export(result.Raw, paths.MatrixDataset); err != nil {
		return nil, fmt.Errorf("write dataset artifact: %w", err)
	}
	if err := matrices.Export(result.MinMax, paths.MatrixNormalized); err != nil {
		return nil, fmt.Errorf("write normalized artifact: %w", err)
	}

	// Verification read catches truncated or malformed writes while the
	// run can still report them
	verified, err := matrices.Read(paths.MatrixDataset)
	if err != nil {
		return nil, fmt.Errorf("verify dataset artifact: %w", err)
	}
	rows, cols := verified.Dims()
	logger.InfoContext(ctx, "Dataset artifact verified",
		slog.Int("rows", rows),
		slog.Int("cols", cols),
		slog.String("path", paths.MatrixDataset))

	report := buildReport(matrixCfg, result, start)
	summaries := exporter.NewSummaryExporter(paths)
	if err := summaries.WriteJSONReport(report, paths.MatrixReport); err != nil {
		return nil, fmt.Errorf("write matrix report: %w", err)
	}

	return result, nil
}
