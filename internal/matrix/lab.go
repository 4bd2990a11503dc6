package matrix

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultTopK is how many ranked entities a run reports.
	DefaultTopK = 10

	// DefaultThreshold0 and DefaultThreshold1 gate the boolean row
	// selection on the first two normalized features.
	DefaultThreshold0 = 0.8
	DefaultThreshold1 = 0.7
)

// LabConfig holds configuration options for a Lab run.
type LabConfig struct {
	Generator  GeneratorConfig
	Weights    []float64  // Composite score weights, DefaultWeights when nil
	TopK       int        // Ranked entities to report, DefaultTopK when unset
	Threshold0 float64    // Selection bound on feature 0, DefaultThreshold0 when zero
	Threshold1 float64    // Selection bound on feature 1, DefaultThreshold1 when zero
	Projection *mat.Dense // Projection matrix, DefaultProjection when nil
}

// Result carries everything one Lab run produces.
type Result struct {
	Raw       *mat.Dense
	MinMax    *mat.Dense
	ZScore    *mat.Dense
	Projected *mat.Dense
	Stats     []FeatureStats
	Scores    []float64
	TopRanked []int
	Selected  []int
}

// Lab sequences the matrix operations over one generated dataset:
// statistics on the raw data, both normalizations, then scoring,
// ranking, selection, and projection on the min-max form.
type Lab struct {
	logger     *slog.Logger
	generator  *Generator
	weights    []float64
	topK       int
	threshold0 float64
	threshold1 float64
	projection *mat.Dense
}

// NewLab creates a new matrix lab with the given configuration.
func NewLab(logger *slog.Logger, config LabConfig) *Lab {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Weights == nil {
		config.Weights = DefaultWeights
	}
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	if config.Threshold0 == 0 {
		config.Threshold0 = DefaultThreshold0
	}
	if config.Threshold1 == 0 {
		config.Threshold1 = DefaultThreshold1
	}
	if config.Projection == nil {
		config.Projection = DefaultProjection()
	}

	return &Lab{
		logger:     logger,
		generator:  NewGenerator(logger, config.Generator),
		weights:    config.Weights,
		topK:       config.TopK,
		threshold0: config.Threshold0,
		threshold1: config.Threshold1,
		projection: config.Projection,
	}
}

// Run executes the full sequence and returns the collected result.
func (l *Lab) Run(ctx context.Context) (*Result, error) {
	raw := l.generator.Generate(ctx)

	result := &Result{
		Raw:    raw,
		Stats:  ComputeStats(raw),
		MinMax: MinMax(raw),
		ZScore: ZScore(raw),
	}

	scores, err := Score(result.MinMax, l.weights)
	if err != nil {
		return nil, fmt.Errorf("score entities: %w", err)
	}
	result.Scores = scores
	result.TopRanked = Rank(scores, l.topK)

	selected, err := Select(result.MinMax, l.threshold0, l.threshold1)
	if err != nil {
		return nil, fmt.Errorf("select entities: %w", err)
	}
	result.Selected = selected

	projected, err := Project(result.MinMax, l.projection)
	if err != nil {
		return nil, fmt.Errorf("project entities: %w", err)
	}
	result.Projected = projected

	l.logger.InfoContext(ctx, "matrix run complete",
		slog.Int("entities", len(scores)),
		slog.Int("top_ranked", len(result.TopRanked)),
		slog.Int("selected", len(selected)))

	return result, nil
}
