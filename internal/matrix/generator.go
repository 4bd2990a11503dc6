package matrix

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// FeatureRange bounds one generated integer feature; High is exclusive.
type FeatureRange struct {
	Low  int
	High int
}

// DefaultFeatureRanges are the three synthetic feature distributions.
var DefaultFeatureRanges = []FeatureRange{
	{Low: 50, High: 100},
	{Low: 10, High: 50},
	{Low: 10, High: 500},
}

// DefaultSeed keeps generated datasets reproducible across runs.
const DefaultSeed uint64 = 42

// GeneratorConfig holds configuration options for the Generator.
type GeneratorConfig struct {
	Entities int            // Number of rows, 100 when unset
	Seed     uint64         // PCG seed, DefaultSeed when zero
	Features []FeatureRange // Per-column ranges, DefaultFeatureRanges when nil
}

// Generator produces synthetic integer-feature datasets. The same
// configuration always yields the same matrix.
type Generator struct {
	logger   *slog.Logger
	entities int
	seed     uint64
	features []FeatureRange
}

// NewGenerator creates a new dataset generator with the given
// configuration.
func NewGenerator(logger *slog.Logger, config GeneratorConfig) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Entities <= 0 {
		config.Entities = 100
	}
	if config.Seed == 0 {
		config.Seed = DefaultSeed
	}
	if config.Features == nil {
		config.Features = DefaultFeatureRanges
	}

	return &Generator{
		logger:   logger,
		entities: config.Entities,
		seed:     config.Seed,
		features: config.Features,
	}
}

// Generate builds the dataset matrix, one row per entity and one
// column per feature, populated column by column so each feature draws
// a contiguous run from the stream.
func (g *Generator) Generate(ctx context.Context) *mat.Dense {
	rng := rand.New(rand.NewPCG(g.seed, g.seed))

	data := mat.NewDense(g.entities, len(g.features), nil)
	for j, fr := range g.features {
		span := fr.High - fr.Low
		for i := 0; i < g.entities; i++ {
			data.Set(i, j, float64(fr.Low+rng.IntN(span)))
		}
	}

	g.logger.InfoContext(ctx, "generated synthetic dataset",
		slog.Int("entities", g.entities),
		slog.Int("features", len(g.features)),
		slog.Uint64("seed", g.seed))

	return data
}
