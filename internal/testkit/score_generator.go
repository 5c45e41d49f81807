package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"gocompare/domain/comparison"
)

// ScoreGeneratorConfig configures the synthetic summary table generator
type ScoreGeneratorConfig struct {
	Groups         int     `json:"groups"`
	MaxRowsPerSide int     `json:"max_rows_per_side"`
	BaseMean       float64 `json:"base_mean"`
	EffectSpread   float64 `json:"effect_spread"`
	StdDev         float64 `json:"stddev"`
	MaxCount       int     `json:"max_count"`
	DropSideRate   float64 `json:"drop_side_rate"`
	NoiseRate      float64 `json:"noise_rate"`
	Seed           int64   `json:"seed"`
}

// DefaultScoreConfig returns a mid-sized table with some degenerate groups.
func DefaultScoreConfig() ScoreGeneratorConfig {
	return ScoreGeneratorConfig{
		Groups:         40,
		MaxRowsPerSide: 3,
		BaseMean:       70,
		EffectSpread:   6,
		StdDev:         9,
		MaxCount:       40,
		DropSideRate:   0.05,
		NoiseRate:      0.02,
		Seed:           42,
	}
}

// ScoreGenerator produces summary tables shaped like the survey export.
// The same config always yields the same table.
type ScoreGenerator struct {
	config ScoreGeneratorConfig
	rng    *rand.Rand
}

// NewScoreGenerator creates a generator
func NewScoreGenerator(config ScoreGeneratorConfig) *ScoreGenerator {
	if config.MaxRowsPerSide < 1 {
		config.MaxRowsPerSide = 1
	}
	if config.MaxCount < 2 {
		config.MaxCount = 2
	}
	return &ScoreGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the table. Group ids are 1..Groups in shuffled row order.
func (g *ScoreGenerator) Generate() comparison.RawTable {
	var rows []comparison.RawRow
	for i := 0; i < g.config.Groups; i++ {
		id := fmt.Sprintf("%d", i+1)
		effect := g.rng.NormFloat64() * g.config.EffectSpread

		dropSingle, dropDual := false, false
		if g.rng.Float64() < g.config.DropSideRate {
			if g.rng.Intn(2) == 0 {
				dropSingle = true
			} else {
				dropDual = true
			}
		}
		if !dropSingle {
			rows = append(rows, g.side(id, "Single", g.config.BaseMean)...)
		}
		if !dropDual {
			rows = append(rows, g.side(id, "Dual", g.config.BaseMean+effect)...)
		}
	}

	g.rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	return Table(rows...)
}

func (g *ScoreGenerator) side(id, label string, center float64) []comparison.RawRow {
	n := 1 + g.rng.Intn(g.config.MaxRowsPerSide)
	out := make([]comparison.RawRow, 0, n)
	for k := 0; k < n; k++ {
		mean := math.Round((center+g.rng.NormFloat64()*2)*100) / 100
		sd := math.Round(math.Abs(g.config.StdDev+g.rng.NormFloat64())*100) / 100
		count := 2 + g.rng.Intn(g.config.MaxCount-1)
		row := Row(id, label, mean, sd, count)
		if g.rng.Float64() < g.config.NoiseRate {
			row[HeaderMean] = "n/a"
		}
		out = append(out, row)
	}
	return out
}
