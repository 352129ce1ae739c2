package synth

import (
	"math"
	"math/rand"

	"cdnsim/internal/config"
)

// MinThroughputMbps is the positive floor applied to derived throughput.
// A throughput of zero is physically meaningless in this model.
const MinThroughputMbps = 0.01

// DefaultSeed seeds the canonical benchmark dataset.
const DefaultSeed = 42

// Generator produces synthetic CDN performance samples from one
// parameter set and one private random source.
type Generator struct {
	cfg config.GenerationConfig
	rng *rand.Rand
}

// NewGenerator validates cfg and returns a generator seeded with seed.
// The random source is owned exclusively by the returned generator, so
// concurrent generators never share state. It fails with a
// *config.ConfigError before any sampling when cfg is invalid.
func NewGenerator(cfg config.GenerationConfig, seed int64) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}, nil
}

// Generate draws one full dataset. Identical (config, seed) pairs yield
// identical datasets.
//
// The draw order is fixed and part of the reproducibility contract:
// N RTT draws, then N server-delay draws, then the lossy-index
// permutation, then one loss magnitude per lossy index in selection
// order, then one throughput noise factor per sample. Reordering the
// draws changes the output and is a regression.
func (g *Generator) Generate() Dataset {
	n := g.cfg.Samples

	rtt := make([]float64, n)
	for i := range rtt {
		rtt[i] = g.logNormal(g.cfg.RTT)
	}

	delay := make([]float64, n)
	for i := range delay {
		delay[i] = g.logNormal(g.cfg.ServerDelay)
	}

	// floor(n*p) distinct lossy indices, uniform without replacement.
	loss := make([]float64, n)
	lossyCount := int(float64(n) * g.cfg.Loss.Probability)
	for _, idx := range g.rng.Perm(n)[:lossyCount] {
		loss[idx] = g.uniform(g.cfg.Loss.Min, g.cfg.Loss.Max)
	}

	samples := make([]Sample, n)
	for i := 0; i < n; i++ {
		ttfb := rtt[i] + delay[i]
		cost := rtt[i] + ttfb + loss[i]*g.cfg.Loss.ImpactWeight
		throughput := g.cfg.Throughput.Constant / cost * g.uniform(g.cfg.Throughput.NoiseLow, g.cfg.Throughput.NoiseHigh)
		if throughput < MinThroughputMbps {
			throughput = MinThroughputMbps
		}
		samples[i] = Sample{
			RTTMs:          rtt[i],
			TTFBMs:         ttfb,
			Loss:           loss[i],
			ThroughputMbps: throughput,
			ServerDelayMs:  delay[i],
		}
	}
	return Dataset{Samples: samples}
}

// logNormal draws exp(mean + sigma*z) with z standard normal, so the
// result is strictly positive and right-skewed.
func (g *Generator) logNormal(p config.LatencyParams) float64 {
	return math.Exp(p.MeanLog + p.SigmaLog*g.rng.NormFloat64())
}

// uniform draws from [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
