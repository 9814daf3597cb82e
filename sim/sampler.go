package sim

import (
	"context"
	"math/rand"
)

// Sampler runs one of the generalized sampling algorithms: it draws
// trajectories from a branching process model, measures the simulated time
// each trajectory spent at the target size, converts that duration into an
// expected snapshot yield, and realizes the yield by stochastic rounding.
//
// Thread-safety: NOT thread-safe. The parallel coordinator gives every worker
// its own Sampler with an isolated random source.
type Sampler struct {
	model    RatePolicy
	modelCfg ModelConfig
	alg      AlgorithmConfig
	treeSize int
	rng      *rand.Rand
	progress ProgressFunc
}

// NewSampler creates a Sampler for the given target tree size. model may be
// nil for the analytic constant-rate birth-death algorithm, which never
// simulates.
func NewSampler(model RatePolicy, modelCfg ModelConfig, alg AlgorithmConfig,
	treeSize int, rng *rand.Rand, progress ProgressFunc) *Sampler {
	return &Sampler{
		model:    model,
		modelCfg: modelCfg,
		alg:      alg,
		treeSize: treeSize,
		rng:      rng,
		progress: progress,
	}
}

// Run dispatches to the algorithm's sampler. The switch is exhaustive over
// the Algorithm enum; the zero SampleResult is never returned with a nil
// error.
func (s *Sampler) Run(ctx context.Context, algorithm Algorithm, sampleSize int) (*SampleResult, error) {
	switch algorithm {
	case AlgorithmB:
		return s.SampleB(ctx, sampleSize)
	case AlgorithmBD:
		return s.SampleBD(ctx, sampleSize)
	case AlgorithmIncompleteBD:
		return s.SampleIncompleteBD(ctx, sampleSize)
	case AlgorithmMemorylessB:
		return s.SampleMemorylessB(ctx, sampleSize)
	case AlgorithmConstantRateBD:
		return s.SampleConstantRateBD(ctx, sampleSize)
	default:
		return nil, ErrInvalidConfiguration
	}
}

// report invokes the progress callback, if any, after an accepted sample.
func (s *Sampler) report(accepted int) {
	if s.progress != nil {
		s.progress(accepted)
	}
}

// stochasticRound converts a nonnegative expected count into an integer draw
// count whose expectation equals expected: each whole unit is accepted
// outright and the fractional remainder is accepted with its own probability.
func stochasticRound(expected float64, rng *rand.Rand) int {
	accepted := 0
	for expected > 0 {
		if expected > 1 || rng.Float64() < expected {
			accepted++
		}
		expected--
	}
	return accepted
}

// interval is a span of simulated time during which a trajectory satisfied
// the sampling predicate, together with its sampling weight (duration times
// any incomplete-sampling probability).
type interval struct {
	start  float64
	span   float64
	weight float64
}

// collectIntervals walks an LTT curve and returns the bounded intervals whose
// lineage count has a positive weight under weightFor, plus the total weight.
// The state after the final event is unbounded and never yields an interval.
func collectIntervals(times []float64, counts []int, weightFor func(count int) float64) ([]interval, float64) {
	var out []interval
	total := 0.0
	for i := 0; i+1 < len(times); i++ {
		w := weightFor(counts[i])
		if w <= 0 {
			continue
		}
		span := times[i+1] - times[i]
		if span <= 0 {
			continue
		}
		iv := interval{start: times[i], span: span, weight: span * w}
		out = append(out, iv)
		total += iv.weight
	}
	return out, total
}

// pickInstant chooses an interval with probability proportional to its weight
// and returns a uniform instant inside it.
func pickInstant(intervals []interval, total float64, rng *rand.Rand) float64 {
	u := rng.Float64() * total
	acc := 0.0
	for _, iv := range intervals {
		acc += iv.weight
		if u < acc {
			return iv.start + rng.Float64()*iv.span
		}
	}
	// Floating-point slack: fall back to the last interval.
	last := intervals[len(intervals)-1]
	return last.start + rng.Float64()*last.span
}
