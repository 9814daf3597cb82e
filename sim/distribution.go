package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// gammaRand samples from Gamma(shape, scale) using Marsaglia-Tsang's method.
// For shape >= 1: direct method.
// For shape < 1: Gamma(shape) = Gamma(shape+1) * U^(1/shape).
func gammaRand(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		// Ahrens-Dieter: Gamma(a) = Gamma(a+1) * U^(1/a)
		u := uniformNonZero(rng)
		return gammaRand(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	// Marsaglia-Tsang for shape >= 1
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)

	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()

		// Squeeze test
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// betaRand samples from Beta(alpha, beta) as X/(X+Y) with X ~ Gamma(alpha),
// Y ~ Gamma(beta).
func betaRand(rng *rand.Rand, alpha, beta float64) float64 {
	x := gammaRand(rng, alpha, 1)
	y := gammaRand(rng, beta, 1)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// === Pendant length distributions ===

// DistSpec describes a pendant-length distribution by name plus parameters.
// Used at configuration boundaries; core code holds the resulting
// PendantDist.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params"`
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q: %w", k, ErrInvalidConfiguration)
		}
	}
	return nil
}

// NewPendantDist creates a PendantDist from a DistSpec. Draws are clamped at
// zero because pendant lengths extend tip branches.
func NewPendantDist(spec DistSpec) (PendantDist, error) {
	switch spec.Type {
	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		mean := spec.Params["mean"]
		if mean <= 0 {
			return nil, fmt.Errorf("exponential pendant mean %v must be positive: %w", mean, ErrInvalidConfiguration)
		}
		return func(rng *rand.Rand) float64 {
			return rng.ExpFloat64() * mean
		}, nil

	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev"); err != nil {
			return nil, err
		}
		mean, stdDev := spec.Params["mean"], spec.Params["std_dev"]
		return func(rng *rand.Rand) float64 {
			v := rng.NormFloat64()*stdDev + mean
			if v < 0 {
				return 0
			}
			return v
		}, nil

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := spec.Params["min"], spec.Params["max"]
		if hi < lo || lo < 0 {
			return nil, fmt.Errorf("uniform pendant range [%v, %v] invalid: %w", lo, hi, ErrInvalidConfiguration)
		}
		return func(rng *rand.Rand) float64 {
			return lo + rng.Float64()*(hi-lo)
		}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		v := spec.Params["value"]
		if v < 0 {
			return nil, fmt.Errorf("constant pendant value %v must be nonnegative: %w", v, ErrInvalidConfiguration)
		}
		return func(*rand.Rand) float64 { return v }, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q: %w", spec.Type, ErrInvalidConfiguration)
	}
}
