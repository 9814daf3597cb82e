package sim

import "math/rand"

// EvolvingRate is the per-lineage evolving speciation rate model: each
// daughter inherits the parent's birth rate multiplied by (1 + Z*sigma) with
// Z standard normal, clamped at zero. The death rate stays fixed.
type EvolvingRate struct {
	noShifts
	rootBirth float64
	deathRate float64
	sigma     float64
}

// NewEvolvingRate creates a per-lineage evolving rate model. sigma is the
// evolution scale applied at every speciation.
func NewEvolvingRate(rootBirthRate, deathRate, sigma float64) *EvolvingRate {
	return &EvolvingRate{rootBirth: rootBirthRate, deathRate: deathRate, sigma: sigma}
}

func (m *EvolvingRate) RootRates() Rates {
	return Rates{Birth: m.rootBirth, Death: m.deathRate}
}

// StepRates is a no-op: rates only change at speciations.
func (m *EvolvingRate) StepRates([]Rates, int, float64) {}

func (m *EvolvingRate) SplitRates(parent Rates, rng *rand.Rand) (Rates, Rates) {
	return Rates{Birth: m.evolve(parent.Birth, rng), Death: m.deathRate},
		Rates{Birth: m.evolve(parent.Birth, rng), Death: m.deathRate}
}

func (m *EvolvingRate) evolve(birth float64, rng *rand.Rand) float64 {
	b := birth * (1 + rng.NormFloat64()*m.sigma)
	if b < 0 {
		return 0
	}
	return b
}
