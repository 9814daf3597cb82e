package sim

import "math/rand"

// ConstantRate is the constant-rate birth-death model: a fixed rate pair
// shared by every lineage for the whole trajectory. With Death == 0 it is the
// constant-rate pure-birth (Yule) model.
type ConstantRate struct {
	noShifts
	rates Rates
}

// NewConstantRateBirth creates a pure-birth model with the given speciation
// rate.
func NewConstantRateBirth(birthRate float64) *ConstantRate {
	return &ConstantRate{rates: Rates{Birth: birthRate}}
}

// NewConstantRateBirthDeath creates a constant-rate birth-death model.
func NewConstantRateBirthDeath(birthRate, deathRate float64) *ConstantRate {
	return &ConstantRate{rates: Rates{Birth: birthRate, Death: deathRate}}
}

func (m *ConstantRate) RootRates() Rates { return m.rates }

func (m *ConstantRate) StepRates(rates []Rates, _ int, _ float64) {
	for i := range rates {
		rates[i] = m.rates
	}
}

func (m *ConstantRate) SplitRates(parent Rates, _ *rand.Rand) (Rates, Rates) {
	return parent, parent
}
