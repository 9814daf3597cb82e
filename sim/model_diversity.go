package sim

import "math/rand"

// DiversityDependent is the diversity-dependent speciation model: every
// lineage's birth rate shrinks linearly with the current number of live
// lineages, birth = max(0, maxBirth*(1 - n/K)), recomputed at every step.
type DiversityDependent struct {
	noShifts
	maxBirth  float64
	deathRate float64
	capacityK float64
}

// NewDiversityDependent creates a diversity-dependent model with carrying
// capacity k.
func NewDiversityDependent(maxBirthRate, deathRate, k float64) *DiversityDependent {
	return &DiversityDependent{maxBirth: maxBirthRate, deathRate: deathRate, capacityK: k}
}

func (m *DiversityDependent) RootRates() Rates {
	return Rates{Birth: m.birthAt(1), Death: m.deathRate}
}

func (m *DiversityDependent) StepRates(rates []Rates, liveCount int, _ float64) {
	b := m.birthAt(liveCount)
	for i := range rates {
		rates[i] = Rates{Birth: b, Death: m.deathRate}
	}
}

func (m *DiversityDependent) SplitRates(parent Rates, _ *rand.Rand) (Rates, Rates) {
	// StepRates resets every lineage before the next draw; the inherited
	// value only needs to be sane.
	return parent, parent
}

func (m *DiversityDependent) birthAt(liveCount int) float64 {
	b := m.maxBirth * (1 - float64(liveCount)/m.capacityK)
	if b < 0 {
		return 0
	}
	return b
}
