package sim

import "math/rand"

// BetaSplit is the beta-split speciation model: at each speciation the
// parent's birth rate is partitioned into the two daughters by a
// Beta(a+1, a+1)-distributed fraction p, giving p*birth and (1-p)*birth.
type BetaSplit struct {
	noShifts
	rootBirth float64
	deathRate float64
	a         float64
}

// NewBetaSplit creates a beta-split model with shape parameter a.
func NewBetaSplit(rootBirthRate, deathRate, a float64) *BetaSplit {
	return &BetaSplit{rootBirth: rootBirthRate, deathRate: deathRate, a: a}
}

func (m *BetaSplit) RootRates() Rates {
	return Rates{Birth: m.rootBirth, Death: m.deathRate}
}

// StepRates is a no-op: rates only change at speciations.
func (m *BetaSplit) StepRates([]Rates, int, float64) {}

func (m *BetaSplit) SplitRates(parent Rates, rng *rand.Rand) (Rates, Rates) {
	p := betaRand(rng, m.a+1, m.a+1)
	return Rates{Birth: parent.Birth * p, Death: m.deathRate},
		Rates{Birth: parent.Birth * (1 - p), Death: m.deathRate}
}
