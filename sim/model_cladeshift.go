package sim

import "math/rand"

// CladeShift is the punctuated clade-shift model: lineages carry their own
// rate pair, and at each externally scheduled time one uniformly-random live
// lineage has its pair replaced by the next queue entry. Descendants inherit
// the shifted rates, so each shift seeds a clade with its own regime.
type CladeShift struct {
	initial Rates
	shifts  []RateShift
}

// NewCladeShift creates a punctuated clade-shift model. Shift times must be
// strictly increasing and positive; the constructor keeps only the
// well-ordered prefix.
func NewCladeShift(initial Rates, shifts []RateShift) *CladeShift {
	return &CladeShift{initial: initial, shifts: orderedPrefix(shifts)}
}

func (m *CladeShift) RootRates() Rates { return m.initial }

// StepRates is a no-op: per-lineage rates persist between events.
func (m *CladeShift) StepRates([]Rates, int, float64) {}

func (m *CladeShift) SplitRates(parent Rates, _ *rand.Rand) (Rates, Rates) {
	return parent, parent
}

func (m *CladeShift) NextShift(now float64) float64 {
	return nextShiftAfter(m.shifts, now)
}

func (m *CladeShift) ApplyShift(rates []Rates, now float64, rng *rand.Rand) {
	s, ok := shiftAt(m.shifts, now)
	if !ok || len(rates) == 0 {
		return
	}
	rates[rng.Intn(len(rates))] = s.To
}
