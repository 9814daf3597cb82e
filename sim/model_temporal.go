package sim

import "math/rand"

// TemporalShift is the temporal-shift model: every lineage shares one rate
// pair which switches to the next schedule entry whenever the trajectory
// crosses a configured breakpoint. Breakpoints are handled by the simulator
// as a third competing event type.
type TemporalShift struct {
	initial Rates
	shifts  []RateShift
}

// NewTemporalShift creates a temporal-shift model. Shift times must be
// strictly increasing and positive; the constructor silently keeps only the
// well-ordered prefix.
func NewTemporalShift(initial Rates, shifts []RateShift) *TemporalShift {
	return &TemporalShift{initial: initial, shifts: orderedPrefix(shifts)}
}

func (m *TemporalShift) RootRates() Rates { return m.initial }

func (m *TemporalShift) StepRates(rates []Rates, _ int, now float64) {
	r := m.ratesAt(now)
	for i := range rates {
		rates[i] = r
	}
}

func (m *TemporalShift) SplitRates(parent Rates, _ *rand.Rand) (Rates, Rates) {
	return parent, parent
}

func (m *TemporalShift) NextShift(now float64) float64 {
	return nextShiftAfter(m.shifts, now)
}

func (m *TemporalShift) ApplyShift(rates []Rates, now float64, _ *rand.Rand) {
	if s, ok := shiftAt(m.shifts, now); ok {
		for i := range rates {
			rates[i] = s.To
		}
	}
}

// ratesAt returns the schedule entry in force at time now.
func (m *TemporalShift) ratesAt(now float64) Rates {
	r := m.initial
	for _, s := range m.shifts {
		if s.At <= now {
			r = s.To
		}
	}
	return r
}

// orderedPrefix keeps the longest prefix of shifts with strictly increasing
// positive times.
func orderedPrefix(shifts []RateShift) []RateShift {
	var out []RateShift
	prev := 0.0
	for _, s := range shifts {
		if s.At <= prev {
			break
		}
		out = append(out, s)
		prev = s.At
	}
	return out
}
