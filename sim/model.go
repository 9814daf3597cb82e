package sim

import (
	"math"
	"math/rand"
)

// Rates is the instantaneous birth/death rate pair of one live lineage.
type Rates struct {
	Birth float64
	Death float64
}

// RateShift is one entry of a scheduled rate change: at calendar time At the
// affected lineage (or, for temporal models, every lineage) switches to To.
type RateShift struct {
	At float64
	To Rates
}

// RatePolicy is the pluggable rate-update hook of the branching process
// simulator. Implementations carry no per-trajectory state: all scheduled
// shift bookkeeping is derived from the current time, so one policy value can
// be reused across many trajectories within a single worker.
type RatePolicy interface {
	// RootRates returns the rate pair assigned to the initial lineage.
	RootRates() Rates

	// StepRates recomputes every live lineage's rates in place before each
	// waiting-time draw. liveCount is len(rates); now is the elapsed time.
	StepRates(rates []Rates, liveCount int, now float64)

	// SplitRates derives the two daughters' rate pairs from a splitting
	// parent's.
	SplitRates(parent Rates, rng *rand.Rand) (Rates, Rates)

	// NextShift returns the calendar time of the next scheduled rate shift
	// strictly after now, or +Inf when none remains. Shift times compete
	// with speciation and extinction as a third event type.
	NextShift(now float64) float64

	// ApplyShift applies the shift scheduled at the current time to the
	// live rate set.
	ApplyShift(rates []Rates, now float64, rng *rand.Rand)
}

// noShifts is embedded by policies without scheduled rate changes.
type noShifts struct{}

func (noShifts) NextShift(float64) float64               { return math.Inf(1) }
func (noShifts) ApplyShift([]Rates, float64, *rand.Rand) {}

// nextShiftAfter returns the earliest shift time strictly greater than now.
// Shift schedules are validated to be strictly increasing, so this is
// stateless and safe to call repeatedly along a trajectory.
func nextShiftAfter(shifts []RateShift, now float64) float64 {
	for _, s := range shifts {
		if s.At > now {
			return s.At
		}
	}
	return math.Inf(1)
}

// shiftAt returns the schedule entry whose time matches now exactly. The
// simulator only calls ApplyShift at times returned by NextShift, so a match
// always exists for well-formed schedules.
func shiftAt(shifts []RateShift, now float64) (RateShift, bool) {
	for _, s := range shifts {
		if s.At == now {
			return s, true
		}
	}
	return RateShift{}, false
}
