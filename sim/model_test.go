package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantRate_SharedRates(t *testing.T) {
	m := NewConstantRateBirthDeath(1.5, 0.5)
	assert.Equal(t, Rates{Birth: 1.5, Death: 0.5}, m.RootRates())

	rates := []Rates{{}, {}, {}}
	m.StepRates(rates, 3, 0.7)
	for _, r := range rates {
		assert.Equal(t, Rates{Birth: 1.5, Death: 0.5}, r)
	}

	l, r := m.SplitRates(m.RootRates(), nil)
	assert.Equal(t, m.RootRates(), l)
	assert.Equal(t, m.RootRates(), r)
	assert.True(t, math.IsInf(m.NextShift(0), 1))
}

func TestDiversityDependent_BirthShrinksWithCount(t *testing.T) {
	m := NewDiversityDependent(2, 0.1, 10)

	rates := make([]Rates, 5)
	m.StepRates(rates, 5, 0)
	assert.InDelta(t, 1.0, rates[0].Birth, 1e-12) // 2*(1 - 5/10)
	assert.InDelta(t, 0.1, rates[0].Death, 1e-12)

	// At and beyond the carrying capacity, births stop entirely.
	m.StepRates(rates, 10, 0)
	assert.Zero(t, rates[0].Birth)
	m.StepRates(rates, 15, 0)
	assert.Zero(t, rates[0].Birth)
}

func TestTemporalShift_Schedule(t *testing.T) {
	m := NewTemporalShift(Rates{Birth: 1}, []RateShift{
		{At: 2, To: Rates{Birth: 3}},
		{At: 5, To: Rates{Birth: 0.5, Death: 0.2}},
	})

	assert.Equal(t, 2.0, m.NextShift(0))
	assert.Equal(t, 5.0, m.NextShift(2)) // strictly after now
	assert.True(t, math.IsInf(m.NextShift(5), 1))

	rates := []Rates{{}, {}}
	m.StepRates(rates, 2, 1)
	assert.Equal(t, Rates{Birth: 1}, rates[0])
	m.StepRates(rates, 2, 2)
	assert.Equal(t, Rates{Birth: 3}, rates[1])
	m.StepRates(rates, 2, 7)
	assert.Equal(t, Rates{Birth: 0.5, Death: 0.2}, rates[0])

	// ApplyShift rewrites every live lineage at the breakpoint.
	rates = []Rates{{Birth: 1}, {Birth: 1}}
	m.ApplyShift(rates, 2, nil)
	assert.Equal(t, []Rates{{Birth: 3}, {Birth: 3}}, rates)
}

func TestOrderedPrefix(t *testing.T) {
	shifts := orderedPrefix([]RateShift{
		{At: 1}, {At: 3}, {At: 2}, {At: 4},
	})
	assert.Len(t, shifts, 2)

	assert.Empty(t, orderedPrefix([]RateShift{{At: 0}}))
	assert.Empty(t, orderedPrefix(nil))
}

func TestEvolvingRate_DaughtersVaryAndClamp(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	m := NewEvolvingRate(1, 0.2, 0.5)

	varied := false
	for i := 0; i < 100; i++ {
		l, r := m.SplitRates(Rates{Birth: 1, Death: 0.2}, rng)
		assert.GreaterOrEqual(t, l.Birth, 0.0)
		assert.GreaterOrEqual(t, r.Birth, 0.0)
		assert.Equal(t, 0.2, l.Death)
		assert.Equal(t, 0.2, r.Death)
		if l.Birth != r.Birth {
			varied = true
		}
	}
	assert.True(t, varied, "daughter birth rates never diverged")

	// A huge sigma drives some draws negative; they must clamp to zero.
	m = NewEvolvingRate(1, 0, 100)
	clamped := false
	for i := 0; i < 100; i++ {
		l, _ := m.SplitRates(Rates{Birth: 1}, rng)
		if l.Birth == 0 {
			clamped = true
			break
		}
	}
	assert.True(t, clamped, "no draw was clamped at zero")
}

func TestBetaSplit_FractionsSumToParent(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	m := NewBetaSplit(2, 0.1, 1)

	for i := 0; i < 100; i++ {
		l, r := m.SplitRates(Rates{Birth: 2, Death: 0.1}, rng)
		assert.InDelta(t, 2.0, l.Birth+r.Birth, 1e-9)
		assert.GreaterOrEqual(t, l.Birth, 0.0)
		assert.GreaterOrEqual(t, r.Birth, 0.0)
		assert.Equal(t, 0.1, l.Death)
	}
}

func TestCladeShift_SingleLineageShifted(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	m := NewCladeShift(Rates{Birth: 1}, []RateShift{
		{At: 1, To: Rates{Birth: 9, Death: 0.5}},
	})

	rates := []Rates{{Birth: 1}, {Birth: 1}, {Birth: 1}, {Birth: 1}}
	m.ApplyShift(rates, 1, rng)

	shifted := 0
	for _, r := range rates {
		if r == (Rates{Birth: 9, Death: 0.5}) {
			shifted++
		}
	}
	assert.Equal(t, 1, shifted)

	// Descendants inherit the shifted pair unchanged.
	l, r := m.SplitRates(Rates{Birth: 9, Death: 0.5}, rng)
	assert.Equal(t, Rates{Birth: 9, Death: 0.5}, l)
	assert.Equal(t, l, r)

	// An unscheduled time is a no-op.
	before := append([]Rates(nil), rates...)
	m.ApplyShift(rates, 2, rng)
	assert.Equal(t, before, rates)
}
