package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStochasticRound_ExactIntegers(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	assert.Equal(t, 0, stochasticRound(0, rng))
	assert.Equal(t, 3, stochasticRound(3, rng))
	assert.Equal(t, 0, stochasticRound(-1.5, rng))
}

func TestStochasticRound_FractionalBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 1000; i++ {
		n := stochasticRound(2.37, rng)
		if n != 2 && n != 3 {
			t.Fatalf("stochasticRound(2.37) = %d, want 2 or 3", n)
		}
	}
}

func TestStochasticRound_Expectation(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const trials = 100000
	sum := 0
	for i := 0; i < trials; i++ {
		sum += stochasticRound(2.37, rng)
	}
	mean := float64(sum) / trials
	assert.InDelta(t, 2.37, mean, 0.01)
}

func TestCollectIntervals_Weights(t *testing.T) {
	times := []float64{0, 1, 3, 4}
	counts := []int{2, 3, 2, 1}

	// Only count 3 weighted: one interval [1, 3).
	ivs, total := collectIntervals(times, counts, func(c int) float64 {
		if c == 3 {
			return 1
		}
		return 0
	})
	assert.Len(t, ivs, 1)
	assert.Equal(t, interval{start: 1, span: 2, weight: 2}, ivs[0])
	assert.InDelta(t, 2.0, total, 1e-12)

	// All counts weighted 0.5: the final state is unbounded and contributes
	// nothing, leaving spans 1+2+1 at half weight.
	ivs, total = collectIntervals(times, counts, func(int) float64 { return 0.5 })
	assert.Len(t, ivs, 3)
	assert.InDelta(t, 2.0, total, 1e-12)
}

func TestCollectIntervals_Empty(t *testing.T) {
	ivs, total := collectIntervals(nil, nil, func(int) float64 { return 1 })
	assert.Empty(t, ivs)
	assert.Zero(t, total)
}

func TestPickInstant_StaysInside(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	ivs := []interval{
		{start: 0, span: 1, weight: 1},
		{start: 5, span: 2, weight: 2},
	}
	for i := 0; i < 1000; i++ {
		x := pickInstant(ivs, 3, rng)
		inFirst := x >= 0 && x < 1
		inSecond := x >= 5 && x < 7
		if !inFirst && !inSecond {
			t.Fatalf("pickInstant returned %v outside every interval", x)
		}
	}
}

func TestPickInstant_WeightProportional(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ivs := []interval{
		{start: 0, span: 1, weight: 1},
		{start: 5, span: 2, weight: 3},
	}
	const trials = 20000
	second := 0
	for i := 0; i < trials; i++ {
		if pickInstant(ivs, 4, rng) >= 5 {
			second++
		}
	}
	assert.InDelta(t, 0.75, float64(second)/trials, 0.01)
}
