package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// Simulator advances single trajectories of a continuous-time branching
// process under a pluggable rate-update policy. Deterministic given the
// supplied random source.
//
// Thread-safety: NOT thread-safe. Each parallel worker owns its own
// Simulator and its own *rand.Rand.
type Simulator struct {
	policy RatePolicy
	rng    *rand.Rand
}

// NewSimulator creates a Simulator for the given model policy and random
// source.
func NewSimulator(policy RatePolicy, rng *rand.Rand) *Simulator {
	return &Simulator{policy: policy, rng: rng}
}

// Simulate runs one trajectory to the configured stopping condition and
// returns the resulting tree. Extinct lineages remain in the tree as fixed
// terminal leaves; live branches are extended up to the final event (or
// clipped at TreeAge). Returns ErrNoTerminationCondition when the config sets
// neither TreeSize nor TreeAge.
func (s *Simulator) Simulate(cfg ModelConfig) (*Tree, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tree := NewTree()
	nextID := 1
	name := func() string {
		n := fmt.Sprintf("n%d", nextID)
		nextID++
		return n
	}

	live := []*Node{tree.Root}
	rates := []Rates{s.policy.RootRates()}
	now := 0.0

	speciate := func(i int) {
		left, right := live[i].split(name(), name())
		lr, rr := s.policy.SplitRates(rates[i], s.rng)
		live[i], rates[i] = left, lr
		live = append(live, right)
		rates = append(rates, rr)
	}

	// Without a root edge the first split happens at time zero, before any
	// waiting time is drawn.
	if !cfg.RootEdge && cfg.TreeSize != 1 {
		speciate(0)
	}
	if cfg.TreeSize > 0 && len(live) >= cfg.TreeSize {
		return tree, nil
	}

	for {
		s.policy.StepRates(rates, len(live), now)
		var birthSum, deathSum float64
		for _, r := range rates {
			birthSum += r.Birth
			deathSum += r.Death
		}

		tSpec := now + expWait(s.rng, birthSum)
		tExt := now + expWait(s.rng, deathSum)
		tShift := s.policy.NextShift(now)
		tAge := math.Inf(1)
		if cfg.TreeAge > 0 {
			tAge = cfg.TreeAge
		}

		tNext := math.Min(math.Min(tSpec, tExt), math.Min(tShift, tAge))
		if math.IsInf(tNext, 1) {
			// No event can ever fire (all rates zero, no age cap); the
			// trajectory is stalled, e.g. diversity dependence at carrying
			// capacity with no extinction.
			return tree, nil
		}

		dt := tNext - now
		for _, n := range live {
			n.Length += dt
		}
		now = tNext

		switch {
		case tAge <= tNext:
			// Reached the age cap; branches are already clipped because dt
			// never extends past it.
			return tree, nil

		case tShift < tSpec && tShift < tExt:
			s.policy.ApplyShift(rates, now, s.rng)

		case tSpec <= tExt:
			i := pickByRate(s.rng, rates, birthSum, func(r Rates) float64 { return r.Birth })
			speciate(i)
			if cfg.TreeSize > 0 && len(live) >= cfg.TreeSize {
				// The tree ends immediately after the speciation event that
				// created the last species.
				return tree, nil
			}

		default:
			// Extinction: the lineage's node stays in the tree as a fixed
			// terminal leaf; it just stops competing for events.
			i := pickByRate(s.rng, rates, deathSum, func(r Rates) float64 { return r.Death })
			last := len(live) - 1
			live[i], rates[i] = live[last], rates[last]
			live = live[:last]
			rates = rates[:last]
			if len(live) == 0 {
				return tree, nil
			}
		}
	}
}

// pickByRate selects a lineage index with probability proportional to its
// contribution to the total event rate. Lineage rates are heterogeneous under
// the per-lineage models, so a uniform pick would bias which lineage fires.
func pickByRate(rng *rand.Rand, rates []Rates, total float64, rateOf func(Rates) float64) int {
	u := rng.Float64() * total
	acc := 0.0
	for i, r := range rates {
		acc += rateOf(r)
		if u < acc {
			return i
		}
	}
	// Floating-point slack: fall back to the last positive-rate lineage.
	for i := len(rates) - 1; i > 0; i-- {
		if rateOf(rates[i]) > 0 {
			return i
		}
	}
	return 0
}
