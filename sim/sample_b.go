package sim

import (
	"context"
	"fmt"
)

// SampleB is the pure-birth generalized sampling algorithm. Each trajectory
// is simulated one speciation past the target size so that the span during
// which it had exactly treeSize lineages is bounded; the sampling rate
// converts that span into an expected snapshot yield, realized by stochastic
// rounding. Every accepted snapshot is an independent clone truncated at a
// uniform instant inside the span.
//
// The model must be pure-birth: a non-ultrametric trajectory is a contract
// violation and fails with ErrModelAssumptionViolated.
func (s *Sampler) SampleB(ctx context.Context, sampleSize int) (*SampleResult, error) {
	cfg := s.modelCfg
	cfg.TreeSize = s.treeSize + 1
	cfg.TreeAge = 0
	simulator := NewSimulator(s.model, s.rng)

	res := &SampleResult{}
	for len(res.Trees) < sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr, err := simulator.Simulate(cfg)
		if err != nil {
			return nil, err
		}
		if !tr.IsUltrametric() {
			return nil, fmt.Errorf("algorithm b requires a pure-birth model: %w", ErrModelAssumptionViolated)
		}
		if got := len(tr.AliveTips()); got != cfg.TreeSize {
			// A stalled trajectory (all rates zero below the target) would
			// otherwise hand the wrong-size span to the measurement.
			return nil, fmt.Errorf("algorithm b: trajectory stalled at %d of %d lineages: %w",
				got, cfg.TreeSize, ErrModelAssumptionViolated)
		}

		times, _ := LineageThroughTime(tr)
		if len(times) < 2 {
			continue
		}
		start := times[len(times)-2]
		span := times[len(times)-1] - start
		if span <= 0 {
			continue
		}

		expected := s.alg.Rate * span
		res.Expected = append(res.Expected, expected)
		for k := stochasticRound(expected, s.rng); k > 0 && len(res.Trees) < sampleSize; k-- {
			snapshot := tr.Clone()
			TruncateTime(snapshot, start+s.rng.Float64()*span)
			res.Trees = append(res.Trees, snapshot)
			s.report(len(res.Trees))
		}
	}
	return res, nil
}
