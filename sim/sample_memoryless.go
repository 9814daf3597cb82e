package sim

import (
	"context"
	"fmt"
)

// SampleMemorylessB is the memoryless pure-birth sampler. Because pure-birth
// waiting times are memoryless, a trajectory stopped at the target size plus
// one caller-supplied pendant length added to every tip is already an
// unbiased sample: every trajectory yields exactly one tree, with no
// rejection or weighting.
func (s *Sampler) SampleMemorylessB(ctx context.Context, sampleSize int) (*SampleResult, error) {
	cfg := s.modelCfg
	cfg.TreeSize = s.treeSize
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
			return nil, fmt.Errorf("algorithm memoryless_b requires a pure-birth model: %w", ErrModelAssumptionViolated)
		}
		if got := len(tr.AliveTips()); got != s.treeSize {
			return nil, fmt.Errorf("algorithm memoryless_b: trajectory stalled at %d of %d lineages: %w",
				got, s.treeSize, ErrModelAssumptionViolated)
		}

		pendant := s.alg.PendantDist(s.rng)
		for _, tip := range tr.Tips() {
			tip.Length += pendant
		}
		res.Trees = append(res.Trees, tr)
		res.Expected = append(res.Expected, 1)
		s.report(len(res.Trees))
	}
	return res, nil
}
