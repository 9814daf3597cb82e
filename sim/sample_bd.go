package sim

import (
	"context"

	"github.com/sirupsen/logrus"
)

// SampleBD is the birth-death generalized sampling algorithm. Trajectories
// are simulated out to NStar lineages, far enough that back-transition to the
// target size is negligible; every interval during which the lineage count
// equaled the target size contributes duration, and snapshots are taken at
// duration-weighted uniform instants. Trajectories that never spend time at
// the target size are degenerate, not errors: they are discarded and another
// is drawn.
func (s *Sampler) SampleBD(ctx context.Context, sampleSize int) (*SampleResult, error) {
	cfg := s.modelCfg
	cfg.TreeSize = s.alg.NStar
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

		times, counts := LineageThroughTime(tr)
		intervals, total := collectIntervals(times, counts, func(count int) float64 {
			if count == s.treeSize {
				return 1
			}
			return 0
		})
		if total <= 0 {
			logrus.Debugf("bd: trajectory never at size %d, redrawing", s.treeSize)
			continue
		}

		expected := s.alg.Rate * total
		res.Expected = append(res.Expected, expected)
		for k := stochasticRound(expected, s.rng); k > 0 && len(res.Trees) < sampleSize; k-- {
			snapshot := tr.Clone()
			TruncateTime(snapshot, pickInstant(intervals, total, s.rng))
			res.Trees = append(res.Trees, snapshot)
			s.report(len(res.Trees))
		}
	}
	return res, nil
}
