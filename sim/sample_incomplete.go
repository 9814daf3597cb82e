package sim

import (
	"context"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// SampleIncompleteBD is the incomplete-taxon-sampling birth-death algorithm:
// like SampleBD, but an interval during which the true lineage count was n >=
// treeSize is additionally weighted by the probability that sub-sampling
// exactly treeSize of n extant species occurs. Accepted snapshots are
// truncated in time and then randomly thinned down to exactly treeSize alive
// tips.
func (s *Sampler) SampleIncompleteBD(ctx context.Context, sampleSize int) (*SampleResult, error) {
	probs := s.samplingProbabilities()

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
			idx := count - s.treeSize
			if idx < 0 || idx >= len(probs) {
				return 0
			}
			return probs[idx]
		})
		if total <= 0 {
			logrus.Debugf("incomplete bd: trajectory contributed no weighted duration at size >= %d, redrawing", s.treeSize)
			continue
		}

		expected := s.alg.Rate * total
		if s.alg.CapExpectedYield {
			// The reference implementation caps the expected yield at the
			// outstanding sample count before rounding, unlike the plain
			// birth-death algorithm. Kept behind a flag; see DESIGN.md.
			if remaining := float64(sampleSize - len(res.Trees)); expected > remaining {
				expected = remaining
			}
		}
		res.Expected = append(res.Expected, expected)
		for k := stochasticRound(expected, s.rng); k > 0 && len(res.Trees) < sampleSize; k-- {
			snapshot := tr.Clone()
			TruncateTime(snapshot, pickInstant(intervals, total, s.rng))
			TruncateSize(snapshot, s.treeSize, s.rng)
			res.Trees = append(res.Trees, snapshot)
			s.report(len(res.Trees))
		}
	}
	return res, nil
}

// samplingProbabilities returns the per-true-count weight vector indexed by
// count-treeSize. A single-entry configuration is a scalar per-species
// sampling probability p, expanded through the binomial pmf
// C(n, treeSize) p^treeSize (1-p)^(n-treeSize) for n in treeSize..MStar and
// renormalized to sum to one so the sampling rate stays comparable across
// algorithms. An explicit vector is used as given.
func (s *Sampler) samplingProbabilities() []float64 {
	if len(s.alg.SamplingProbability) != 1 {
		return s.alg.SamplingProbability
	}
	p := s.alg.SamplingProbability[0]
	probs := make([]float64, s.alg.MStar-s.treeSize+1)
	sum := 0.0
	for n := s.treeSize; n <= s.alg.MStar; n++ {
		b := distuv.Binomial{N: float64(n), P: p}
		probs[n-s.treeSize] = b.Prob(float64(s.treeSize))
		sum += probs[n-s.treeSize]
	}
	if sum > 0 {
		for i := range probs {
			probs[i] /= sum
		}
	}
	return probs
}
