package sim

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Sample is the single entry operation: it validates the request eagerly,
// then collects req.SampleSize accepted trees with the requested algorithm.
//
// With Threads <= 1 the sampler runs inline on the caller's goroutine. With
// Threads = T > 1 the sample count is partitioned across T workers, each with
// its own Sampler and deterministically derived random source; the
// coordinator joins them once and merges the partial results by
// concatenation, with no ordering guarantee across workers. Thread count
// never changes the statistical contract, only wall-clock behavior.
//
// Cancellation: ctx is checked at every trajectory boundary inside the
// samplers, so cancelling stops long-running birth-death trajectories
// promptly rather than only between samples. Worker failures are aggregated
// into a single error.
func Sample(ctx context.Context, req SampleRequest) (*SampleResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	prng := NewPartitionedRNG(NewSampleKey(req.Seed))

	if req.Threads <= 1 {
		sampler := NewSampler(req.Model, req.ModelCfg, req.AlgCfg, req.TreeSize,
			prng.ForSubsystem(SubsystemSampler), req.Progress)
		return sampler.Run(ctx, req.Algorithm, req.SampleSize)
	}

	shares := partition(req.SampleSize, req.Threads)
	logrus.Debugf("sampling %d trees across %d workers: shares=%v", req.SampleSize, len(shares), shares)

	// The progress callback is shared across workers, so serialize it and
	// report the global accepted count. The user callback runs under the
	// lock: callers are promised they never see concurrent or out-of-order
	// invocations.
	var progress ProgressFunc
	if req.Progress != nil {
		var mu sync.Mutex
		globalAccepted := 0
		progress = func(int) {
			mu.Lock()
			defer mu.Unlock()
			globalAccepted++
			req.Progress(globalAccepted)
		}
	}

	// Derive every worker RNG before spawning: PartitionedRNG is not
	// thread-safe, but each derived *rand.Rand is owned by one worker.
	samplers := make([]*Sampler, len(shares))
	for w := range shares {
		samplers[w] = NewSampler(req.Model, req.ModelCfg, req.AlgCfg, req.TreeSize,
			prng.ForSubsystem(SubsystemWorker(w)), progress)
	}

	results := make([]*SampleResult, len(shares))
	errs := make([]error, len(shares))
	var wg sync.WaitGroup
	for w := range shares {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			results[w], errs[w] = samplers[w].Run(ctx, req.Algorithm, shares[w])
		}(w)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	merged := &SampleResult{}
	for _, r := range results {
		merged.merge(r)
	}
	return merged, nil
}

// partition splits sampleSize into at most threads shares that sum to exactly
// sampleSize, so the merged result always has the requested size. Workers
// beyond sampleSize would receive empty shares and are not spawned.
func partition(sampleSize, threads int) []int {
	if threads > sampleSize {
		threads = sampleSize
	}
	shares := make([]int, threads)
	base := sampleSize / threads
	extra := sampleSize % threads
	for i := range shares {
		shares[i] = base
		if i < extra {
			shares[i]++
		}
	}
	return shares
}
