package sim

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
)

// === SampleKey ===

// SampleKey uniquely identifies a reproducible sampling run.
// Two runs with the same SampleKey and identical configuration MUST produce
// bit-for-bit identical results for the same thread count.
type SampleKey int64

// NewSampleKey creates a SampleKey from a seed value.
func NewSampleKey(seed int64) SampleKey {
	return SampleKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemSampler is the RNG subsystem for single-threaded sampling.
	// Uses the master seed directly.
	SubsystemSampler = "sampler"
)

// SubsystemWorker returns the subsystem name for parallel worker N.
func SubsystemWorker(id int) string {
	return fmt.Sprintf("worker_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemSampler: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. The coordinator derives every worker RNG
// before spawning; each worker then owns its *rand.Rand exclusively.
type PartitionedRNG struct {
	key        SampleKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SampleKey.
func NewPartitionedRNG(key SampleKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemSampler {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SampleKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SampleKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === Random event source ===

// uniformNonZero draws a uniform variate in (0, 1), redrawing zeros so that
// ln(u) is always finite.
func uniformNonZero(rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return u
}

// expWait draws an exponential waiting time -ln(U)/rate for the given total
// event rate. Returns +Inf when the rate is zero or negative (the event can
// never fire).
func expWait(rng *rand.Rand, rate float64) float64 {
	if rate <= 0 {
		return math.Inf(1)
	}
	return -math.Log(uniformNonZero(rng)) / rate
}
