package sim

import (
	"errors"
	"fmt"
)

// Error taxonomy. InvalidConfiguration problems are detected eagerly, before
// any trajectory is simulated, and are never retried. Degenerate trajectories
// (for example a birth-death run that never revisits the target size) are not
// errors at all: the sampler silently discards them and draws again.
var (
	// ErrInvalidConfiguration is the root of all eager validation failures:
	// missing required algorithm fields, malformed sampling-probability
	// vectors, nonsensical sizes.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNoTerminationCondition is returned by Simulate when neither a tree
	// size nor a tree age is configured. Wraps ErrInvalidConfiguration.
	ErrNoTerminationCondition = fmt.Errorf("no termination condition: set TreeSize and/or TreeAge: %w", ErrInvalidConfiguration)

	// ErrModelAssumptionViolated is returned by the pure-birth samplers when
	// a supplied model produces a non-ultrametric trajectory. This is a
	// contract violation by the model, surfaced immediately rather than
	// silently dropped.
	ErrModelAssumptionViolated = errors.New("model assumption violated")
)
