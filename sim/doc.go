// Package sim provides the core engine of treesim: branching-process tree
// simulation and generalized sampling algorithms (GSA) that draw
// statistically unbiased samples of phylogenetic trees of a prescribed size.
//
// # Reading Guide
//
// Start with these three files to understand the sampling kernel:
//   - simulator.go: the branching-process state machine driven by competing
//     exponential clocks, polymorphic over a RatePolicy
//   - ltt.go: lineage-through-time extraction, the measurement that makes the
//     sampling unbiased
//   - sampler.go: stochastic rounding and the dispatch over the five
//     sampling algorithms
//
// # Architecture
//
// Running a branching process "until it reaches N tips" is either impossible
// (extinction lets trajectories overshoot, undershoot or revisit size N) or
// biased (trajectories spend different amounts of calendar time at size N).
// The samplers in this package instead run each trajectory out far enough
// that returning to the target size is negligible, measure via the LTT curve
// exactly how long it spent at the target size, convert that duration into an
// expected snapshot yield, and realize the yield by stochastic rounding.
//
// # Key Interfaces
//
// The extension point is RatePolicy: given the live lineage set and elapsed
// time, supply each lineage's instantaneous birth and death rates. Six models
// implement it (constant-rate birth and birth-death, diversity-dependent,
// temporal-shift, per-lineage evolving rate, beta-split, punctuated
// clade-shift); any of them composes with any simulating sampler.
//
// Sample is the single entry operation; the coordinator in coordinator.go
// fans the sample count across workers when Threads > 1. The sub-package
// sim/newick serializes results as an optional export format.
package sim
