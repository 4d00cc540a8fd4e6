// SPDX-License-Identifier: MIT
// Package: dgm/builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   - Option constructors validate and panic on meaningless inputs.
//     Constructors themselves never panic.
//   - Seeding is explicit via WithSeed or WithRand.

package builder

import "math/rand"

// BuilderOption customizes constructors by mutating a builderConfig before
// graph construction begins.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG for stochastic builders. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithNodePotentials sets the generator of node potentials. Panics on nil.
func WithNodePotentials(fn NodePotentialFn) BuilderOption {
	if fn == nil {
		panic("builder: WithNodePotentials(nil)")
	}
	return func(c *builderConfig) {
		c.nodeFn = fn
	}
}

// WithEdgePotentials sets the generator of arc potentials. Panics on nil.
func WithEdgePotentials(fn EdgePotentialFn) BuilderOption {
	if fn == nil {
		panic("builder: WithEdgePotentials(nil)")
	}
	return func(c *builderConfig) {
		c.edgeFn = fn
	}
}
