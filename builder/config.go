// SPDX-License-Identifier: MIT
// Package: dgm/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   - rng    = nil          (pure unless seeded)
//   - nodeFn = OnesNode     (all-ones node potentials)
//   - edgeFn = OnesEdge     (all-ones arc potentials)

package builder

import "math/rand"

// builderConfig aggregates all knobs used by constructors.
// It is passed by value to constructors.
type builderConfig struct {
	// RNG for stochastic topology and potentials; nil means no randomness.
	rng *rand.Rand
	// Potential generator for every new node.
	nodeFn NodePotentialFn
	// Potential generator for every new arc.
	edgeFn EdgePotentialFn
}

// newBuilderConfig applies all options in order (later overrides earlier).
// Complexity: O(len(opts)).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		nodeFn: OnesNode,
		edgeFn: OnesEdge,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
