// SPDX-License-Identifier: MIT
// Package: dgm/builder
//
// api.go - public entry point for assembling pairwise graphs.
//
// Design contract:
//   - One orchestrator: BuildGraph(nStates, bopts, cons...). Creates g, resolves cfg, runs cons in order.
//   - Constructors append nodes after the ones already present, so composing
//     several constructors yields their disjoint union with stable ids.
//   - Determinism: same inputs, options, seed and constructor order give identical graphs.
//   - Safety: never panic at runtime; return sentinel errors from constructors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

// Constructor applies a deterministic graph mutation using the resolved
// builderConfig. Constructors validate parameters before touching g and
// return sentinel errors wrapped with their method name.
type Constructor func(g *graph.Graph, cfg builderConfig) error

// BuildGraph creates a graph over nStates states, resolves the builder
// configuration from bopts, and applies all constructors in order.
// Any error is wrapped as "BuildGraph: %w" and returned immediately.
//
// Complexity: O(len(bopts)) + Σ cost of each constructor.
func BuildGraph(nStates int, bopts []BuilderOption, cons ...Constructor) (*graph.Graph, error) {
	g, err := graph.NewGraph(nStates)
	if err != nil {
		return nil, fmt.Errorf("BuildGraph: %w", err)
	}
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildGraph: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return nil, fmt.Errorf("BuildGraph: %w", err)
		}
	}

	return g, nil
}

// Apply runs constructors against an existing graph, for callers that own g.
func Apply(g *graph.Graph, bopts []BuilderOption, cons ...Constructor) error {
	if g == nil {
		return fmt.Errorf("Apply: nil graph: %w", ErrConstructFailed)
	}
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return fmt.Errorf("Apply: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return fmt.Errorf("Apply: %w", err)
		}
	}

	return nil
}
