// SPDX-License-Identifier: MIT
// Package: dgm/builder
//
// impl_random_tree.go - implementation of RandomTree(n) constructor.
//
// Contract:
//   - n ≥ 1 (else ErrTooFewVertices).
//   - cfg.rng is required when n > 2 (else ErrNeedRandSource).
//   - Node b+i (i ≥ 1) is joined to a uniformly drawn earlier node, so the
//     result is a spanning tree on the appended nodes.

package builder

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

const (
	methodRandomTree   = "RandomTree"
	minRandomTreeNodes = 1
)

// RandomTree returns a Constructor that builds a random recursive tree.
// Complexity: O(n·k²).
func RandomTree(n int) Constructor {
	return func(g *graph.Graph, cfg builderConfig) error {
		if n < minRandomTreeNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodRandomTree, n, minRandomTreeNodes, ErrTooFewVertices)
		}
		if cfg.rng == nil && n > 2 {
			return fmt.Errorf("%s: rng is required: %w", methodRandomTree, ErrNeedRandSource)
		}
		base, err := addNodes(methodRandomTree, g, cfg, n)
		if err != nil {
			return err
		}
		for i := 1; i < n; i++ {
			parent := 0
			if i > 1 {
				parent = cfg.rng.Intn(i)
			}
			if err = addArc(methodRandomTree, g, cfg, base+parent, base+i); err != nil {
				return err
			}
		}

		return nil
	}
}
