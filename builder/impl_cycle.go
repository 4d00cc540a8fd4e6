// SPDX-License-Identifier: MIT
// Package: dgm/builder
//
// impl_cycle.go - implementation of Cycle(n) constructor.
//
// Contract:
//   - n ≥ 3 (else ErrTooFewVertices).
//   - Emits the path arcs in increasing order, then the closing arc (b+n-1)-b.

package builder

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

const (
	methodCycle   = "Cycle"
	minCycleNodes = 3
)

// Cycle returns a Constructor that builds a simple cycle C_n, the smallest
// loopy topology.
// Complexity: O(n·k²).
func Cycle(n int) Constructor {
	return func(g *graph.Graph, cfg builderConfig) error {
		if n < minCycleNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, n, minCycleNodes, ErrTooFewVertices)
		}
		base, err := addNodes(methodCycle, g, cfg, n)
		if err != nil {
			return err
		}
		for i := 1; i < n; i++ {
			if err = addArc(methodCycle, g, cfg, base+i-1, base+i); err != nil {
				return err
			}
		}

		return addArc(methodCycle, g, cfg, base+n-1, base)
	}
}
