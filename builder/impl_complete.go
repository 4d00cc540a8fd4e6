// SPDX-License-Identifier: MIT
// Package: dgm/builder
//
// impl_complete.go - implementation of Complete(n) constructor.
//
// Contract:
//   - n ≥ 1 (else ErrTooFewVertices).
//   - Emits arcs i-j for i<j in lexicographic order.

package builder

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

const (
	methodComplete   = "Complete"
	minCompleteNodes = 1
)

// Complete returns a Constructor that builds the complete graph K_n, the
// densest loopy topology.
// Complexity: O(n²·k²).
func Complete(n int) Constructor {
	return func(g *graph.Graph, cfg builderConfig) error {
		if n < minCompleteNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodComplete, n, minCompleteNodes, ErrTooFewVertices)
		}
		base, err := addNodes(methodComplete, g, cfg, n)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if err = addArc(methodComplete, g, cfg, base+i, base+j); err != nil {
					return err
				}
			}
		}

		return nil
	}
}
