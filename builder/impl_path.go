// SPDX-License-Identifier: MIT
// Package: dgm/builder
//
// impl_path.go - implementation of Path(n) constructor.
//
// Contract:
//   - n ≥ 2 (else ErrTooFewVertices).
//   - Appends n nodes b..b+n-1 where b is the current node count.
//   - Emits arcs (b+i-1)-(b+i) for i=1..n-1 in increasing order.
//
// A Path built on an empty graph satisfies graph.CheckChain.

package builder

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

const (
	methodPath   = "Path"
	minPathNodes = 2
)

// Path returns a Constructor that builds a simple path P_n.
// Complexity: O(n·k²).
func Path(n int) Constructor {
	return func(g *graph.Graph, cfg builderConfig) error {
		if n < minPathNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodPath, n, minPathNodes, ErrTooFewVertices)
		}
		base, err := addNodes(methodPath, g, cfg, n)
		if err != nil {
			return err
		}
		for i := 1; i < n; i++ {
			if err = addArc(methodPath, g, cfg, base+i-1, base+i); err != nil {
				return err
			}
		}

		return nil
	}
}
