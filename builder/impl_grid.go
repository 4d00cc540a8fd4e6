// SPDX-License-Identifier: MIT
// Package: dgm/builder
//
// impl_grid.go - implementation of Grid(rows, cols) constructor.
//
// Canonical model:
//   - 2D orthogonal grid with 4-neighbourhood, node b + r·cols + c (row-major).
//
// Contract:
//   - rows ≥ 1 and cols ≥ 1 (else ErrTooFewVertices).
//   - For each (r,c) in row-major order emits Right then Bottom if present.
//
// The sparse grid is the general-purpose counterpart of gridgraph.Lattice:
// arcs can be removed or re-weighted individually.

package builder

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

const (
	methodGrid = "Grid"
	minGridDim = 1
)

// Grid returns a Constructor that builds a rows×cols 4-connected grid.
// Complexity: O(rows·cols·k²).
func Grid(rows, cols int) Constructor {
	return func(g *graph.Graph, cfg builderConfig) error {
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: rows=%d, cols=%d < min=%d: %w", methodGrid, rows, cols, minGridDim, ErrTooFewVertices)
		}
		base, err := addNodes(methodGrid, g, cfg, rows*cols)
		if err != nil {
			return err
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				id := base + r*cols + c
				if c+1 < cols {
					if err = addArc(methodGrid, g, cfg, id, id+1); err != nil {
						return err
					}
				}
				if r+1 < rows {
					if err = addArc(methodGrid, g, cfg, id, id+cols); err != nil {
						return err
					}
				}
			}
		}

		return nil
	}
}
