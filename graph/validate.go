package graph

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate scans every node and edge potential of g and reports all
// violations at once (combined with multierr). It returns nil when every
// potential has the right dimension and only finite, non-negative entries.
//
// Stores validate on write, so Validate matters mostly after callers wrote
// through the live views returned by NodePotential/EdgePotential.
// Complexity: O(V·nStates + E·nStates²).
func Validate(g Pairwise) error {
	var err error
	k := g.NumStates()
	for id := 0; id < g.NumNodes(); id++ {
		if e := CheckNodePotential(g.NodePotential(id), k); e != nil {
			err = multierr.Append(err, fmt.Errorf("node %d: %w", id, e))
		}
	}
	for e := 0; e < g.NumEdges(); e++ {
		pot := g.EdgePotential(e)
		if len(pot) != k*k {
			src, dst := g.EdgeEnds(e)
			err = multierr.Append(err, fmt.Errorf("edge %d->%d: len=%d, want %d: %w", src, dst, len(pot), k*k, ErrDimensionMismatch))
			continue
		}
		if e2 := CheckNodePotential(pot, k*k); e2 != nil {
			src, dst := g.EdgeEnds(e)
			err = multierr.Append(err, fmt.Errorf("edge %d->%d: %w", src, dst, e2))
		}
	}

	return err
}
