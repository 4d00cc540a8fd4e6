// helpers.go - node and arc emission shared by every constructor.

package builder

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

// addNodes appends n nodes with generated potentials and returns the id of
// the first one.
// Complexity: O(n·k).
func addNodes(method string, g *graph.Graph, cfg builderConfig, n int) (int, error) {
	base := g.NumNodes()
	k := g.NumStates()
	for i := 0; i < n; i++ {
		if _, err := g.AddNode(cfg.nodeFn(cfg.rng, k)); err != nil {
			return 0, fmt.Errorf("%s: AddNode(%d): %w: %w", method, base+i, ErrConstructFailed, err)
		}
	}

	return base, nil
}

// addArc joins a and b with a generated potential.
func addArc(method string, g *graph.Graph, cfg builderConfig, a, b int) error {
	if err := g.AddArc(a, b, cfg.edgeFn(cfg.rng, g.NumStates())); err != nil {
		return fmt.Errorf("%s: AddArc(%d,%d): %w: %w", method, a, b, ErrConstructFailed, err)
	}

	return nil
}
