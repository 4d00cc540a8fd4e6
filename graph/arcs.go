package graph

import (
	"fmt"

	"github.com/katalvlaran/dgm/matrix"
)

// An arc is an undirected edge emulated by two directed edges. To keep the
// product of both directions equal to pot, each direction stores sqrt(pot):
//
//	n1→n2 : sqrt(pot)
//	n2→n1 : sqrt(pot)ᵀ

// splitArc returns the (forward, backward) halves of an arc potential.
func splitArc(pot *matrix.Dense) (fwd, bwd *matrix.Dense, err error) {
	if fwd, err = matrix.Sqrt(pot); err != nil {
		return nil, nil, err
	}
	if bwd, err = matrix.Transpose(fwd); err != nil {
		return nil, nil, err
	}

	return fwd, bwd, nil
}

// AddArc adds the undirected edge n1-n2. A nil pot means all ones.
// Either both directions are added or neither.
func (g *Graph) AddArc(n1, n2 int, pot *matrix.Dense) error {
	var fwd, bwd *matrix.Dense
	if pot != nil {
		if err := CheckEdgePotential(pot, g.nStates); err != nil {
			return fmt.Errorf("AddArc(%d,%d): %w", n1, n2, err)
		}
		var err error
		if fwd, bwd, err = splitArc(pot); err != nil {
			return fmt.Errorf("AddArc(%d,%d): %w", n1, n2, err)
		}
	}
	if err := g.checkPair(n1, n2); err != nil {
		return fmt.Errorf("AddArc: %w", err)
	}
	if g.find(n1, n2) >= 0 || g.find(n2, n1) >= 0 {
		return fmt.Errorf("AddArc(%d,%d): %w", n1, n2, ErrDuplicateEdge)
	}
	if err := g.addEdge(n1, n2, 0, fwd); err != nil {
		return err
	}

	return g.addEdge(n2, n1, 0, bwd)
}

// SetArc overwrites both directions of n1-n2 (see AddArc for the split).
func (g *Graph) SetArc(n1, n2 int, pot *matrix.Dense) error {
	if err := CheckEdgePotential(pot, g.nStates); err != nil {
		return fmt.Errorf("SetArc(%d,%d): %w", n1, n2, err)
	}
	fwd, bwd, err := splitArc(pot)
	if err != nil {
		return fmt.Errorf("SetArc(%d,%d): %w", n1, n2, err)
	}
	e1, err := g.lookup(n1, n2)
	if err != nil {
		return fmt.Errorf("SetArc: %w", err)
	}
	e2, err := g.lookup(n2, n1)
	if err != nil {
		return fmt.Errorf("SetArc: %w", err)
	}
	g.edges[e1].Pot = fwd
	g.edges[e2].Pot = bwd

	return nil
}

// SetArcGroup assigns both directions of n1-n2 to group.
func (g *Graph) SetArcGroup(n1, n2, group int) error {
	if err := g.SetEdgeGroup(n1, n2, group); err != nil {
		return err
	}

	return g.SetEdgeGroup(n2, n1, group)
}

// RemoveArc deletes both directions of n1-n2.
func (g *Graph) RemoveArc(n1, n2 int) error {
	if !g.HasArc(n1, n2) {
		return fmt.Errorf("RemoveArc(%d,%d): %w", n1, n2, ErrEdgeNotFound)
	}
	if err := g.RemoveEdge(n1, n2); err != nil {
		return err
	}

	return g.RemoveEdge(n2, n1)
}

// HasArc reports whether both n1→n2 and n2→n1 exist.
func (g *Graph) HasArc(n1, n2 int) bool {
	return g.HasEdge(n1, n2) && g.HasEdge(n2, n1)
}

// IsEdgeArc reports whether the reverse of src→dst exists, without checking
// that src→dst itself exists.
func (g *Graph) IsEdgeArc(src, dst int) bool {
	return g.HasEdge(dst, src)
}
