package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/dgm/matrix"
)

// Graph is the sparse (adjacency-list) pairwise graph.
//
// Nodes and edges are stored by pointer in two slices owned by the graph.
// Node ids are dense and equal insertion order; edge handles are indexes into
// the edge slice and are NOT stable across RemoveEdge (the last edge is moved
// into the freed slot).
//
// Graph is not safe for concurrent mutation: one writer at a time.
type Graph struct {
	nStates int
	nodes   []*Node
	edges   []*Edge
}

var _ Pairwise = (*Graph)(nil)

// NewGraph creates an empty graph over nStates states.
// Returns ErrStatesOutOfRange when nStates is outside [MinStates, MaxStates].
func NewGraph(nStates int) (*Graph, error) {
	if nStates < MinStates || nStates > MaxStates {
		return nil, fmt.Errorf("NewGraph(%d): %w", nStates, ErrStatesOutOfRange)
	}

	return &Graph{nStates: nStates}, nil
}

// NumStates returns the number of states shared by every node.
func (g *Graph) NumStates() int { return g.nStates }

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of directed edges (an arc counts twice).
func (g *Graph) NumEdges() int { return len(g.edges) }

// Reset removes all nodes and edges and restarts id assignment at 0.
func (g *Graph) Reset() {
	g.nodes = nil
	g.edges = nil
}

// AddNode appends a node and returns its id. A nil pot means all ones.
// Complexity: O(nStates).
func (g *Graph) AddNode(pot []float64) (int, error) {
	p, err := g.nodePotential(pot)
	if err != nil {
		return 0, fmt.Errorf("AddNode: %w", err)
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, &Node{ID: id, Pot: p})

	return id, nil
}

// AddNodes appends n nodes with all-ones potentials.
func (g *Graph) AddNodes(n int) {
	for i := 0; i < n; i++ {
		g.nodes = append(g.nodes, &Node{ID: len(g.nodes), Pot: ones(g.nStates)})
	}
}

// SetNode overwrites the potential of node id with a copy of pot.
// Complexity: O(nStates).
func (g *Graph) SetNode(id int, pot []float64) error {
	if err := g.checkNode(id); err != nil {
		return fmt.Errorf("SetNode: %w", err)
	}
	if err := CheckNodePotential(pot, g.nStates); err != nil {
		return fmt.Errorf("SetNode(%d): %w", id, err)
	}
	copy(g.nodes[id].Pot, pot)

	return nil
}

// Node returns a copy of the potential of node id.
func (g *Graph) Node(id int) ([]float64, error) {
	if err := g.checkNode(id); err != nil {
		return nil, fmt.Errorf("Node: %w", err)
	}
	out := make([]float64, g.nStates)
	copy(out, g.nodes[id].Pot)

	return out, nil
}

// AddEdge adds the directed edge src→dst. A nil pot means all ones.
// Returns ErrDuplicateEdge if src→dst already exists and ErrSelfLoop if src==dst.
// Complexity: O(min(out(src), in(dst))) for the duplicate check.
func (g *Graph) AddEdge(src, dst int, pot *matrix.Dense) error {
	return g.addEdge(src, dst, 0, pot)
}

func (g *Graph) addEdge(src, dst, group int, pot *matrix.Dense) error {
	if err := g.checkPair(src, dst); err != nil {
		return fmt.Errorf("AddEdge: %w", err)
	}
	if src == dst {
		return fmt.Errorf("AddEdge(%d,%d): %w", src, dst, ErrSelfLoop)
	}
	if g.find(src, dst) >= 0 {
		return fmt.Errorf("AddEdge(%d,%d): %w", src, dst, ErrDuplicateEdge)
	}
	p, err := g.edgePotential(pot)
	if err != nil {
		return fmt.Errorf("AddEdge(%d,%d): %w", src, dst, err)
	}
	e := len(g.edges)
	g.edges = append(g.edges, &Edge{Src: src, Dst: dst, Pot: p, Group: group})
	g.nodes[src].To = append(g.nodes[src].To, e)
	g.nodes[dst].From = append(g.nodes[dst].From, e)

	return nil
}

// SetEdge overwrites the potential of src→dst with a copy of pot.
func (g *Graph) SetEdge(src, dst int, pot *matrix.Dense) error {
	e, err := g.lookup(src, dst)
	if err != nil {
		return fmt.Errorf("SetEdge: %w", err)
	}
	if err = CheckEdgePotential(pot, g.nStates); err != nil {
		return fmt.Errorf("SetEdge(%d,%d): %w", src, dst, err)
	}
	g.edges[e].Pot = pot.Clone()

	return nil
}

// SetEdges copies pot into every edge of the given group (AllGroups = every edge).
// Complexity: O(E·nStates²).
func (g *Graph) SetEdges(group int, pot *matrix.Dense) error {
	if err := CheckEdgePotential(pot, g.nStates); err != nil {
		return fmt.Errorf("SetEdges: %w", err)
	}
	for _, e := range g.edges {
		if group == AllGroups || e.Group == group {
			e.Pot = pot.Clone()
		}
	}

	return nil
}

// Edge returns a copy of the potential of src→dst.
func (g *Graph) Edge(src, dst int) (*matrix.Dense, error) {
	e, err := g.lookup(src, dst)
	if err != nil {
		return nil, fmt.Errorf("Edge: %w", err)
	}

	return g.edges[e].Pot.Clone(), nil
}

// SetEdgeGroup assigns src→dst to group.
func (g *Graph) SetEdgeGroup(src, dst, group int) error {
	e, err := g.lookup(src, dst)
	if err != nil {
		return fmt.Errorf("SetEdgeGroup: %w", err)
	}
	g.edges[e].Group = group

	return nil
}

// EdgeGroup returns the group of src→dst.
func (g *Graph) EdgeGroup(src, dst int) (int, error) {
	e, err := g.lookup(src, dst)
	if err != nil {
		return 0, fmt.Errorf("EdgeGroup: %w", err)
	}

	return g.edges[e].Group, nil
}

// HasEdge reports whether src→dst exists. Out-of-range ids report false.
func (g *Graph) HasEdge(src, dst int) bool {
	if g.checkPair(src, dst) != nil {
		return false
	}

	return g.find(src, dst) >= 0
}

// RemoveEdge deletes src→dst. The last edge takes over the freed handle.
// Complexity: O(deg(src) + deg(dst) + deg of the moved edge's endpoints).
func (g *Graph) RemoveEdge(src, dst int) error {
	e, err := g.lookup(src, dst)
	if err != nil {
		return fmt.Errorf("RemoveEdge: %w", err)
	}
	g.nodes[src].To = removeHandle(g.nodes[src].To, e)
	g.nodes[dst].From = removeHandle(g.nodes[dst].From, e)

	last := len(g.edges) - 1
	if e != last {
		moved := g.edges[last]
		g.edges[e] = moved
		replaceHandle(g.nodes[moved.Src].To, last, e)
		replaceHandle(g.nodes[moved.Dst].From, last, e)
	}
	g.edges[last] = nil
	g.edges = g.edges[:last]

	return nil
}

// ChildNodes returns the destinations of edges leaving id, in insertion order.
func (g *Graph) ChildNodes(id int) ([]int, error) {
	if err := g.checkNode(id); err != nil {
		return nil, fmt.Errorf("ChildNodes: %w", err)
	}
	out := make([]int, 0, len(g.nodes[id].To))
	for _, e := range g.nodes[id].To {
		out = append(out, g.edges[e].Dst)
	}

	return out, nil
}

// ParentNodes returns the sources of edges entering id, in insertion order.
func (g *Graph) ParentNodes(id int) ([]int, error) {
	if err := g.checkNode(id); err != nil {
		return nil, fmt.Errorf("ParentNodes: %w", err)
	}
	out := make([]int, 0, len(g.nodes[id].From))
	for _, e := range g.nodes[id].From {
		out = append(out, g.edges[e].Src)
	}

	return out, nil
}

// NodePotential implements Pairwise.
func (g *Graph) NodePotential(id int) []float64 { return g.nodes[id].Pot }

// EdgeEnds implements Pairwise.
func (g *Graph) EdgeEnds(e int) (src, dst int) { return g.edges[e].Src, g.edges[e].Dst }

// EdgePotential implements Pairwise.
func (g *Graph) EdgePotential(e int) []float64 { return g.edges[e].Pot.Raw() }

// OutEdges implements Pairwise.
func (g *Graph) OutEdges(id int) []int { return g.nodes[id].To }

// InEdges implements Pairwise.
func (g *Graph) InEdges(id int) []int { return g.nodes[id].From }

// ---------- helpers ----------

// find returns the handle of src→dst or -1, scanning the shorter adjacency list.
func (g *Graph) find(src, dst int) int {
	to, from := g.nodes[src].To, g.nodes[dst].From
	if len(to) <= len(from) {
		for _, e := range to {
			if g.edges[e].Dst == dst {
				return e
			}
		}
		return -1
	}
	for _, e := range from {
		if g.edges[e].Src == src {
			return e
		}
	}

	return -1
}

func (g *Graph) lookup(src, dst int) (int, error) {
	if err := g.checkPair(src, dst); err != nil {
		return 0, err
	}
	e := g.find(src, dst)
	if e < 0 {
		return 0, fmt.Errorf("(%d)->(%d): %w", src, dst, ErrEdgeNotFound)
	}

	return e, nil
}

func (g *Graph) checkNode(id int) error {
	if id < 0 || id >= len(g.nodes) {
		return fmt.Errorf("node %d of %d: %w", id, len(g.nodes), ErrNodeOutOfRange)
	}

	return nil
}

func (g *Graph) checkPair(src, dst int) error {
	if err := g.checkNode(src); err != nil {
		return err
	}

	return g.checkNode(dst)
}

func (g *Graph) nodePotential(pot []float64) ([]float64, error) {
	if pot == nil {
		return ones(g.nStates), nil
	}
	if err := CheckNodePotential(pot, g.nStates); err != nil {
		return nil, err
	}
	p := make([]float64, g.nStates)
	copy(p, pot)

	return p, nil
}

func ones(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 1
	}

	return p
}

func (g *Graph) edgePotential(pot *matrix.Dense) (*matrix.Dense, error) {
	if pot == nil {
		return matrix.NewFilled(g.nStates, g.nStates, 1)
	}
	if err := CheckEdgePotential(pot, g.nStates); err != nil {
		return nil, err
	}

	return pot.Clone(), nil
}

// CheckNodePotential verifies that pot has length n and only finite, non-negative entries.
func CheckNodePotential(pot []float64, n int) error {
	if len(pot) != n {
		return fmt.Errorf("len=%d, want %d: %w", len(pot), n, ErrDimensionMismatch)
	}
	for s, v := range pot {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("state %d=%g: %w", s, v, ErrInvalidPotential)
		}
	}

	return nil
}

// CheckEdgePotential verifies that pot is n×n with finite, non-negative entries,
// mapping matrix validation failures onto graph sentinels.
func CheckEdgePotential(pot *matrix.Dense, n int) error {
	err := matrix.CheckPotential(pot, n)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, matrix.ErrNaNInf), errors.Is(err, matrix.ErrNegative):
		return fmt.Errorf("%v: %w", err, ErrInvalidPotential)
	default:
		return fmt.Errorf("%v: %w", err, ErrDimensionMismatch)
	}
}

func removeHandle(hs []int, h int) []int {
	for i, x := range hs {
		if x == h {
			return append(hs[:i], hs[i+1:]...)
		}
	}

	return hs
}

func replaceHandle(hs []int, from, to int) {
	for i, x := range hs {
		if x == from {
			hs[i] = to
			return
		}
	}
}
