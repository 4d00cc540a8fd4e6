// Package gridgraph provides a dense pairwise lattice for image-like CRFs.
// It supports:
//
//   - Four- or eight-connectivity (Conn4 or Conn8)
//   - Flat node/edge potential storage implementing graph.Pairwise
//   - Construction from an observed label image (FromLabels)
//   - Connected regions of equally-labelled cells after decoding
package gridgraph

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/matrix"
)

var _ graph.Pairwise = (*Lattice)(nil)

// NewLattice constructs a width×height lattice over nStates states with all
// potentials set to one.
// Returns ErrEmptyGrid if width or height is < 1 and graph.ErrStatesOutOfRange
// if nStates is outside [graph.MinStates, graph.MaxStates].
// Algorithmic complexity: O(W×H×d×nStates²) time and memory (d = 4 or 8).
func NewLattice(width, height, nStates int, opts LatticeOptions) (*Lattice, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("NewLattice(%d,%d): %w", width, height, ErrEmptyGrid)
	}
	if nStates < graph.MinStates || nStates > graph.MaxStates {
		return nil, fmt.Errorf("NewLattice(nStates=%d): %w", nStates, graph.ErrStatesOutOfRange)
	}
	// Only the forward half of the neighbourhood is enumerated; the reverse
	// direction of every arc is created alongside.
	offsets := [][2]int{{1, 0}, {0, 1}}
	if opts.Conn == Conn8 {
		offsets = append(offsets, [2]int{1, 1}, [2]int{-1, 1})
	}
	l := &Lattice{
		Width:          width,
		Height:         height,
		Conn:           opts.Conn,
		nStates:        nStates,
		forwardOffsets: offsets,
	}
	l.buildEdges()
	l.nodePot = make([]float64, width*height*nStates)
	l.edgePot = make([]float64, len(l.src)*nStates*nStates)
	l.Reset()

	return l, nil
}

// buildEdges enumerates arcs in row-major cell order and lays the adjacency
// out in CSR form: one shared buffer per direction, sliced per node.
func (l *Lattice) buildEdges() {
	n := l.Width * l.Height
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			u := l.Index(x, y)
			for _, d := range l.forwardOffsets {
				nx, ny := x+d[0], y+d[1]
				if !l.InBounds(nx, ny) {
					continue
				}
				v := l.Index(nx, ny)
				grp := offsetGroup(d)
				l.src = append(l.src, u, v)
				l.dst = append(l.dst, v, u)
				l.group = append(l.group, grp, grp)
			}
		}
	}

	outDeg := make([]int, n+1)
	inDeg := make([]int, n+1)
	for e := range l.src {
		outDeg[l.src[e]+1]++
		inDeg[l.dst[e]+1]++
	}
	for i := 0; i < n; i++ {
		outDeg[i+1] += outDeg[i]
		inDeg[i+1] += inDeg[i]
	}
	outBuf := make([]int, len(l.src))
	inBuf := make([]int, len(l.src))
	outFill := make([]int, n)
	inFill := make([]int, n)
	for e := range l.src {
		s, t := l.src[e], l.dst[e]
		outBuf[outDeg[s]+outFill[s]] = e
		outFill[s]++
		inBuf[inDeg[t]+inFill[t]] = e
		inFill[t]++
	}
	l.out = make([][]int, n)
	l.in = make([][]int, n)
	for i := 0; i < n; i++ {
		l.out[i] = outBuf[outDeg[i]:outDeg[i+1]:outDeg[i+1]]
		l.in[i] = inBuf[inDeg[i]:inDeg[i+1]:inDeg[i+1]]
	}
}

func offsetGroup(d [2]int) int {
	switch {
	case d[1] == 0:
		return GroupHorizontal
	case d[0] == 0:
		return GroupVertical
	default:
		return GroupDiagonal
	}
}

// InBounds reports whether (x,y) lies within the lattice boundaries.
// Complexity: O(1).
func (l *Lattice) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// Index maps (x,y) to the row-major node id y*Width + x.
// Complexity: O(1).
func (l *Lattice) Index(x, y int) int {
	return y*l.Width + x
}

// Coordinate converts a row-major node id back to (x,y).
// Complexity: O(1).
func (l *Lattice) Coordinate(idx int) (x, y int) {
	return idx % l.Width, idx / l.Width
}

// NumStates returns the number of states shared by every node.
func (l *Lattice) NumStates() int { return l.nStates }

// NumNodes returns Width·Height.
func (l *Lattice) NumNodes() int { return l.Width * l.Height }

// NumEdges returns the number of directed edges (twice the number of arcs).
func (l *Lattice) NumEdges() int { return len(l.src) }

// Reset restores every node and edge potential to one. The shape is kept.
func (l *Lattice) Reset() {
	for i := range l.nodePot {
		l.nodePot[i] = 1
	}
	for i := range l.edgePot {
		l.edgePot[i] = 1
	}
}

// AddNode always fails: the lattice shape is fixed.
func (l *Lattice) AddNode([]float64) (int, error) {
	return 0, fmt.Errorf("AddNode: %w", graph.ErrFixedTopology)
}

// AddEdge always fails: the lattice shape is fixed.
func (l *Lattice) AddEdge(src, dst int, _ *matrix.Dense) error {
	return fmt.Errorf("AddEdge(%d,%d): %w", src, dst, graph.ErrFixedTopology)
}

// AddArc always fails: the lattice shape is fixed.
func (l *Lattice) AddArc(n1, n2 int, _ *matrix.Dense) error {
	return fmt.Errorf("AddArc(%d,%d): %w", n1, n2, graph.ErrFixedTopology)
}

// RemoveEdge always fails: the lattice shape is fixed.
func (l *Lattice) RemoveEdge(src, dst int) error {
	return fmt.Errorf("RemoveEdge(%d,%d): %w", src, dst, graph.ErrFixedTopology)
}

// SetNode overwrites the potential of node id with a copy of pot.
func (l *Lattice) SetNode(id int, pot []float64) error {
	if err := l.checkNode(id); err != nil {
		return fmt.Errorf("SetNode: %w", err)
	}
	if err := graph.CheckNodePotential(pot, l.nStates); err != nil {
		return fmt.Errorf("SetNode(%d): %w", id, err)
	}
	copy(l.NodePotential(id), pot)

	return nil
}

// Node returns a copy of the potential of node id.
func (l *Lattice) Node(id int) ([]float64, error) {
	if err := l.checkNode(id); err != nil {
		return nil, fmt.Errorf("Node: %w", err)
	}
	out := make([]float64, l.nStates)
	copy(out, l.NodePotential(id))

	return out, nil
}

// SetEdge overwrites the potential of src→dst with a copy of pot.
func (l *Lattice) SetEdge(src, dst int, pot *matrix.Dense) error {
	e, err := l.lookup(src, dst)
	if err != nil {
		return fmt.Errorf("SetEdge: %w", err)
	}
	if err = graph.CheckEdgePotential(pot, l.nStates); err != nil {
		return fmt.Errorf("SetEdge(%d,%d): %w", src, dst, err)
	}
	copy(l.EdgePotential(e), pot.Raw())

	return nil
}

// SetArc overwrites both directions of n1-n2 with sqrt(pot) and sqrt(pot)ᵀ.
func (l *Lattice) SetArc(n1, n2 int, pot *matrix.Dense) error {
	if err := graph.CheckEdgePotential(pot, l.nStates); err != nil {
		return fmt.Errorf("SetArc(%d,%d): %w", n1, n2, err)
	}
	e1, err := l.lookup(n1, n2)
	if err != nil {
		return fmt.Errorf("SetArc: %w", err)
	}
	e2, err := l.lookup(n2, n1)
	if err != nil {
		return fmt.Errorf("SetArc: %w", err)
	}
	fwd, err := matrix.Sqrt(pot)
	if err != nil {
		return fmt.Errorf("SetArc(%d,%d): %w", n1, n2, err)
	}
	bwd, err := matrix.Transpose(fwd)
	if err != nil {
		return fmt.Errorf("SetArc(%d,%d): %w", n1, n2, err)
	}
	copy(l.EdgePotential(e1), fwd.Raw())
	copy(l.EdgePotential(e2), bwd.Raw())

	return nil
}

// SetEdges copies pot into every directed edge of group (graph.AllGroups = all).
// Lattice arcs are symmetric in storage, so a symmetric pot keeps every arc
// consistent; pass sqrt of the intended arc potential when emulating arcs.
// Complexity: O(E·nStates²).
func (l *Lattice) SetEdges(group int, pot *matrix.Dense) error {
	if err := graph.CheckEdgePotential(pot, l.nStates); err != nil {
		return fmt.Errorf("SetEdges: %w", err)
	}
	for e, g := range l.group {
		if group == graph.AllGroups || g == group {
			copy(l.EdgePotential(e), pot.Raw())
		}
	}

	return nil
}

// SetArcs sets every arc of group to pot using the sqrt / transpose split,
// so that message passing sees exactly pot once per arc.
func (l *Lattice) SetArcs(group int, pot *matrix.Dense) error {
	if err := graph.CheckEdgePotential(pot, l.nStates); err != nil {
		return fmt.Errorf("SetArcs: %w", err)
	}
	fwd, err := matrix.Sqrt(pot)
	if err != nil {
		return fmt.Errorf("SetArcs: %w", err)
	}
	bwd, err := matrix.Transpose(fwd)
	if err != nil {
		return fmt.Errorf("SetArcs: %w", err)
	}
	// Edges come in (forward, backward) pairs by construction.
	for e := 0; e < len(l.src); e += 2 {
		if group == graph.AllGroups || l.group[e] == group {
			copy(l.EdgePotential(e), fwd.Raw())
			copy(l.EdgePotential(e+1), bwd.Raw())
		}
	}

	return nil
}

// Edge returns a copy of the potential of src→dst.
func (l *Lattice) Edge(src, dst int) (*matrix.Dense, error) {
	e, err := l.lookup(src, dst)
	if err != nil {
		return nil, fmt.Errorf("Edge: %w", err)
	}
	data := make([]float64, l.nStates*l.nStates)
	copy(data, l.EdgePotential(e))

	return matrix.NewDenseFrom(l.nStates, l.nStates, data)
}

// EdgeGroup returns the group of src→dst (GroupHorizontal, GroupVertical or GroupDiagonal).
func (l *Lattice) EdgeGroup(src, dst int) (int, error) {
	e, err := l.lookup(src, dst)
	if err != nil {
		return 0, fmt.Errorf("EdgeGroup: %w", err)
	}

	return l.group[e], nil
}

// HasEdge reports whether src→dst exists. Out-of-range ids report false.
func (l *Lattice) HasEdge(src, dst int) bool {
	_, err := l.lookup(src, dst)

	return err == nil
}

// ChildNodes returns the neighbours reached by edges leaving id.
func (l *Lattice) ChildNodes(id int) ([]int, error) {
	if err := l.checkNode(id); err != nil {
		return nil, fmt.Errorf("ChildNodes: %w", err)
	}
	out := make([]int, 0, len(l.out[id]))
	for _, e := range l.out[id] {
		out = append(out, l.dst[e])
	}

	return out, nil
}

// ParentNodes returns the neighbours whose edges enter id.
func (l *Lattice) ParentNodes(id int) ([]int, error) {
	if err := l.checkNode(id); err != nil {
		return nil, fmt.Errorf("ParentNodes: %w", err)
	}
	out := make([]int, 0, len(l.in[id]))
	for _, e := range l.in[id] {
		out = append(out, l.src[e])
	}

	return out, nil
}

// NodePotential implements graph.Pairwise.
func (l *Lattice) NodePotential(id int) []float64 {
	k := l.nStates
	return l.nodePot[id*k : (id+1)*k : (id+1)*k]
}

// EdgeEnds implements graph.Pairwise.
func (l *Lattice) EdgeEnds(e int) (src, dst int) { return l.src[e], l.dst[e] }

// EdgePotential implements graph.Pairwise.
func (l *Lattice) EdgePotential(e int) []float64 {
	kk := l.nStates * l.nStates
	return l.edgePot[e*kk : (e+1)*kk : (e+1)*kk]
}

// OutEdges implements graph.Pairwise.
func (l *Lattice) OutEdges(id int) []int { return l.out[id] }

// InEdges implements graph.Pairwise.
func (l *Lattice) InEdges(id int) []int { return l.in[id] }

func (l *Lattice) checkNode(id int) error {
	if id < 0 || id >= l.NumNodes() {
		return fmt.Errorf("node %d of %d: %w", id, l.NumNodes(), graph.ErrNodeOutOfRange)
	}

	return nil
}

// lookup finds src→dst by scanning the (at most 8) outgoing edges of src.
func (l *Lattice) lookup(src, dst int) (int, error) {
	if err := l.checkNode(src); err != nil {
		return 0, err
	}
	if err := l.checkNode(dst); err != nil {
		return 0, err
	}
	for _, e := range l.out[src] {
		if l.dst[e] == dst {
			return e, nil
		}
	}

	return 0, fmt.Errorf("(%d)->(%d): %w", src, dst, graph.ErrEdgeNotFound)
}
