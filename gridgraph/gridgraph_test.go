package gridgraph_test

import (
	"testing"

	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/gridgraph"
	"github.com/katalvlaran/dgm/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//----------------------------------------------------------------------------//
// NewLattice and shape
//----------------------------------------------------------------------------//

// TestNewLattice_Errors verifies that NewLattice rejects empty shapes and bad state counts.
func TestNewLattice_Errors(t *testing.T) {
	cases := []struct {
		name          string
		w, h, nStates int
		err           error
	}{
		{"ZeroWidth", 0, 3, 2, gridgraph.ErrEmptyGrid},
		{"ZeroHeight", 3, 0, 2, gridgraph.ErrEmptyGrid},
		{"OneState", 3, 3, 1, graph.ErrStatesOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gridgraph.NewLattice(tc.w, tc.h, tc.nStates, gridgraph.DefaultLatticeOptions())
			assert.ErrorIs(t, err, tc.err)
			assert.ErrorIs(t, err, graph.ErrConfiguration)
		})
	}
}

// TestLattice_EdgeCounts checks the number of directed edges for both connectivities.
func TestLattice_EdgeCounts(t *testing.T) {
	const w, h = 4, 3
	l4, err := gridgraph.NewLattice(w, h, 2, gridgraph.DefaultLatticeOptions())
	require.NoError(t, err)
	// arcs: horizontal (w-1)*h + vertical w*(h-1); two edges each
	assert.Equal(t, 2*((w-1)*h+w*(h-1)), l4.NumEdges())
	assert.Equal(t, w*h, l4.NumNodes())

	opts := gridgraph.DefaultLatticeOptions()
	opts.Conn = gridgraph.Conn8
	l8, err := gridgraph.NewLattice(w, h, 2, opts)
	require.NoError(t, err)
	assert.Equal(t, l4.NumEdges()+2*2*(w-1)*(h-1), l8.NumEdges())
}

// TestLattice_Adjacency checks neighbours, groups and CSR consistency.
func TestLattice_Adjacency(t *testing.T) {
	opts := gridgraph.DefaultLatticeOptions()
	opts.Conn = gridgraph.Conn8
	l, err := gridgraph.NewLattice(3, 3, 2, opts)
	require.NoError(t, err)

	centre := l.Index(1, 1)
	children, err := l.ChildNodes(centre)
	require.NoError(t, err)
	assert.Len(t, children, 8)
	parents, err := l.ParentNodes(centre)
	require.NoError(t, err)
	assert.ElementsMatch(t, children, parents)

	corner := l.Index(0, 0)
	children, _ = l.ChildNodes(corner)
	assert.ElementsMatch(t, []int{l.Index(1, 0), l.Index(0, 1), l.Index(1, 1)}, children)

	grp, err := l.EdgeGroup(l.Index(0, 0), l.Index(1, 0))
	require.NoError(t, err)
	assert.Equal(t, gridgraph.GroupHorizontal, grp)
	grp, _ = l.EdgeGroup(l.Index(0, 1), l.Index(0, 0))
	assert.Equal(t, gridgraph.GroupVertical, grp)
	grp, _ = l.EdgeGroup(l.Index(2, 0), l.Index(1, 1))
	assert.Equal(t, gridgraph.GroupDiagonal, grp)

	assert.False(t, l.HasEdge(l.Index(0, 0), l.Index(2, 2)))
	_, err = l.Edge(l.Index(0, 0), l.Index(2, 0))
	assert.ErrorIs(t, err, graph.ErrEdgeNotFound)

	for e := 0; e < l.NumEdges(); e++ {
		src, dst := l.EdgeEnds(e)
		assert.Contains(t, l.OutEdges(src), e)
		assert.Contains(t, l.InEdges(dst), e)
		assert.True(t, l.HasEdge(dst, src), "every lattice edge has its reverse")
	}
	assert.True(t, graph.IsConnected(l))
}

// TestLattice_FixedTopology checks that structural mutations are rejected.
func TestLattice_FixedTopology(t *testing.T) {
	l, err := gridgraph.NewLattice(2, 2, 2, gridgraph.DefaultLatticeOptions())
	require.NoError(t, err)
	_, err = l.AddNode(nil)
	assert.ErrorIs(t, err, graph.ErrFixedTopology)
	assert.ErrorIs(t, l.AddEdge(0, 3, nil), graph.ErrFixedTopology)
	assert.ErrorIs(t, l.AddArc(0, 3, nil), graph.ErrFixedTopology)
	assert.ErrorIs(t, l.RemoveEdge(0, 1), graph.ErrFixedTopology)
}

// TestLattice_Potentials covers node/edge writes, arc splitting, group updates and Reset.
func TestLattice_Potentials(t *testing.T) {
	l, err := gridgraph.NewLattice(3, 2, 2, gridgraph.DefaultLatticeOptions())
	require.NoError(t, err)

	pot, err := l.Node(4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, pot)
	require.NoError(t, l.SetNode(4, []float64{0.3, 0.7}))
	assert.Equal(t, []float64{0.3, 0.7}, l.NodePotential(4))
	assert.ErrorIs(t, l.SetNode(4, []float64{1}), graph.ErrDimensionMismatch)
	assert.ErrorIs(t, l.SetNode(6, []float64{1, 1}), graph.ErrNodeOutOfRange)

	arc, _ := matrix.NewDenseFrom(2, 2, []float64{4, 1, 9, 16})
	require.NoError(t, l.SetArc(0, 1, arc))
	fwd, err := l.Edge(0, 1)
	require.NoError(t, err)
	bwd, err := l.Edge(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 3, 4}, fwd.Raw())
	assert.Equal(t, []float64{2, 3, 1, 4}, bwd.Raw())

	potts, _ := matrix.NewDenseFrom(2, 2, []float64{9, 1, 1, 9})
	require.NoError(t, l.SetArcs(gridgraph.GroupVertical, potts))
	vert, _ := l.Edge(l.Index(2, 0), l.Index(2, 1))
	assert.Equal(t, []float64{3, 1, 1, 3}, vert.Raw())
	horiz, _ := l.Edge(l.Index(1, 1), l.Index(2, 1))
	assert.Equal(t, []float64{1, 1, 1, 1}, horiz.Raw(), "other groups untouched")

	twos, _ := matrix.NewFilled(2, 2, 2)
	require.NoError(t, l.SetEdges(graph.AllGroups, twos))
	for e := 0; e < l.NumEdges(); e++ {
		assert.Equal(t, twos.Raw(), l.EdgePotential(e))
	}
	neg, _ := matrix.NewFilled(2, 2, -1)
	assert.ErrorIs(t, l.SetEdges(0, neg), graph.ErrInvalidPotential)

	l.Reset()
	assert.Equal(t, []float64{1, 1}, l.NodePotential(4))
	assert.Equal(t, []float64{1, 1, 1, 1}, l.EdgePotential(0))
	assert.Equal(t, 6, l.NumNodes(), "Reset keeps the shape")
	assert.NoError(t, graph.Validate(l))
}

//----------------------------------------------------------------------------//
// FromLabels, Labels and Regions
//----------------------------------------------------------------------------//

// TestFromLabels checks evidence encoding and input validation.
func TestFromLabels(t *testing.T) {
	values := [][]int{
		{0, 1, 2},
		{2, 2, 0},
	}
	opts := gridgraph.DefaultLatticeOptions()
	opts.Confidence = 0.6
	l, err := gridgraph.FromLabels(values, 3, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, l.Width)
	assert.Equal(t, 2, l.Height)
	assert.InDeltaSlice(t, []float64{0.2, 0.6, 0.2}, l.NodePotential(l.Index(1, 0)), 1e-12)
	assert.InDeltaSlice(t, []float64{0.6, 0.2, 0.2}, l.NodePotential(l.Index(2, 1)), 1e-12)

	_, err = gridgraph.FromLabels([][]int{{0, 1}, {1}}, 2, opts)
	assert.ErrorIs(t, err, gridgraph.ErrNonRectangular)
	_, err = gridgraph.FromLabels([][]int{{0, 3}}, 2, opts)
	assert.ErrorIs(t, err, gridgraph.ErrLabelOutOfRange)
	_, err = gridgraph.FromLabels(nil, 2, opts)
	assert.ErrorIs(t, err, gridgraph.ErrEmptyGrid)
	opts.Confidence = 1
	_, err = gridgraph.FromLabels(values, 3, opts)
	assert.ErrorIs(t, err, gridgraph.ErrBadConfidence)
}

// TestRegions groups equally-labelled neighbours under Conn4 and Conn8.
func TestRegions(t *testing.T) {
	labels := []int{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	l4, err := gridgraph.NewLattice(3, 3, 2, gridgraph.DefaultLatticeOptions())
	require.NoError(t, err)
	regions, err := l4.Regions(labels)
	require.NoError(t, err)
	// Conn4: the diagonal ones stay separate and the zeros split in two.
	require.Len(t, regions, 5)
	assert.Equal(t, []int{0}, regions[0])
	assert.ElementsMatch(t, []int{1, 2, 5}, regions[1])
	assert.ElementsMatch(t, []int{3, 6, 7}, regions[2])

	opts := gridgraph.DefaultLatticeOptions()
	opts.Conn = gridgraph.Conn8
	l8, err := gridgraph.NewLattice(3, 3, 2, opts)
	require.NoError(t, err)
	regions, err = l8.Regions(labels)
	require.NoError(t, err)
	assert.Len(t, regions, 2)
	assert.ElementsMatch(t, []int{0, 4, 8}, regions[0])

	_, err = l8.Regions(labels[:4])
	assert.ErrorIs(t, err, gridgraph.ErrLabelCount)

	grid, err := l8.Labels(labels)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, grid)
}
