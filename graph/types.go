// Package graph defines the Pairwise interface shared by every graph store,
// the sparse adjacency-list Graph, and topology helpers used by inference.
package graph

import "github.com/katalvlaran/dgm/matrix"

// State-count bounds. The upper bound keeps every state addressable by a byte.
const (
	MinStates = 2
	MaxStates = 255
)

// AllGroups selects every edge in SetEdges regardless of its group.
const AllGroups = -1

// Pairwise is the contract between graph stores and inference algorithms.
//
// The first block is the public CRUD surface used by potential producers and
// visualisers. The second block is the hot-path surface used by message
// passing: it returns live views without copying, so callers must not retain
// them across structural mutations (AddEdge, RemoveEdge, Reset).
type Pairwise interface {
	NumStates() int
	NumNodes() int
	NumEdges() int

	AddNode(pot []float64) (int, error)
	SetNode(id int, pot []float64) error
	Node(id int) ([]float64, error)

	AddEdge(src, dst int, pot *matrix.Dense) error
	AddArc(n1, n2 int, pot *matrix.Dense) error
	SetEdge(src, dst int, pot *matrix.Dense) error
	SetArc(n1, n2 int, pot *matrix.Dense) error
	SetEdges(group int, pot *matrix.Dense) error
	Edge(src, dst int) (*matrix.Dense, error)
	EdgeGroup(src, dst int) (int, error)
	HasEdge(src, dst int) bool

	ChildNodes(id int) ([]int, error)
	ParentNodes(id int) ([]int, error)

	Reset()

	// NodePotential returns the live potential vector of node id.
	NodePotential(id int) []float64
	// EdgeEnds returns the (source, destination) nodes of edge handle e.
	EdgeEnds(e int) (src, dst int)
	// EdgePotential returns the live row-major nStates×nStates potential of edge handle e.
	EdgePotential(e int) []float64
	// OutEdges returns the handles of edges leaving node id.
	OutEdges(id int) []int
	// InEdges returns the handles of edges entering node id.
	InEdges(id int) []int
}

// Node is a vertex of the sparse Graph.
//
// ID equals the insertion index. Pot has length nStates. To and From hold
// edge handles of outgoing and incoming edges.
type Node struct {
	ID   int
	Pot  []float64
	To   []int
	From []int
}

// Edge is a directed edge of the sparse Graph.
//
// Pot is nStates×nStates: row = state of Src, column = state of Dst.
// Group tags the edge for bulk potential updates.
type Edge struct {
	Src, Dst int
	Pot      *matrix.Dense
	Group    int
}
