// Package gridgraph defines core types, options, and sentinel errors
// for the lattice store of github.com/katalvlaran/dgm.
package gridgraph

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

// Sentinel errors for gridgraph operations.
var (
	// ErrEmptyGrid indicates a lattice with no rows or no columns.
	ErrEmptyGrid = fmt.Errorf("%w: lattice must have at least one row and one column", graph.ErrConfiguration)
	// ErrNonRectangular indicates label rows of differing lengths.
	ErrNonRectangular = fmt.Errorf("%w: all rows must have the same length", graph.ErrConfiguration)
	// ErrLabelOutOfRange indicates an observed label outside [0, nStates).
	ErrLabelOutOfRange = fmt.Errorf("%w: label out of range", graph.ErrConfiguration)
	// ErrBadConfidence indicates an evidence confidence outside (0, 1).
	ErrBadConfidence = errors.New("gridgraph: confidence must lie in (0, 1)")
	// ErrLabelCount indicates a label slice whose length differs from the node count.
	ErrLabelCount = errors.New("gridgraph: label count does not match lattice size")
)

// Connectivity selects neighbor connectivity: orthogonal (Conn4) or including diagonals (Conn8).
type Connectivity int

const (
	// Conn4 uses 4-directional connectivity: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 uses 8-directional connectivity: N, NE, E, SE, S, SW, W, NW.
	Conn8
)

// Edge groups assigned by the lattice. SetEdges(GroupHorizontal, pot) updates
// every horizontal edge at once.
const (
	GroupHorizontal = 0
	GroupVertical   = 1
	GroupDiagonal   = 2
)

// LatticeOptions contains tunable parameters for lattice construction.
type LatticeOptions struct {
	// Conn chooses 4- or 8-directional connectivity.
	Conn Connectivity
	// Confidence is the node potential given to the observed label by
	// FromLabels; the remaining mass is spread evenly over the other states.
	Confidence float64
}

// DefaultLatticeOptions returns LatticeOptions with default settings:
// Conn=Conn4, Confidence=0.75.
func DefaultLatticeOptions() LatticeOptions {
	return LatticeOptions{
		Conn:       Conn4,
		Confidence: 0.75,
	}
}

// Lattice is a fixed Width×Height pairwise graph. Every pair of neighbouring
// cells is joined by an arc (two directed edges). The shape is frozen at
// construction; only potentials change afterwards.
//
// Storage is flat: node potentials live in one []float64 of Width·Height·nStates
// values, edge potentials in one []float64 of nEdges·nStates² values, and the
// adjacency is precomputed once in CSR form.
type Lattice struct {
	Width, Height int
	Conn          Connectivity

	nStates int
	nodePot []float64
	edgePot []float64

	src, dst []int
	group    []int

	out, in [][]int // per-node views into shared CSR buffers

	forwardOffsets [][2]int
}
