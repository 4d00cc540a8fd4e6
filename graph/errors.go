package graph

import (
	"errors"
	"fmt"
)

// Error classes. Every sentinel below wraps exactly one of them, so callers
// can branch either on the precise condition or on its class:
//
//	errors.Is(err, ErrDuplicateEdge)  // precise
//	errors.Is(err, ErrConfiguration)  // class
var (
	// ErrConfiguration marks malformed input detected eagerly at the introducing call.
	ErrConfiguration = errors.New("graph: configuration error")

	// ErrTopology marks an algorithm invoked on a graph that violates its structural precondition.
	ErrTopology = errors.New("graph: topology precondition violated")
)

// Sentinel errors for graph operations.
var (
	// ErrStatesOutOfRange indicates nStates outside [MinStates, MaxStates].
	ErrStatesOutOfRange = fmt.Errorf("%w: number of states out of range", ErrConfiguration)

	// ErrDimensionMismatch indicates a potential whose size does not match nStates.
	ErrDimensionMismatch = fmt.Errorf("%w: potential dimension mismatch", ErrConfiguration)

	// ErrInvalidPotential indicates a negative, NaN or infinite potential entry.
	ErrInvalidPotential = fmt.Errorf("%w: potential must be finite and non-negative", ErrConfiguration)

	// ErrNodeOutOfRange indicates a node id that does not reference a live node.
	ErrNodeOutOfRange = fmt.Errorf("%w: node id out of range", ErrConfiguration)

	// ErrDuplicateEdge indicates a second edge for the same ordered node pair.
	ErrDuplicateEdge = fmt.Errorf("%w: duplicate edge", ErrConfiguration)

	// ErrSelfLoop indicates an edge whose endpoints coincide.
	ErrSelfLoop = fmt.Errorf("%w: self-loop not allowed", ErrConfiguration)

	// ErrEdgeNotFound indicates an operation on a non-existent edge.
	ErrEdgeNotFound = fmt.Errorf("%w: edge not found", ErrConfiguration)

	// ErrFixedTopology indicates a structural mutation on a graph whose shape is fixed at construction.
	ErrFixedTopology = fmt.Errorf("%w: topology is fixed", ErrConfiguration)

	// ErrNotChain indicates a graph that is not a simple path in node-id order.
	ErrNotChain = fmt.Errorf("%w: graph is not a chain", ErrTopology)

	// ErrNotTree indicates a graph that is not a spanning tree of arcs.
	ErrNotTree = fmt.Errorf("%w: graph is not a tree", ErrTopology)
)
