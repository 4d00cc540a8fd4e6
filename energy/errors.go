package energy

import "errors"

// Sentinel errors for the energy engine.
var (
	// ErrInvalidStates indicates a label count < 2.
	ErrInvalidStates = errors.New("energy: number of labels must be at least 2")

	// ErrSealed indicates AddNode/AddEdge after a solve entry point completed construction.
	ErrSealed = errors.New("energy: graph construction completed")

	// ErrReleased indicates use of an engine after Release.
	ErrReleased = errors.New("energy: engine released")

	// ErrNodeOutOfRange indicates a NodeID that was not returned by AddNode.
	ErrNodeOutOfRange = errors.New("energy: node id out of range")

	// ErrEdgeOrder indicates AddEdge(i, j) with i >= j.
	ErrEdgeOrder = errors.New("energy: edge endpoints must satisfy i < j")

	// ErrCostDimension indicates a cost vector of the wrong length.
	ErrCostDimension = errors.New("energy: cost dimension mismatch")

	// ErrInvalidCost indicates a NaN cost or a negative Potts weight.
	ErrInvalidCost = errors.New("energy: invalid cost")

	// ErrInvalidOptions indicates Options with MaxIter < 1.
	ErrInvalidOptions = errors.New("energy: invalid options")

	// ErrNoSolution indicates Solution/MinMarginals before any solve.
	ErrNoSolution = errors.New("energy: no solution computed yet")
)
