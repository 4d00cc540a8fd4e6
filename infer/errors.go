package infer

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

// Sentinel errors for inference. Topology violations reuse graph.ErrNotChain
// and graph.ErrNotTree (both wrap graph.ErrTopology).
var (
	// ErrNegativeIterations indicates Infer/Decode called with nIt < 0.
	ErrNegativeIterations = fmt.Errorf("%w: iteration count must be non-negative", graph.ErrConfiguration)

	// ErrStateOutOfRange indicates Potentials(state) with state outside [0, nStates).
	ErrStateOutOfRange = fmt.Errorf("%w: state out of range", graph.ErrConfiguration)

	// ErrNilGraph indicates a strategy constructed without a graph.
	ErrNilGraph = errors.New("infer: nil graph")
)
