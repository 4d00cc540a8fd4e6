package decode

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
)

// Sentinel errors for decoding. Both belong to the graph.ErrConfiguration class.
var (
	// ErrTooManyConfigurations indicates that nStates^nNodes exceeds the enumeration limit.
	ErrTooManyConfigurations = fmt.Errorf("%w: too many configurations to enumerate", graph.ErrConfiguration)

	// ErrBadLossMatrix indicates a loss matrix that is not nStates×nStates with a
	// zero diagonal and strictly positive, finite off-diagonal entries.
	ErrBadLossMatrix = fmt.Errorf("%w: malformed loss matrix", graph.ErrConfiguration)
)
