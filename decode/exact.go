package decode

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
	"gonum.org/v1/gonum/floats"
)

// DefaultMaxConfigurations bounds exhaustive enumeration (4M scores, 32 MiB).
const DefaultMaxConfigurations = 1 << 22

// ExactOptions configures the exhaustive decoder.
//
// Fields:
//   - MaxConfigurations: upper bound on nStates^nNodes; larger graphs fail
//     with ErrTooManyConfigurations instead of allocating. Values ≤ 0 select
//     DefaultMaxConfigurations.
type ExactOptions struct {
	MaxConfigurations int
}

// DefaultExactOptions returns ExactOptions{MaxConfigurations: DefaultMaxConfigurations}.
func DefaultExactOptions() ExactOptions {
	return ExactOptions{MaxConfigurations: DefaultMaxConfigurations}
}

// Exact is the exhaustive-enumeration decoder bound to one graph.
type Exact struct {
	g    graph.Pairwise
	opts ExactOptions
}

// NewExact binds an exhaustive decoder to g.
func NewExact(g graph.Pairwise, opts ExactOptions) *Exact {
	if opts.MaxConfigurations <= 0 {
		opts.MaxConfigurations = DefaultMaxConfigurations
	}

	return &Exact{g: g, opts: opts}
}

// NumConfigurations returns nStates^nNodes, or ErrTooManyConfigurations if
// the value exceeds limit. The product is checked step by step so it never
// overflows.
func NumConfigurations(nStates, nNodes, limit int) (int, error) {
	n := 1
	for i := 0; i < nNodes; i++ {
		if n > limit/nStates {
			return 0, fmt.Errorf("%d^%d > %d: %w", nStates, nNodes, limit, ErrTooManyConfigurations)
		}
		n *= nStates
	}

	return n, nil
}

// SetState writes configuration number c into state, node 0 being the least
// significant base-nStates digit.
func SetState(state []int, nStates, c int) {
	for n := range state {
		state[n] = c % nStates
		c /= nStates
	}
}

// IncState advances state to the next configuration in SetState order and
// reports false when it wraps around to all zeros.
func IncState(state []int, nStates int) bool {
	for n := range state {
		state[n]++
		if state[n] < nStates {
			return true
		}
		state[n] = 0
	}

	return false
}

// Score returns the unnormalised probability of one joint configuration:
// the product of every node potential and every directed edge potential.
// Complexity: O(V + E).
func Score(g graph.Pairwise, state []int) float64 {
	k := g.NumStates()
	p := 1.0
	for id := 0; id < g.NumNodes(); id++ {
		p *= g.NodePotential(id)[state[id]]
	}
	for e := 0; e < g.NumEdges(); e++ {
		src, dst := g.EdgeEnds(e)
		p *= g.EdgePotential(e)[state[src]*k+state[dst]]
	}

	return p
}

// Potentials scores every configuration. Index c of the result corresponds to
// SetState(state, nStates, c).
// Complexity: O(nStates^V · (V + E)) time, O(nStates^V) memory.
func (x *Exact) Potentials() ([]float64, error) {
	k, n := x.g.NumStates(), x.g.NumNodes()
	nConf, err := NumConfigurations(k, n, x.opts.MaxConfigurations)
	if err != nil {
		return nil, fmt.Errorf("Potentials: %w", err)
	}
	res := make([]float64, nConf)
	state := make([]int, n)
	for c := range res {
		res[c] = Score(x.g, state)
		IncState(state, k)
	}

	return res, nil
}

// Decode returns the most probable joint configuration.
// Ties resolve to the lowest configuration number.
func (x *Exact) Decode() ([]int, error) {
	p, err := x.Potentials()
	if err != nil {
		return nil, fmt.Errorf("Decode: %w", err)
	}
	state := make([]int, x.g.NumNodes())
	SetState(state, x.g.NumStates(), floats.MaxIdx(p))

	return state, nil
}
