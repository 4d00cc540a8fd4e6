package infer

import (
	"fmt"

	"github.com/katalvlaran/dgm/decode"
	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/matrix"
)

// Epsilon is the numeric floor shared by every strategy: single-precision
// machine epsilon. Beliefs multiply softly, (Epsilon+pot)·(Epsilon+msg); a
// message whose normaliser is ≤ Epsilon becomes uniform; negative logs clamp
// potentials at Epsilon.
const Epsilon = 1.1920928955078125e-07

// Inferer is the lifecycle shared by every strategy: bound to one graph at
// construction, Infer rewrites node potentials in place into (approximate)
// marginals, Decode turns them into one label per node.
//
// Infer is not linear in nIt: each call starts from the current potentials,
// so Infer(a) followed by Infer(b) differs from Infer(a+b).
type Inferer interface {
	// Infer runs nIt iterations (ignored by exact strategies).
	Infer(nIt int) error
	// Decode runs Infer(nIt) when nIt > 0, then returns one label per node.
	// loss is an optional nStates×nStates loss matrix (nil for plain argmax).
	Decode(nIt int, loss *matrix.Dense) ([]int, error)
	// Confidence returns 1 - second/max of every node potential (0 if max is 0).
	Confidence() ([]float64, error)
	// Potentials returns the potential of state at every node.
	Potentials(state int) ([]float64, error)
}

var (
	_ Inferer = (*Exact)(nil)
	_ Inferer = (*Chain)(nil)
	_ Inferer = (*Tree)(nil)
	_ Inferer = (*LBP)(nil)
	_ Inferer = (*Viterbi)(nil)
	_ Inferer = (*TRW)(nil)
)

// base carries what every strategy shares: the graph, the resolved options and
// the default decode / confidence / potentials behaviour.
type base struct {
	g   graph.Pairwise
	cfg config
}

func newBase(g graph.Pairwise, opts []Option) base {
	return base{g: g, cfg: newConfig(opts)}
}

func (b *base) check(nIt int) error {
	if b.g == nil {
		return ErrNilGraph
	}
	if nIt < 0 {
		return fmt.Errorf("nIt=%d: %w", nIt, ErrNegativeIterations)
	}

	return nil
}

// decodeWith implements the default Decode: infer, then decode from marginals.
func (b *base) decodeWith(infer func(int) error, nIt int, loss *matrix.Dense) ([]int, error) {
	if err := b.check(nIt); err != nil {
		return nil, fmt.Errorf("Decode: %w", err)
	}
	if nIt > 0 {
		if err := infer(nIt); err != nil {
			return nil, err
		}
	}
	labels, err := decode.FromMarginals(b.g, loss)
	if err != nil {
		return nil, fmt.Errorf("Decode: %w", err)
	}

	return labels, nil
}

// Confidence implements Inferer.
func (b *base) Confidence() ([]float64, error) {
	if b.g == nil {
		return nil, fmt.Errorf("Confidence: %w", ErrNilGraph)
	}
	res := make([]float64, b.g.NumNodes())
	for id := range res {
		first, second := 0.0, 0.0
		for _, v := range b.g.NodePotential(id) {
			switch {
			case v > first:
				first, second = v, first
			case v > second:
				second = v
			}
		}
		if first > 0 {
			res[id] = 1 - second/first
		}
	}

	return res, nil
}

// Potentials implements Inferer.
func (b *base) Potentials(state int) ([]float64, error) {
	if b.g == nil {
		return nil, fmt.Errorf("Potentials: %w", ErrNilGraph)
	}
	if state < 0 || state >= b.g.NumStates() {
		return nil, fmt.Errorf("Potentials(%d): %w", state, ErrStateOutOfRange)
	}
	res := make([]float64, b.g.NumNodes())
	for id := range res {
		res[id] = b.g.NodePotential(id)[state]
	}

	return res, nil
}
