package infer

import (
	"fmt"

	"github.com/katalvlaran/dgm/decode"
	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/matrix"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Exact computes true marginals by enumerating every joint configuration.
// It is the reference the approximate strategies are tested against.
type Exact struct {
	base
}

// NewExact binds exhaustive inference to g.
func NewExact(g graph.Pairwise, opts ...Option) *Exact {
	return &Exact{base: newBase(g, opts)}
}

// Infer replaces every node potential by its exact marginal. nIt is ignored
// beyond validation. A zero partition function yields uniform marginals.
// Complexity: O(K^V · (V + E)) time, O(K^V) memory.
func (x *Exact) Infer(nIt int) error {
	if err := x.check(nIt); err != nil {
		return fmt.Errorf("Exact.Infer: %w", err)
	}
	k, n := x.g.NumStates(), x.g.NumNodes()
	p, err := decode.NewExact(x.g, decode.ExactOptions{MaxConfigurations: x.cfg.maxConfigurations}).Potentials()
	if err != nil {
		return fmt.Errorf("Exact.Infer: %w", err)
	}
	z := floats.Sum(p)

	marg := make([]float64, n*k)
	if z > 0 {
		state := make([]int, n)
		for _, pc := range p {
			w := pc / z
			for id, s := range state {
				marg[id*k+s] += w
			}
			decode.IncState(state, k)
		}
	} else {
		x.cfg.logger.Warn("exact inference: zero partition function, using uniform marginals")
		for i := range marg {
			marg[i] = 1 / float64(k)
		}
	}
	for id := 0; id < n; id++ {
		copy(x.g.NodePotential(id), marg[id*k:(id+1)*k])
	}
	x.cfg.logger.Debug("exact inference done",
		zap.Int("nodes", n), zap.Int("configurations", len(p)), zap.Float64("z", z))

	return nil
}

// Decode runs Infer when nIt > 0 and decodes the marginals.
func (x *Exact) Decode(nIt int, loss *matrix.Dense) ([]int, error) {
	return x.decodeWith(x.Infer, nIt, loss)
}
