package infer

import (
	"fmt"

	"github.com/katalvlaran/dgm/decode"
	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/matrix"
	"go.uber.org/zap"
)

// progressEvery is the iteration cadence of sweep progress logging.
const progressEvery = 5

// LBP is synchronous loopy belief propagation (sum-product) for arbitrary
// topologies. Every iteration recomputes all messages from the previous
// iteration's messages, so the result does not depend on node order or on
// the number of workers.
type LBP struct {
	base
	msgs   messages
	maxSum bool
	name   string
}

// NewLBP binds loopy belief propagation to g.
func NewLBP(g graph.Pairwise, opts ...Option) *LBP {
	return &LBP{base: newBase(g, opts), name: "lbp"}
}

// Infer runs nIt synchronous sweeps from uniform messages, then replaces
// every node potential by its belief. On trees, nIt ≥ diameter gives exact
// marginals. Infer(0) folds uniform messages into the potentials.
// Complexity: O(nIt · E · K²) time, O(E · K) memory.
func (l *LBP) Infer(nIt int) error {
	if err := l.run(nIt, nil); err != nil {
		return fmt.Errorf("LBP.Infer: %w", err)
	}

	return nil
}

func (l *LBP) run(nIt int, labels []int) error {
	if err := l.check(nIt); err != nil {
		return err
	}
	l.msgs.reset(l.g, l.cfg.workers)
	for it := 0; it < nIt; it++ {
		if err := l.msgs.sweep(l.maxSum); err != nil {
			return err
		}
		if it%progressEvery == 0 {
			l.cfg.logger.Debug("sweep", zap.String("algorithm", l.name),
				zap.Int("iter", it), zap.Int("of", nIt))
		}
	}

	return l.msgs.beliefs(labels)
}

// Decode runs Infer when nIt > 0 and decodes the marginals.
func (l *LBP) Decode(nIt int, loss *matrix.Dense) ([]int, error) {
	return l.decodeWith(l.Infer, nIt, loss)
}

// Viterbi is max-product loopy belief propagation. Its Infer leaves
// max-marginals in the node potentials and Decode reads the winning state of
// every node from the final belief pass.
type Viterbi struct {
	LBP
	labels []int
}

// NewViterbi binds max-product inference to g.
func NewViterbi(g graph.Pairwise, opts ...Option) *Viterbi {
	return &Viterbi{LBP: LBP{base: newBase(g, opts), maxSum: true, name: "viterbi"}}
}

// Infer runs nIt max-product sweeps and records the argmax of every belief.
// Complexity: O(nIt · E · K²).
func (v *Viterbi) Infer(nIt int) error {
	if v.g != nil && len(v.labels) != v.g.NumNodes() {
		v.labels = make([]int, v.g.NumNodes())
	}
	if err := v.run(nIt, v.labels); err != nil {
		v.labels = nil
		return fmt.Errorf("Viterbi.Infer: %w", err)
	}

	return nil
}

// Decode runs Infer when nIt > 0 and returns the states recorded by the last
// belief pass. The loss matrix does not apply to a max-product decode and is
// ignored with a warning. Before any Infer it falls back to argmax decoding
// of the current potentials.
func (v *Viterbi) Decode(nIt int, loss *matrix.Dense) ([]int, error) {
	if err := v.check(nIt); err != nil {
		return nil, fmt.Errorf("Viterbi.Decode: %w", err)
	}
	if loss != nil {
		v.cfg.logger.Warn("viterbi decode ignores the loss matrix")
	}
	if nIt > 0 {
		if err := v.Infer(nIt); err != nil {
			return nil, err
		}
	}
	if len(v.labels) != v.g.NumNodes() {
		labels, err := decode.FromMarginals(v.g, nil)
		if err != nil {
			return nil, fmt.Errorf("Viterbi.Decode: %w", err)
		}
		return labels, nil
	}
	out := make([]int, len(v.labels))
	copy(out, v.labels)

	return out, nil
}
