package infer

import (
	"fmt"
	"math"

	"github.com/katalvlaran/dgm/decode"
	"github.com/katalvlaran/dgm/energy"
	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/matrix"
	"go.uber.org/zap"
)

// TRW is tree-reweighted message passing run on an energy engine built from
// the graph's potentials: node cost -log(pot), and per unordered node pair
// the sum of both directions' -log(edge pot). Infer leaves normalised
// exp(-min-marginal) in every node potential; Decode returns the engine's
// labelling.
type TRW struct {
	base
	labels      []int
	energy      float64
	lowerBounds []float64
}

// NewTRW binds tree-reweighted inference to g. WithTRWMode selects TRW-S
// (default) or plain min-sum BP, WithEpsilon the TRW-S stopping threshold.
func NewTRW(g graph.Pairwise, opts ...Option) *TRW {
	return &TRW{base: newBase(g, opts)}
}

// Infer runs at most nIt iterations on a fresh engine. Infer(0) is a no-op.
// Complexity: O(nIt · (V·K + E·C)) with C = K for Potts pairs, K² otherwise.
func (t *TRW) Infer(nIt int) error {
	if err := t.check(nIt); err != nil {
		return fmt.Errorf("TRW.Infer: %w", err)
	}
	if nIt == 0 || t.g.NumNodes() == 0 {
		return nil
	}
	eng, offset, err := t.buildEngine()
	if err != nil {
		return fmt.Errorf("TRW.Infer: %w", err)
	}
	defer eng.Release()

	opts := energy.DefaultOptions()
	opts.MaxIter = nIt
	opts.Eps = t.cfg.eps
	opts.MinMarginals = true
	var res energy.Result
	switch t.cfg.trwMode {
	case BP:
		res, err = eng.MinimizeBP(opts)
	default:
		res, err = eng.MinimizeTRWS(opts)
	}
	if err != nil {
		return fmt.Errorf("TRW.Infer: %w", err)
	}

	if t.labels, err = eng.Labels(); err != nil {
		return fmt.Errorf("TRW.Infer: %w", err)
	}
	for id := 0; id < t.g.NumNodes(); id++ {
		mm, err := eng.MinMarginals(energy.NodeID(id))
		if err != nil {
			return fmt.Errorf("TRW.Infer: %w", err)
		}
		pot := t.g.NodePotential(id)
		for s, v := range mm {
			pot[s] = math.Exp(-v)
		}
		normalize(pot)
	}
	t.energy = res.Energy + offset
	t.lowerBounds = t.lowerBounds[:0]
	for _, lb := range res.LowerBounds {
		t.lowerBounds = append(t.lowerBounds, lb+offset)
	}
	t.cfg.logger.Debug("trw inference done",
		zap.Stringer("mode", t.cfg.trwMode),
		zap.Int("iterations", res.Iterations),
		zap.Float64("energy", t.energy))

	return nil
}

// buildEngine converts the graph into an energy. Pairs whose summed cost is
// Potts-shaped (equal diagonal d, equal off-diagonal o ≥ d) become
// Potts(o-d); the constant d per such pair is returned as offset so that
// reported energies match the graph's -log probability.
func (t *TRW) buildEngine() (*energy.Engine, float64, error) {
	k := t.g.NumStates()
	eng, err := energy.New(k, energy.WithLogger(t.cfg.logger))
	if err != nil {
		return nil, 0, err
	}
	cost := make([]float64, k)
	for id := 0; id < t.g.NumNodes(); id++ {
		for s, p := range t.g.NodePotential(id) {
			cost[s] = negLog(p)
		}
		if _, err := eng.AddNode(cost); err != nil {
			return nil, 0, err
		}
	}

	type pair struct{ a, b int }
	slot := make(map[pair]int)
	var (
		pairs  []pair
		tables [][]float64
	)
	for e := 0; e < t.g.NumEdges(); e++ {
		src, dst := t.g.EdgeEnds(e)
		p := pair{min(src, dst), max(src, dst)}
		i, ok := slot[p]
		if !ok {
			i = len(pairs)
			slot[p] = i
			pairs = append(pairs, p)
			tables = append(tables, make([]float64, k*k))
		}
		pot, tab := t.g.EdgePotential(e), tables[i]
		for ks := 0; ks < k; ks++ {
			for kd := 0; kd < k; kd++ {
				v := negLog(pot[ks*k+kd])
				if src < dst {
					tab[ks*k+kd] += v
				} else {
					tab[kd*k+ks] += v
				}
			}
		}
	}

	var offset float64
	for i, p := range pairs {
		c := energy.General(tables[i])
		if lambda, d, ok := pottsOf(tables[i], k); ok {
			c = energy.Potts(lambda)
			offset += d
		}
		if err := eng.AddEdge(energy.NodeID(p.a), energy.NodeID(p.b), c); err != nil {
			return nil, 0, err
		}
	}

	return eng, offset, nil
}

// pottsOf reports whether tab is d on the diagonal and o ≥ d elsewhere.
func pottsOf(tab []float64, k int) (lambda, d float64, ok bool) {
	d, o := tab[0], tab[1]
	for ki := 0; ki < k; ki++ {
		for kj := 0; kj < k; kj++ {
			v := tab[ki*k+kj]
			if (ki == kj && v != d) || (ki != kj && v != o) {
				return 0, 0, false
			}
		}
	}
	if o < d {
		return 0, 0, false
	}

	return o - d, d, true
}

func negLog(p float64) float64 {
	return -math.Log(max(Epsilon, p))
}

// Decode runs Infer when nIt > 0 and returns the engine's labelling. The loss
// matrix does not apply and is ignored with a warning. Before any Infer it
// falls back to argmax decoding of the current potentials.
func (t *TRW) Decode(nIt int, loss *matrix.Dense) ([]int, error) {
	if err := t.check(nIt); err != nil {
		return nil, fmt.Errorf("TRW.Decode: %w", err)
	}
	if loss != nil {
		t.cfg.logger.Warn("trw decode ignores the loss matrix")
	}
	if nIt > 0 {
		if err := t.Infer(nIt); err != nil {
			return nil, err
		}
	}
	if len(t.labels) != t.g.NumNodes() {
		labels, err := decode.FromMarginals(t.g, nil)
		if err != nil {
			return nil, fmt.Errorf("TRW.Decode: %w", err)
		}
		return labels, nil
	}
	out := make([]int, len(t.labels))
	copy(out, t.labels)

	return out, nil
}

// Energy returns the -log probability of the last Infer's labelling.
func (t *TRW) Energy() float64 { return t.energy }

// LowerBounds returns the per-iteration TRW-S lower bounds of the last Infer,
// on the same scale as Energy. Empty in BP mode.
func (t *TRW) LowerBounds() []float64 {
	out := make([]float64, len(t.lowerBounds))
	copy(out, t.lowerBounds)

	return out
}
