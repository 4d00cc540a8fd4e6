package energy

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Options controls a solve run.
//
// Fields:
//   - MaxIter: maximum number of iterations (≥ 1).
//   - Eps: TRW-S stops when the lower bound improves by ≤ Eps over
//     one iteration (one more iteration is then run). Negative disables.
//   - PrintIter: log lower bound and energy every PrintIter iterations
//     (< 1 logs every iteration once PrintMinIter is reached).
//   - PrintMinIter: no progress logging before this iteration.
//   - MinMarginals: record min-marginals during the last iteration.
type Options struct {
	MaxIter      int
	Eps          float64
	PrintIter    int
	PrintMinIter int
	MinMarginals bool
}

// DefaultOptions returns MaxIter=1e6, Eps=-1, PrintIter=5, PrintMinIter=10.
func DefaultOptions() Options {
	return Options{
		MaxIter:      1000000,
		Eps:          -1,
		PrintIter:    5,
		PrintMinIter: 10,
	}
}

// Result summarises a solve run.
type Result struct {
	Iterations  int
	LowerBound  float64   // TRW-S only
	Energy      float64   // energy of the final labelling
	LowerBounds []float64 // per-iteration lower bound (TRW-S only)
}

// MinimizeTRWS runs sequential tree-reweighted message passing.
// Messages are not reset, so repeated calls continue from the previous state;
// call ZeroMessages to restart.
// Complexity: O(iter·(V·K + E·C)) with C = K for Potts and K² for general costs.
func (e *Engine) MinimizeTRWS(opts Options) (Result, error) {
	if err := e.prepare(opts); err != nil {
		return Result{}, fmt.Errorf("MinimizeTRWS: %w", err)
	}
	e.SetMonotonicTrees()

	var (
		res            Result
		lowerBound     float64
		lowerBoundPrev float64
		lastIter       bool
	)
	k := e.k
	di, buf := e.buf[:k], e.buf[k:]

	for iter := 1; ; iter++ {
		if iter >= opts.MaxIter {
			lastIter = true
		}

		// forward pass
		for i := range e.nodes {
			e.aggregate(i, di)
			for _, h := range e.nodes[i].forward {
				ed := &e.edges[h]
				ed.updateMessage(k, di, ed.gammaForward, 0, buf)
			}
		}

		// backward pass; only this one accumulates the bound
		lowerBound = 0
		for i := len(e.nodes) - 1; i >= 0; i-- {
			e.aggregate(i, di)
			vMin := floats.Min(di)
			floats.AddConst(-vMin, di)
			lowerBound += vMin
			for _, h := range e.nodes[i].backward {
				ed := &e.edges[h]
				lowerBound += ed.updateMessage(k, di, ed.gammaBackward, 1, buf)
			}
			if lastIter && opts.MinMarginals {
				copy(e.minMarginals[i*k:(i+1)*k], di)
			}
		}
		res.LowerBounds = append(res.LowerBounds, lowerBound)

		if lastIter || e.shouldLog(iter, opts) {
			res.Energy = e.ComputeSolutionAndEnergy()
			e.logger.Debug("trw-s iteration",
				zap.Int("iter", iter),
				zap.Float64("lower_bound", lowerBound),
				zap.Float64("energy", res.Energy))
		}
		if lastIter {
			res.Iterations = iter
			break
		}
		if opts.Eps >= 0 {
			if iter > 1 && lowerBound-lowerBoundPrev <= opts.Eps {
				lastIter = true
			}
			lowerBoundPrev = lowerBound
		}
	}
	res.LowerBound = lowerBound

	return res, nil
}

// MinimizeBP runs min-sum belief propagation with the TRW-S sweep schedule
// and gamma fixed at 1. No lower bound is tracked.
func (e *Engine) MinimizeBP(opts Options) (Result, error) {
	if err := e.prepare(opts); err != nil {
		return Result{}, fmt.Errorf("MinimizeBP: %w", err)
	}

	var res Result
	k := e.k
	di, buf := e.buf[:k], e.buf[k:]
	const gamma = 1.0

	for iter := 1; ; iter++ {
		lastIter := iter >= opts.MaxIter

		for i := range e.nodes {
			e.aggregate(i, di)
			for _, h := range e.nodes[i].forward {
				e.edges[h].updateMessage(k, di, gamma, 0, buf)
			}
		}
		for i := len(e.nodes) - 1; i >= 0; i-- {
			e.aggregate(i, di)
			for _, h := range e.nodes[i].backward {
				e.edges[h].updateMessage(k, di, gamma, 1, buf)
			}
			if lastIter && opts.MinMarginals {
				vMin := floats.Min(di)
				floats.AddConst(-vMin, di)
				copy(e.minMarginals[i*k:(i+1)*k], di)
			}
		}

		if lastIter || e.shouldLog(iter, opts) {
			res.Energy = e.ComputeSolutionAndEnergy()
			e.logger.Debug("bp iteration",
				zap.Int("iter", iter),
				zap.Float64("energy", res.Energy))
		}
		if lastIter {
			res.Iterations = iter
			break
		}
	}

	return res, nil
}

// ComputeSolutionAndEnergy fixes each node's label in order, using the actual
// pairwise costs towards already-labelled predecessors and the messages from
// successors, and returns the energy of the resulting labelling.
func (e *Engine) ComputeSolutionAndEnergy() float64 {
	e.CompleteGraphConstruction()
	k := e.k
	diBackward, di := e.buf[:k], e.buf[k:]
	var total float64
	for i := range e.nodes {
		n := &e.nodes[i]
		copy(diBackward, n.cost)
		for _, h := range n.backward {
			ed := &e.edges[h]
			ed.addColumn(k, e.nodes[ed.tail].solution, diBackward, 0)
		}
		copy(di, diBackward)
		for _, h := range n.forward {
			floats.Add(di, e.edges[h].msg)
		}
		n.solution = floats.MinIdx(di)
		total += diBackward[n.solution]
	}
	e.solved = true

	return total
}

// aggregate writes D_i + Σ messages of every incident edge into di.
func (e *Engine) aggregate(i int, di []float64) {
	n := &e.nodes[i]
	copy(di, n.cost)
	for _, h := range n.forward {
		floats.Add(di, e.edges[h].msg)
	}
	for _, h := range n.backward {
		floats.Add(di, e.edges[h].msg)
	}
}

func (e *Engine) prepare(opts Options) error {
	if e.released {
		return ErrReleased
	}
	if opts.MaxIter < 1 {
		return fmt.Errorf("MaxIter=%d: %w", opts.MaxIter, ErrInvalidOptions)
	}
	e.CompleteGraphConstruction()
	if opts.MinMarginals && len(e.minMarginals) != len(e.nodes)*e.k {
		e.minMarginals = make([]float64, len(e.nodes)*e.k)
	}

	return nil
}

func (e *Engine) shouldLog(iter int, opts Options) bool {
	return iter >= opts.PrintMinIter && (opts.PrintIter < 1 || iter%opts.PrintIter == 0)
}
