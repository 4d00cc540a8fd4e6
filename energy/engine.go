package energy

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// NodeID identifies a node of an Engine; ids are dense in insertion order.
type NodeID int

type node struct {
	cost     []float64 // D_i, arena span
	forward  []int     // edges (i, j) with j > i
	backward []int     // edges (j, i) with j < i
	solution int
}

// Engine holds one pairwise energy and its TRW-S / BP state.
type Engine struct {
	k      int
	logger *zap.Logger

	arena *arena
	nodes []node
	edges []edge

	sealed   bool
	solved   bool
	released bool

	minMarginals []float64 // node-major, K per node; filled when requested
	buf          []float64 // 2·K scratch
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithLogger routes progress output to l. Panics on nil.
func WithLogger(l *zap.Logger) EngineOption {
	if l == nil {
		panic("energy: WithLogger(nil)")
	}
	return func(e *Engine) {
		e.logger = l
	}
}

// WithBlockSize sets the arena block capacity in float64 values. Panics if n < 1.
func WithBlockSize(n int) EngineOption {
	if n < 1 {
		panic("energy: WithBlockSize(n<1)")
	}
	return func(e *Engine) {
		e.arena = newArena(n)
	}
}

// New creates an empty engine over k labels.
func New(k int, opts ...EngineOption) (*Engine, error) {
	if k < 2 {
		return nil, fmt.Errorf("New(%d): %w", k, ErrInvalidStates)
	}
	e := &Engine{
		k:      k,
		logger: zap.NewNop(),
		arena:  newArena(defaultBlockSize),
		buf:    make([]float64, 2*k),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// NumLabels returns K.
func (e *Engine) NumLabels() int { return e.k }

// NumNodes returns the number of nodes added so far.
func (e *Engine) NumNodes() int { return len(e.nodes) }

// NumEdges returns the number of edges added so far.
func (e *Engine) NumEdges() int { return len(e.edges) }

// AddNode appends a node with unary cost D (length K, no NaN) and returns its id.
func (e *Engine) AddNode(cost []float64) (NodeID, error) {
	if err := e.checkMutable(); err != nil {
		return 0, fmt.Errorf("AddNode: %w", err)
	}
	if len(cost) != e.k {
		return 0, fmt.Errorf("AddNode: len=%d, want %d: %w", len(cost), e.k, ErrCostDimension)
	}
	if floats.HasNaN(cost) {
		return 0, fmt.Errorf("AddNode: %w", ErrInvalidCost)
	}
	d := e.arena.alloc(e.k)
	copy(d, cost)
	e.nodes = append(e.nodes, node{cost: d})

	return NodeID(len(e.nodes) - 1), nil
}

// AddEdge adds the pairwise term V(x_i, x_j). Requires i < j.
func (e *Engine) AddEdge(i, j NodeID, cost EdgeCost) error {
	if err := e.checkMutable(); err != nil {
		return fmt.Errorf("AddEdge: %w", err)
	}
	if err := e.checkNode(i); err != nil {
		return fmt.Errorf("AddEdge: %w", err)
	}
	if err := e.checkNode(j); err != nil {
		return fmt.Errorf("AddEdge: %w", err)
	}
	if i >= j {
		return fmt.Errorf("AddEdge(%d,%d): %w", i, j, ErrEdgeOrder)
	}
	ed := edge{tail: i, head: j, kind: cost.kind, lambda: cost.lambda}
	switch cost.kind {
	case kindPotts:
		if math.IsNaN(cost.lambda) || cost.lambda < 0 {
			return fmt.Errorf("AddEdge(%d,%d): lambda=%g: %w", i, j, cost.lambda, ErrInvalidCost)
		}
	default:
		if len(cost.table) != e.k*e.k {
			return fmt.Errorf("AddEdge(%d,%d): len=%d, want %d: %w", i, j, len(cost.table), e.k*e.k, ErrCostDimension)
		}
		if floats.HasNaN(cost.table) {
			return fmt.Errorf("AddEdge(%d,%d): %w", i, j, ErrInvalidCost)
		}
		ed.table = e.arena.alloc(e.k * e.k)
		copy(ed.table, cost.table)
	}
	ed.msg = e.arena.alloc(e.k)
	e.edges = append(e.edges, ed)
	e.nodes[i].forward = append(e.nodes[i].forward, len(e.edges)-1)

	return nil
}

// CompleteGraphConstruction seals the graph and links backward edges.
// It is called implicitly by the solve entry points; calling it twice is a no-op.
func (e *Engine) CompleteGraphConstruction() {
	if e.sealed {
		return
	}
	for h := range e.edges {
		head := e.edges[h].head
		e.nodes[head].backward = append(e.nodes[head].backward, h)
	}
	e.sealed = true
	e.logger.Debug("graph construction completed",
		zap.Int("nodes", len(e.nodes)), zap.Int("edges", len(e.edges)))
}

// SetMonotonicTrees sets gamma = 1/max(#forward, #backward) at every node.
func (e *Engine) SetMonotonicTrees() {
	e.CompleteGraphConstruction()
	for i := range e.nodes {
		n := &e.nodes[i]
		ni := len(n.forward)
		if len(n.backward) > ni {
			ni = len(n.backward)
		}
		if ni == 0 {
			continue
		}
		mu := 1 / float64(ni)
		for _, h := range n.backward {
			e.edges[h].gammaBackward = mu
		}
		for _, h := range n.forward {
			e.edges[h].gammaForward = mu
		}
	}
}

// ZeroMessages resets every message to zero.
func (e *Engine) ZeroMessages() {
	for h := range e.edges {
		clear(e.edges[h].msg)
	}
}

// Solution returns the label of node i fixed by the last ComputeSolutionAndEnergy.
func (e *Engine) Solution(i NodeID) (int, error) {
	if err := e.checkNode(i); err != nil {
		return 0, fmt.Errorf("Solution: %w", err)
	}
	if !e.solved {
		return 0, fmt.Errorf("Solution: %w", ErrNoSolution)
	}

	return e.nodes[i].solution, nil
}

// Labels returns every node's solution label.
func (e *Engine) Labels() ([]int, error) {
	if !e.solved {
		return nil, fmt.Errorf("Labels: %w", ErrNoSolution)
	}
	out := make([]int, len(e.nodes))
	for i := range e.nodes {
		out[i] = e.nodes[i].solution
	}

	return out, nil
}

// MinMarginals returns a copy of the min-marginals of node i recorded during
// the last iteration of a solve run with Options.MinMarginals. The minimum
// entry is zero.
func (e *Engine) MinMarginals(i NodeID) ([]float64, error) {
	if err := e.checkNode(i); err != nil {
		return nil, fmt.Errorf("MinMarginals: %w", err)
	}
	if e.minMarginals == nil {
		return nil, fmt.Errorf("MinMarginals: %w", ErrNoSolution)
	}
	out := make([]float64, e.k)
	copy(out, e.minMarginals[int(i)*e.k:(int(i)+1)*e.k])

	return out, nil
}

// Energy evaluates E(labels) for an arbitrary labelling.
// Complexity: O(V + E).
func (e *Engine) Energy(labels []int) (float64, error) {
	if len(labels) != len(e.nodes) {
		return 0, fmt.Errorf("Energy: %d labels for %d nodes: %w", len(labels), len(e.nodes), ErrCostDimension)
	}
	var total float64
	for i, x := range labels {
		if x < 0 || x >= e.k {
			return 0, fmt.Errorf("Energy: label %d of node %d: %w", x, i, ErrCostDimension)
		}
		total += e.nodes[i].cost[x]
	}
	for h := range e.edges {
		ed := &e.edges[h]
		total += ed.at(labels[ed.tail], labels[ed.head], e.k)
	}

	return total, nil
}

// ArenaUsage reports the number of arena blocks and float64 values in use.
func (e *Engine) ArenaUsage() (blocks, values int) {
	return len(e.arena.blocks), e.arena.used
}

// Release frees every arena block. The engine is unusable afterwards.
func (e *Engine) Release() {
	e.arena.release()
	e.nodes = nil
	e.edges = nil
	e.minMarginals = nil
	e.released = true
}

func (e *Engine) checkMutable() error {
	if e.released {
		return ErrReleased
	}
	if e.sealed {
		return ErrSealed
	}

	return nil
}

func (e *Engine) checkNode(i NodeID) error {
	if i < 0 || int(i) >= len(e.nodes) {
		return fmt.Errorf("node %d of %d: %w", i, len(e.nodes), ErrNodeOutOfRange)
	}

	return nil
}
