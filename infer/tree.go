package infer

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/matrix"
	"go.uber.org/zap"
)

// Tree is exact sum-product on a spanning tree. Messages start at the leaves:
// a node sends to a neighbour once it has heard from all its other
// neighbours, so every edge carries exactly one message per direction.
type Tree struct {
	base
	msgs messages
}

// NewTree binds tree inference to g.
func NewTree(g graph.Pairwise, opts ...Option) *Tree {
	return &Tree{base: newBase(g, opts)}
}

// Infer replaces every node potential by its exact marginal. nIt is ignored
// beyond validation. With the topology check disabled, edges on a cycle never
// become ready and keep the uniform message.
// Complexity: O(V·K²).
func (t *Tree) Infer(nIt int) error {
	if err := t.check(nIt); err != nil {
		return fmt.Errorf("Tree.Infer: %w", err)
	}
	if t.cfg.topologyCheck {
		if err := graph.CheckTree(t.g); err != nil {
			return fmt.Errorf("Tree.Infer: %w", err)
		}
	}
	n := t.g.NumNodes()
	t.msgs.reset(t.g, 1)
	cur := t.msgs.current()
	temp := make([]float64, t.g.NumStates())

	received := make([]int, n)
	sent := make([]bool, t.g.NumEdges())
	queue := make([]int, 0, n)
	for id := 0; id < n; id++ {
		if len(t.g.InEdges(id)) <= 1 {
			queue = append(queue, id)
		}
	}

	var nSent int
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		missing := len(t.g.InEdges(u)) - received[u]
		if missing > 1 {
			continue
		}
		for _, e := range t.g.OutEdges(u) {
			if sent[e] {
				continue
			}
			_, v := t.g.EdgeEnds(e)
			if missing == 1 && !t.waitingOn(u, v, sent) {
				continue
			}
			t.msgs.send(e, cur, t.msgs.at(cur, e), temp, false)
			sent[e] = true
			nSent++
			received[v]++
			queue = append(queue, v)
		}
	}
	if err := t.msgs.beliefs(nil); err != nil {
		return fmt.Errorf("Tree.Infer: %w", err)
	}
	t.cfg.logger.Debug("tree inference done",
		zap.Int("nodes", n), zap.Int("messages", nSent))

	return nil
}

// waitingOn reports whether u has not yet received a message from v.
func (t *Tree) waitingOn(u, v int, sent []bool) bool {
	for _, f := range t.g.InEdges(u) {
		if from, _ := t.g.EdgeEnds(f); from == v && !sent[f] {
			return true
		}
	}

	return false
}

// Decode runs Infer when nIt > 0 and decodes the marginals.
func (t *Tree) Decode(nIt int, loss *matrix.Dense) ([]int, error) {
	return t.decodeWith(t.Infer, nIt, loss)
}
