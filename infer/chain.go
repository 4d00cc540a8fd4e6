package infer

import (
	"fmt"

	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/matrix"
	"go.uber.org/zap"
)

// Chain is exact two-pass sum-product on a simple path 0 – 1 – … – n-1.
type Chain struct {
	base
	msgs messages
}

// NewChain binds chain inference to g.
func NewChain(g graph.Pairwise, opts ...Option) *Chain {
	return &Chain{base: newBase(g, opts)}
}

// Infer replaces every node potential by its exact marginal. nIt is ignored
// beyond validation. With the topology check disabled, a graph that is not
// a chain receives the result of one forward and one backward pass.
// Complexity: O(V·K²).
func (c *Chain) Infer(nIt int) error {
	if err := c.check(nIt); err != nil {
		return fmt.Errorf("Chain.Infer: %w", err)
	}
	if c.cfg.topologyCheck {
		if err := graph.CheckChain(c.g); err != nil {
			return fmt.Errorf("Chain.Infer: %w", err)
		}
	}
	n := c.g.NumNodes()
	c.msgs.reset(c.g, 1)
	cur := c.msgs.current()
	temp := make([]float64, c.g.NumStates())

	// forward
	for id := 0; id < n-1; id++ {
		c.sendTo(id, id+1, cur, temp)
	}
	// backward
	for id := n - 1; id > 0; id-- {
		c.sendTo(id, id-1, cur, temp)
	}
	if err := c.msgs.beliefs(nil); err != nil {
		return fmt.Errorf("Chain.Infer: %w", err)
	}
	c.cfg.logger.Debug("chain inference done", zap.Int("nodes", n))

	return nil
}

// sendTo updates, in place, every message from src to dst.
func (c *Chain) sendTo(src, dst int, cur, temp []float64) {
	for _, e := range c.g.OutEdges(src) {
		if _, to := c.g.EdgeEnds(e); to == dst {
			c.msgs.send(e, cur, c.msgs.at(cur, e), temp, false)
		}
	}
}

// Decode runs Infer when nIt > 0 and decodes the marginals.
func (c *Chain) Decode(nIt int, loss *matrix.Dense) ([]int, error) {
	return c.decodeWith(c.Infer, nIt, loss)
}
