package infer

import (
	"github.com/katalvlaran/dgm/decode"
	"go.uber.org/zap"
)

// TRWMode selects the message schedule of the TRW strategy.
type TRWMode int

const (
	// TRWS runs sequential tree-reweighted message passing and tracks a lower bound.
	TRWS TRWMode = iota
	// BP runs min-sum belief propagation on the same sweep (gamma = 1).
	BP
)

// String implements fmt.Stringer.
func (m TRWMode) String() string {
	switch m {
	case TRWS:
		return "trws"
	case BP:
		return "bp"
	default:
		return "unknown"
	}
}

// Option customizes a strategy by mutating its config before first use.
// Option constructors panic on meaningless input; strategies never panic.
type Option func(*config)

type config struct {
	logger            *zap.Logger
	workers           int
	topologyCheck     bool
	maxConfigurations int
	eps               float64
	trwMode           TRWMode
}

func newConfig(opts []Option) config {
	c := config{
		logger:            zap.NewNop(),
		workers:           1,
		topologyCheck:     true,
		maxConfigurations: decode.DefaultMaxConfigurations,
		eps:               -1,
		trwMode:           TRWS,
	}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithLogger routes progress and warnings to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("infer: WithLogger(nil)")
	}
	return func(c *config) {
		c.logger = l
	}
}

// WithWorkers splits each synchronous sweep over n goroutines. Results do not
// depend on n. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("infer: WithWorkers(n<1)")
	}
	return func(c *config) {
		c.workers = n
	}
}

// WithTopologyCheck enables (default) or disables the chain/tree precondition
// check of Chain and Tree. Unchecked runs on other shapes return approximate
// marginals instead of an error.
func WithTopologyCheck(on bool) Option {
	return func(c *config) {
		c.topologyCheck = on
	}
}

// WithMaxConfigurations bounds exhaustive enumeration in Exact. Panics if n < 1.
func WithMaxConfigurations(n int) Option {
	if n < 1 {
		panic("infer: WithMaxConfigurations(n<1)")
	}
	return func(c *config) {
		c.maxConfigurations = n
	}
}

// WithEpsilon sets the TRW-S convergence threshold on the lower-bound gain.
// Negative values (default) disable the early stop.
func WithEpsilon(eps float64) Option {
	return func(c *config) {
		c.eps = eps
	}
}

// WithTRWMode selects TRWS (default) or BP for the TRW strategy.
// Panics on an unknown mode.
func WithTRWMode(m TRWMode) Option {
	if m != TRWS && m != BP {
		panic("infer: WithTRWMode(unknown)")
	}
	return func(c *config) {
		c.trwMode = m
	}
}
