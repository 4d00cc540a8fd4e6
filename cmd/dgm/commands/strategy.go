package commands

import (
	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/infer"
	"go.uber.org/zap"
)

type strategyFn func(g graph.Pairwise, opts ...infer.Option) infer.Inferer

var strategies = map[string]strategyFn{
	"exact":   func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewExact(g, o...) },
	"chain":   func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewChain(g, o...) },
	"tree":    func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewTree(g, o...) },
	"lbp":     func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewLBP(g, o...) },
	"viterbi": func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewViterbi(g, o...) },
	"trw":     func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewTRW(g, o...) },
}

// newInferer binds the configured strategy to g.
func newInferer(c Config, g graph.Pairwise, logger *zap.Logger) infer.Inferer {
	mode := infer.TRWS
	if c.TRWMode == "bp" {
		mode = infer.BP
	}

	return strategies[c.Strategy](g,
		infer.WithLogger(logger),
		infer.WithWorkers(c.Workers),
		infer.WithEpsilon(c.Epsilon),
		infer.WithTRWMode(mode),
	)
}
