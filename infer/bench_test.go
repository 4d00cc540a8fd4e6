package infer_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/dgm/builder"
	"github.com/katalvlaran/dgm/infer"
)

// BenchmarkLBP_Sweep measures ten synchronous sweeps on a 64×64 lattice with
// four states and random potentials, serially and with four workers.
// Complexity: O(iter·E·K²) per run.
func BenchmarkLBP_Sweep(b *testing.B) {
	const side, k = 64, 4
	opts := []builder.BuilderOption{
		builder.WithSeed(42),
		builder.WithNodePotentials(builder.UniformNodeFn(0.05, 1)),
		builder.WithEdgePotentials(builder.UniformEdgeFn(0.1, 2)),
	}
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			g, err := builder.BuildGraph(k, opts, builder.Grid(side, side))
			if err != nil {
				b.Fatalf("setup BuildGraph failed: %v", err)
			}
			lbp := infer.NewLBP(g, infer.WithWorkers(workers))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := lbp.Infer(10); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
