// Package dgm is an in-memory engine for pairwise graphical models (CRF/MRF):
// a graph of per-node and per-edge potentials plus interchangeable algorithms
// for marginal estimation (infer) and most-probable-configuration extraction
// (decode).
//
// Everything is organised in flat subpackages:
//
//	matrix/    row-major Dense potential matrices
//	graph/     Pairwise interface, sparse Graph, chain/tree/connectivity checks
//	gridgraph/ dense Lattice with implicit 4/8 connectivity and label helpers
//	decode/    Exact enumeration and decode-from-marginals with loss matrices
//	infer/     Exact, Chain, Tree, LBP, Viterbi and TRW strategies
//	energy/    TRW-S / BP energy minimisation over Potts or general costs
//	builder/   deterministic topology and potential constructors
//	cmd/dgm/   demo CLI (four students, lattice denoising)
//
// Quick example, the four-students chain:
//
//	g, _ := graph.NewGraph(2)
//	for _, p := range [][]float64{{.75, .25}, {.1, .9}, {.75, .25}, {.1, .9}} {
//		g.AddNode(p)
//	}
//	arc, _ := matrix.NewDenseFrom(2, 2, []float64{2, 1, 1, 2})
//	for i := 0; i < 3; i++ {
//		g.AddArc(i, i+1, arc)
//	}
//	labels, _ := infer.NewChain(g).Decode(1, nil) // [0 1 0 1]
//
// Inference rewrites node potentials in place. Build a fresh graph (or reset
// its potentials) before running a second strategy on the same inputs.
package dgm
