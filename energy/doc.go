// Package energy minimises pairwise energies
//
//	E(x) = Σ_i D_i(x_i) + Σ_(i,j) V_ij(x_i, x_j)
//
// with sequential tree-reweighted message passing (TRW-S) or, as its
// degenerate case, ordinary min-sum belief propagation.
//
// Nodes are ordered by insertion. Every edge (i, j) must satisfy i < j, so it
// is "forward" for i and "backward" for j. Each node weights its updates by
// gamma = 1/max(#forward, #backward); this choice of monotonic chains keeps
// the lower bound valid. BP uses gamma = 1 and tracks no bound.
//
// One message is stored per edge. A forward sweep (low to high ids) pushes
// messages along forward edges, a backward sweep (high to low) pushes them
// along backward edges and accumulates the lower bound. The forward sweep
// does not touch the bound.
//
// Pairwise costs are either Potts(λ) (V = 0 on equal labels, λ otherwise;
// O(K) distance transform, no K² table) or General(v) with a dense row-major
// K×K table.
//
// Storage: node and edge records are values in slices addressed by integer
// handles; cost vectors, messages and K×K tables are bump-allocated from an
// arena of fixed-size []float64 blocks and freed together by Release.
//
// Construction seals on the first solve call; afterwards AddNode and AddEdge
// fail with ErrSealed. Engines are not safe for concurrent use.
package energy
