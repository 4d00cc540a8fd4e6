// Package graph stores pairwise graphical models (CRF/MRF).
//
// A model over nStates states is a set of nodes, each holding a potential
// vector of length nStates, and directed edges, each holding an
// nStates×nStates potential matrix (row = source state, column = destination
// state). Undirected dependencies are arcs: two directed edges whose
// potentials are sqrt(pot) and sqrt(pot)ᵀ.
//
// Two stores implement the Pairwise interface:
//
//   - Graph (this package): adjacency lists with edges owned centrally in one
//     slice and nodes holding integer edge handles.
//   - gridgraph.Lattice: a fixed W×H lattice with flat potential storage.
//
// Errors:
//
//	ErrConfiguration      - class of every input-validation error below.
//	ErrStatesOutOfRange   - nStates outside [MinStates, MaxStates].
//	ErrDimensionMismatch  - potential size does not match nStates.
//	ErrInvalidPotential   - negative, NaN or Inf entry.
//	ErrNodeOutOfRange     - id does not reference a live node.
//	ErrDuplicateEdge      - ordered pair already linked.
//	ErrSelfLoop           - src == dst.
//	ErrEdgeNotFound       - no such edge.
//	ErrFixedTopology      - structural mutation of a fixed-shape store.
//	ErrTopology           - class of ErrNotChain / ErrNotTree.
//
// Concurrency: no internal locking. One writer at a time; inference
// strategies mutate node potentials in place, so two live strategies must not
// share a graph concurrently.
package graph
