// Package builder assembles pairwise graphs from reusable topology
// constructors and potential generators, in the functional-options style.
//
// The package offers:
//
//   - Orchestration: BuildGraph(nStates, bopts, cons...) creates a
//     graph.Graph and applies constructors in order; Apply runs them
//     against an existing graph.
//   - Topologies (Constructor): Path, Cycle, Star, Complete, Grid,
//     RandomTree and RandomSparse. Every constructor appends fresh nodes, so
//     composing several yields their disjoint union.
//   - Potentials: NodePotentialFn / EdgePotentialFn generators (OnesNode,
//     OnesEdge, UniformNodeFn, UniformEdgeFn, PottsEdgeFn) selected with
//     WithNodePotentials and WithEdgePotentials. Edges are always arcs.
//   - Randomness: WithSeed or WithRand; nothing is random without them.
//
// Guarantees:
//
//   - Fast-fail on invalid option parameters via panics in option constructors.
//   - Sentinel errors (ErrTooFewVertices, ErrInvalidProbability,
//     ErrNeedRandSource, ErrConstructFailed) wrapped with the method name.
//   - Identical graphs for identical inputs, options, seed and constructor order.
package builder
