// Package decode turns a pairwise graph into a single label per node.
//
// Two decoders are provided:
//
//   - Exact enumerates all nStates^nNodes joint configurations, scores each by
//     the product of node and edge potentials, and returns the best one. It is
//     the reference for every approximate strategy and is only usable on tiny
//     graphs (see ExactOptions.MaxConfigurations).
//   - FromMarginals picks, per node, the argmax of its potential vector, or
//     with a loss matrix L the state i minimising Σ_j L[i,j]·p[j].
//
// Configurations are numbered in a fixed radix order where node 0 is the least
// significant digit; SetState and IncState walk that order and must stay in
// step with each other.
//
// Loss matrices are nStates×nStates with a zero diagonal and strictly positive
// off-diagonal entries; L[i,j] is the cost of predicting i when the truth is j.
// DefaultLossMatrix (0/1 loss) yields the same labels as no loss matrix.
//
// Ties resolve to the lowest state index (argmax) and to the lowest
// configuration number (Exact).
package decode
