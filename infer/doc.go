// Package infer provides interchangeable inference strategies over a
// graph.Pairwise: marginal estimation (Infer) and most-probable-configuration
// extraction (Decode).
//
// Strategies:
//
//   - Exact: enumerates every configuration; reference for tiny graphs.
//   - Chain: exact two-pass sum-product on a path 0–1–…–n-1.
//   - Tree: exact sum-product on a spanning tree, leaves first.
//   - LBP: synchronous loopy belief propagation for any topology.
//   - Viterbi: max-product variant of LBP; Decode reads the final sweep.
//   - TRW: tree-reweighted message passing (TRW-S or BP) on an
//     energy.Engine built from -log potentials.
//
// Every strategy is bound to one graph at construction and rewrites node
// potentials in place. Infer is not idempotent: a second call starts from the
// marginals left by the first. Callers that need a fresh run rebuild or reset
// the potentials first.
//
// Messages live in two flat buffers of NumEdges·NumStates values. Chain and
// Tree update the current buffer in place; LBP and Viterbi compute the next
// buffer from the current one and flip. WithWorkers splits those synchronous
// sweeps over goroutines without changing the result.
//
// Numerics: beliefs multiply softly as (Epsilon+pot)·(Epsilon+msg) and are
// renormalised after each product, so only marginals (not the partition
// function) are meaningful. A message whose normaliser is ≤ Epsilon becomes
// uniform; a node whose belief sums to zero becomes uniform.
package infer
