// Package gridgraph provides a fixed-shape pairwise lattice for image-like
// CRFs, the dense counterpart of graph.Graph.
//
// What:
//
//   - Lattice is a Width×Height grid of nodes; every pair of neighbouring
//     cells is joined by an arc (two directed edges).
//   - Node ids are row-major (y*Width + x); edge handles are dense and the
//     adjacency is precomputed once in CSR form.
//   - Potentials live in two flat []float64 buffers, so message passing over
//     a lattice touches contiguous memory.
//   - FromLabels turns an observed label image into node evidence, and
//     Regions groups equally-labelled neighbours after decoding.
//
// Why:
//
//   - Image denoising and segmentation with Potts smoothness terms.
//   - Benchmarks of loopy inference on a regular topology.
//
// Edge groups:
//
//   - GroupHorizontal (0), GroupVertical (1), GroupDiagonal (2, Conn8 only).
//     SetEdges / SetArcs update one group at a time.
//
// Complexity:
//
//   - NewLattice:  O(W×H×d×nStates²) time and memory (d = 4 or 8).
//   - Regions:     O(W×H×d), Memory: O(W×H).
//   - Edge lookup: O(d).
//
// Errors:
//
//   - ErrEmptyGrid: lattice has no rows or no columns.
//   - ErrNonRectangular: label rows have differing lengths.
//   - ErrLabelOutOfRange: observed label outside [0, nStates).
//   - graph.ErrFixedTopology: AddNode, AddEdge, AddArc and RemoveEdge always fail.
package gridgraph
