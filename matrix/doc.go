// Package matrix provides the dense row-major matrix used to store pairwise
// potentials and loss tables.
//
// A potential matrix of a directed edge (u→v) is an nStates×nStates Dense
// where row i is the state of u and column j is the state of v. The layout is
// a flat []float64 with offset i*cols + j, so inference kernels can operate on
// Raw() without bounds checks.
//
// Public indexers (At/Set) validate and return sentinel errors; they never panic.
//
// Complexity quicksheet:
//   - NewDense: O(r*c); At/Set: O(1); Clone, Transpose, Sqrt: O(r*c).
package matrix
