package decode

import (
	"fmt"
	"math"

	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultLossMatrix returns the n×n 0/1 loss: zeros on the diagonal, ones elsewhere.
func DefaultLossMatrix(n int) *matrix.Dense {
	m, err := matrix.NewFilled(n, n, 1)
	if err != nil {
		return nil
	}
	raw := m.Raw()
	for i := 0; i < n; i++ {
		raw[i*n+i] = 0
	}

	return m
}

// ValidateLossMatrix checks that loss is n×n with a zero diagonal and
// strictly positive, finite off-diagonal entries.
func ValidateLossMatrix(loss *matrix.Dense, n int) error {
	if loss == nil {
		return fmt.Errorf("nil loss matrix: %w", ErrBadLossMatrix)
	}
	if r, c := loss.Shape(); r != n || c != n {
		return fmt.Errorf("shape %dx%d, want %dx%d: %w", r, c, n, n, ErrBadLossMatrix)
	}
	raw := loss.Raw()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := raw[i*n+j]
			switch {
			case i == j && v != 0:
				return fmt.Errorf("L[%d,%d]=%g, want 0: %w", i, j, v, ErrBadLossMatrix)
			case i != j && !(v > 0 && !math.IsInf(v, 1)):
				return fmt.Errorf("L[%d,%d]=%g, want > 0: %w", i, j, v, ErrBadLossMatrix)
			}
		}
	}

	return nil
}

// FromMarginals returns one label per node from the current node potentials
// of g. Without a loss matrix (nil) the label is the argmax of the potential.
// With one, the label is argmin_i Σ_j L[i,j]·p[j]. Ties resolve to the lowest
// state index. A uniform 0/1 loss (zero diagonal, one shared off-diagonal
// value) ranks states exactly like the argmax and is decoded as such, so
// rounding in Σ_j L[i,j]·p[j] never flips its result.
// Complexity: O(V·nStates) without loss, O(V·nStates²) with it.
func FromMarginals(g graph.Pairwise, loss *matrix.Dense) ([]int, error) {
	k := g.NumStates()
	res := make([]int, g.NumNodes())
	if loss != nil {
		if err := ValidateLossMatrix(loss, k); err != nil {
			return nil, fmt.Errorf("FromMarginals: %w", err)
		}
		if isZeroOne(loss, k) {
			loss = nil
		}
	}
	if loss == nil {
		for id := range res {
			res[id] = floats.MaxIdx(g.NodePotential(id))
		}
		return res, nil
	}
	// mat.NewDense aliases the backing slice; L is only read.
	l := mat.NewDense(k, k, loss.Raw())
	cost := mat.NewVecDense(k, nil)
	for id := range res {
		p := mat.NewVecDense(k, g.NodePotential(id))
		cost.MulVec(l, p)
		res[id] = floats.MinIdx(cost.RawVector().Data)
	}

	return res, nil
}

// isZeroOne reports whether every off-diagonal entry of the validated n×n
// loss equals L[0,1]. The diagonal is already known to be zero.
func isZeroOne(loss *matrix.Dense, n int) bool {
	if n < 2 {
		return true
	}
	raw := loss.Raw()
	c := raw[1]
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && raw[i*n+j] != c {
				return false
			}
		}
	}

	return true
}
