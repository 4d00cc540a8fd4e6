// SPDX-License-Identifier: MIT

// Package matrix - element-wise and structural operations on Dense.
//
// All operations allocate a new result and leave the input untouched.
// Deterministic loop order: rows outer, columns inner.

package matrix

import (
	"fmt"
	"math"
)

// Transpose returns mᵀ.
// Complexity: O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	out := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return out, nil
}

// Sqrt returns the element-wise square root of m.
// Negative entries yield ErrNegative.
// Complexity: O(r*c).
func Sqrt(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	out := m.Clone()
	for k, v := range out.data {
		if v < 0 {
			return nil, fmt.Errorf("Sqrt: entry %d=%g: %w", k, v, ErrNegative)
		}
		out.data[k] = math.Sqrt(v)
	}

	return out, nil
}

// CheckPotential verifies that m is square of order n and every entry is
// finite and non-negative.
// Complexity: O(n²).
func CheckPotential(m *Dense, n int) error {
	if m == nil {
		return ErrNilMatrix
	}
	if m.r != m.c {
		return ErrNonSquare
	}
	if m.r != n {
		return fmt.Errorf("CheckPotential: %dx%d, want %dx%d: %w", m.r, m.c, n, n, ErrDimensionMismatch)
	}
	for k, v := range m.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("CheckPotential: entry (%d,%d): %w", k/m.c, k%m.c, ErrNaNInf)
		}
		if v < 0 {
			return fmt.Errorf("CheckPotential: entry (%d,%d)=%g: %w", k/m.c, k%m.c, v, ErrNegative)
		}
	}

	return nil
}
