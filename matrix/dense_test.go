package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/dgm/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDense_InvalidDimensions verifies shape validation.
func TestNewDense_InvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewDense(2, -1)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestDense_AtSet covers round trips and out-of-range access.
func TestDense_AtSet(t *testing.T) {
	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	require.NoError(t, m.Set(1, 2, 7.5))

	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)
	assert.Equal(t, 7.5, m.Raw()[5], "row-major offset 1*3+2")

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 3, 1), matrix.ErrOutOfRange)
}

// TestNewDenseFrom_LengthMismatch rejects data of the wrong length.
func TestNewDenseFrom_LengthMismatch(t *testing.T) {
	_, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestDense_CloneIsIndependent ensures Clone deep-copies.
func TestDense_CloneIsIndependent(t *testing.T) {
	m, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9))

	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v)
}

// TestTransposeAndSqrt checks the arc-emulation primitives.
func TestTransposeAndSqrt(t *testing.T) {
	m, err := matrix.NewDenseFrom(2, 3, []float64{1, 4, 9, 16, 25, 36})
	require.NoError(t, err)

	tr, err := matrix.Transpose(m)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, []float64{1, 16, 4, 25, 9, 36}, tr.Raw())

	sq, err := matrix.Sqrt(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, sq.Raw())

	neg, _ := matrix.NewDenseFrom(1, 1, []float64{-1})
	_, err = matrix.Sqrt(neg)
	assert.ErrorIs(t, err, matrix.ErrNegative)
}

// TestCheckPotential covers each rejection class.
func TestCheckPotential(t *testing.T) {
	ok, _ := matrix.NewFilled(3, 3, 1)
	assert.NoError(t, matrix.CheckPotential(ok, 3))
	assert.ErrorIs(t, matrix.CheckPotential(ok, 2), matrix.ErrDimensionMismatch)
	assert.ErrorIs(t, matrix.CheckPotential(nil, 2), matrix.ErrNilMatrix)

	rect, _ := matrix.NewDense(2, 3)
	assert.ErrorIs(t, matrix.CheckPotential(rect, 2), matrix.ErrNonSquare)

	bad, _ := matrix.NewFilled(2, 2, 1)
	_ = bad.Set(1, 0, math.NaN())
	assert.ErrorIs(t, matrix.CheckPotential(bad, 2), matrix.ErrNaNInf)
	_ = bad.Set(1, 0, -0.5)
	assert.ErrorIs(t, matrix.CheckPotential(bad, 2), matrix.ErrNegative)
}

// TestDense_String prints one bracketed row per line.
func TestDense_String(t *testing.T) {
	m, _ := matrix.NewDenseFrom(2, 2, []float64{2, 1, 1, 2})
	assert.Equal(t, "[2, 1]\n[1, 2]\n", m.String())
}
