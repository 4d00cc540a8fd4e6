package decode_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/dgm/decode"
	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// students builds the four-node binary chain used as a regression fixture:
// node potentials alternate (0.75,0.25) / (0.10,0.90), every arc is [[2,1],[1,2]].
func students(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.NewGraph(2)
	require.NoError(t, err)
	for _, pot := range [][]float64{{0.75, 0.25}, {0.10, 0.90}, {0.75, 0.25}, {0.10, 0.90}} {
		_, err = g.AddNode(pot)
		require.NoError(t, err)
	}
	arc, err := matrix.NewDenseFrom(2, 2, []float64{2, 1, 1, 2})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, g.AddArc(i, i+1, arc))
	}

	return g
}

// TestSetStateIncStateAgree walks the whole radix order both ways.
func TestSetStateIncStateAgree(t *testing.T) {
	const k, n = 3, 4
	walk := make([]int, n)
	direct := make([]int, n)
	for c := 0; c < 81; c++ {
		decode.SetState(direct, k, c)
		assert.Equal(t, direct, walk, "configuration %d", c)
		more := decode.IncState(walk, k)
		assert.Equal(t, c < 80, more)
	}
	assert.Equal(t, []int{0, 0, 0, 0}, walk, "wraps to zero")

	decode.SetState(direct, 2, 14)
	assert.Equal(t, []int{0, 1, 1, 1}, direct, "node 0 is the least significant digit")
}

// TestNumConfigurations checks the overflow-safe power and the limit.
func TestNumConfigurations(t *testing.T) {
	n, err := decode.NumConfigurations(3, 4, 100)
	require.NoError(t, err)
	assert.Equal(t, 81, n)
	_, err = decode.NumConfigurations(3, 5, 100)
	assert.ErrorIs(t, err, decode.ErrTooManyConfigurations)
	assert.ErrorIs(t, err, graph.ErrConfiguration)
	_, err = decode.NumConfigurations(255, 1000, decode.DefaultMaxConfigurations)
	assert.ErrorIs(t, err, decode.ErrTooManyConfigurations)
	n, err = decode.NumConfigurations(2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// TestExact_StudentsDecode is a regression value: the MAP configuration of the
// four-students chain.
func TestExact_StudentsDecode(t *testing.T) {
	g := students(t)
	x := decode.NewExact(g, decode.DefaultExactOptions())

	state, err := x.Decode()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 1}, state)

	p, err := x.Potentials()
	require.NoError(t, err)
	require.Len(t, p, 16)
	assert.InDelta(t, 0.6075, p[14], 1e-9)
	assert.InDelta(t, 0.6075, decode.Score(g, state), 1e-9)
}

// TestExact_TooLarge fails instead of allocating.
func TestExact_TooLarge(t *testing.T) {
	g, err := graph.NewGraph(4)
	require.NoError(t, err)
	g.AddNodes(12)
	_, err = decode.NewExact(g, decode.ExactOptions{MaxConfigurations: 1 << 20}).Decode()
	assert.ErrorIs(t, err, decode.ErrTooManyConfigurations)
}

// TestFromMarginals_StudentsRegression decodes the exact marginals of the
// four-students chain; the per-node argmax differs from the joint MAP.
func TestFromMarginals_StudentsRegression(t *testing.T) {
	g := students(t)
	p, err := decode.NewExact(g, decode.DefaultExactOptions()).Potentials()
	require.NoError(t, err)

	marg := make([][]float64, g.NumNodes())
	for i := range marg {
		marg[i] = make([]float64, 2)
	}
	state := make([]int, g.NumNodes())
	for _, v := range p {
		for i, s := range state {
			marg[i][s] += v
		}
		decode.IncState(state, 2)
	}
	for i, m := range marg {
		require.NoError(t, g.SetNode(i, m))
	}

	labels, err := decode.FromMarginals(g, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1}, labels)
}

// TestFromMarginals_DefaultLossIsNoLoss holds for arbitrary potentials.
func TestFromMarginals_DefaultLossIsNoLoss(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for k := 2; k <= 8; k++ {
		g, err := graph.NewGraph(k)
		require.NoError(t, err)
		for i := 0; i < 50; i++ {
			pot := make([]float64, k)
			for s := range pot {
				pot[s] = rng.Float64()
			}
			_, err = g.AddNode(pot)
			require.NoError(t, err)
		}
		plain, err := decode.FromMarginals(g, nil)
		require.NoError(t, err)
		lossy, err := decode.FromMarginals(g, decode.DefaultLossMatrix(k))
		require.NoError(t, err)
		assert.Equal(t, plain, lossy, "nStates=%d", k)
	}
}

// TestFromMarginals_ZeroOneLossNearTie keeps the argmax when the expected
// losses of the two best states round to the same value.
func TestFromMarginals_ZeroOneLossNearTie(t *testing.T) {
	g, err := graph.NewGraph(3)
	require.NoError(t, err)
	_, err = g.AddNode([]float64{1 - 0x1p-53, 1, 1})
	require.NoError(t, err)

	plain, err := decode.FromMarginals(g, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, plain)

	lossy, err := decode.FromMarginals(g, decode.DefaultLossMatrix(3))
	require.NoError(t, err)
	assert.Equal(t, plain, lossy)

	// a scaled 0/1 loss ranks states the same way
	scaled, err := matrix.NewDenseFrom(3, 3, []float64{0, 5, 5, 5, 0, 5, 5, 5, 0})
	require.NoError(t, err)
	lossy, err = decode.FromMarginals(g, scaled)
	require.NoError(t, err)
	assert.Equal(t, plain, lossy)
}

// TestFromMarginals_AsymmetricLoss shows a costly false positive flipping the label.
func TestFromMarginals_AsymmetricLoss(t *testing.T) {
	g, err := graph.NewGraph(2)
	require.NoError(t, err)
	_, err = g.AddNode([]float64{0.3, 0.7})
	require.NoError(t, err)

	labels, err := decode.FromMarginals(g, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, labels)

	loss, err := matrix.NewDenseFrom(2, 2, []float64{0, 1, 10, 0})
	require.NoError(t, err)
	labels, err = decode.FromMarginals(g, loss)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, labels)
}

// TestValidateLossMatrix rejects malformed loss matrices.
func TestValidateLossMatrix(t *testing.T) {
	assert.NoError(t, decode.ValidateLossMatrix(decode.DefaultLossMatrix(3), 3))
	assert.ErrorIs(t, decode.ValidateLossMatrix(nil, 3), decode.ErrBadLossMatrix)
	assert.ErrorIs(t, decode.ValidateLossMatrix(decode.DefaultLossMatrix(2), 3), decode.ErrBadLossMatrix)

	diag, _ := matrix.NewDenseFrom(2, 2, []float64{1, 1, 1, 0})
	assert.ErrorIs(t, decode.ValidateLossMatrix(diag, 2), decode.ErrBadLossMatrix)
	zeroOff, _ := matrix.NewDenseFrom(2, 2, []float64{0, 0, 1, 0})
	assert.ErrorIs(t, decode.ValidateLossMatrix(zeroOff, 2), decode.ErrBadLossMatrix)

	g, _ := graph.NewGraph(2)
	g.AddNodes(1)
	_, err := decode.FromMarginals(g, diag)
	assert.ErrorIs(t, err, decode.ErrBadLossMatrix)
}

// TestFromMarginals_TiesPickLowestState keeps decoding deterministic.
func TestFromMarginals_TiesPickLowestState(t *testing.T) {
	g, _ := graph.NewGraph(3)
	_, err := g.AddNode([]float64{0.2, 0.4, 0.4})
	require.NoError(t, err)
	labels, err := decode.FromMarginals(g, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, labels)
}
