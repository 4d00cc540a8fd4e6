package infer_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/katalvlaran/dgm/decode"
	"github.com/katalvlaran/dgm/graph"
	"github.com/katalvlaran/dgm/infer"
	"github.com/katalvlaran/dgm/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const tol = 1e-5

// students builds the four-node binary chain used as a regression fixture.
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

// randomGraph adds n nodes with random positive potentials and one random arc
// per pair returned by pairs.
func randomGraph(t *testing.T, rng *rand.Rand, k, n int, pairs [][2]int) *graph.Graph {
	t.Helper()
	g, err := graph.NewGraph(k)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		pot := make([]float64, k)
		for s := range pot {
			pot[s] = 0.05 + rng.Float64()
		}
		_, err = g.AddNode(pot)
		require.NoError(t, err)
	}
	for _, p := range pairs {
		vals := make([]float64, k*k)
		for i := range vals {
			vals[i] = 0.1 + 2*rng.Float64()
		}
		arc, err := matrix.NewDenseFrom(k, k, vals)
		require.NoError(t, err)
		require.NoError(t, g.AddArc(p[0], p[1], arc))
	}

	return g
}

func pathPairs(n int) [][2]int {
	var out [][2]int
	for i := 0; i+1 < n; i++ {
		out = append(out, [2]int{i, i + 1})
	}
	return out
}

// treePairs joins every node i > 0 to a random earlier node.
func treePairs(rng *rand.Rand, n int) [][2]int {
	var out [][2]int
	for i := 1; i < n; i++ {
		out = append(out, [2]int{rng.Intn(i), i})
	}
	return out
}

// gridPairs joins a w×h lattice with 4-connectivity (row-major ids).
func gridPairs(w, h int) [][2]int {
	var out [][2]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := y*w + x
			if x+1 < w {
				out = append(out, [2]int{id, id + 1})
			}
			if y+1 < h {
				out = append(out, [2]int{id, id + w})
			}
		}
	}
	return out
}

// marginals snapshots every node potential.
func marginals(g graph.Pairwise) [][]float64 {
	out := make([][]float64, g.NumNodes())
	for id := range out {
		out[id] = append([]float64(nil), g.NodePotential(id)...)
	}
	return out
}

// clone rebuilds g so that two strategies can run on identical inputs.
func clone(t *testing.T, g *graph.Graph) *graph.Graph {
	t.Helper()
	c, err := graph.NewGraph(g.NumStates())
	require.NoError(t, err)
	for id := 0; id < g.NumNodes(); id++ {
		_, err = c.AddNode(g.NodePotential(id))
		require.NoError(t, err)
	}
	for e := 0; e < g.NumEdges(); e++ {
		src, dst := g.EdgeEnds(e)
		pot, err := g.Edge(src, dst)
		require.NoError(t, err)
		require.NoError(t, c.AddEdge(src, dst, pot))
	}

	return c
}

func exactMarginals(t *testing.T, g *graph.Graph) [][]float64 {
	t.Helper()
	c := clone(t, g)
	require.NoError(t, infer.NewExact(c).Infer(0))
	return marginals(c)
}

func approx(want, got [][]float64) bool {
	return cmp.Equal(want, got, cmpopts.EquateApprox(0, tol))
}

// TestExact_StudentsMarginals pins the true marginals of the fixture.
func TestExact_StudentsMarginals(t *testing.T) {
	g := students(t)
	require.NoError(t, infer.NewExact(g).Infer(0))
	want := [][]float64{
		{0.640369, 0.359631},
		{0.156992, 0.843008},
		{0.513720, 0.486280},
		{0.118997, 0.881003},
	}
	got := marginals(g)
	for id := range want {
		assert.InDeltaSlice(t, want[id], got[id], 1e-4, "node %d", id)
	}
}

// TestDecode_StudentsRegression pins both regression sequences: exhaustive MAP
// and argmax of the exact marginals differ on purpose.
func TestDecode_StudentsRegression(t *testing.T) {
	g := students(t)
	state, err := decode.NewExact(g, decode.DefaultExactOptions()).Decode()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 1}, state)

	require.NoError(t, infer.NewExact(g).Infer(0))
	labels, err := infer.NewViterbi(g).Decode(0, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1}, labels)

	labels, err = infer.NewExact(students(t)).Decode(1, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1}, labels)
}

// TestStudents_AllSumProductAgree runs every sum-product strategy on the fixture.
func TestStudents_AllSumProductAgree(t *testing.T) {
	want := exactMarginals(t, students(t))
	for name, s := range map[string]func(graph.Pairwise) infer.Inferer{
		"chain": func(g graph.Pairwise) infer.Inferer { return infer.NewChain(g) },
		"tree":  func(g graph.Pairwise) infer.Inferer { return infer.NewTree(g) },
		"lbp":   func(g graph.Pairwise) infer.Inferer { return infer.NewLBP(g) },
	} {
		t.Run(name, func(t *testing.T) {
			g := students(t)
			require.NoError(t, s(g).Infer(10))
			got := marginals(g)
			assert.True(t, approx(want, got), cmp.Diff(want, got))
		})
	}
}

// TestChain_MatchesExact covers K = 2..8 on random chains.
func TestChain_MatchesExact(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for k := 2; k <= 8; k++ {
		g := randomGraph(t, rng, k, 5, pathPairs(5))
		want := exactMarginals(t, g)

		c := clone(t, g)
		require.NoError(t, infer.NewChain(c).Infer(1))
		assert.True(t, approx(want, marginals(c)), "k=%d chain: %s", k, cmp.Diff(want, marginals(c)))

		l := clone(t, g)
		require.NoError(t, infer.NewLBP(l).Infer(10))
		assert.True(t, approx(want, marginals(l)), "k=%d lbp: %s", k, cmp.Diff(want, marginals(l)))
	}
}

// TestTree_MatchesExact covers random trees, including stars and paths.
func TestTree_MatchesExact(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for k := 2; k <= 8; k++ {
		for trial := 0; trial < 3; trial++ {
			g := randomGraph(t, rng, k, 6, treePairs(rng, 6))
			want := exactMarginals(t, g)

			c := clone(t, g)
			require.NoError(t, infer.NewTree(c).Infer(1))
			assert.True(t, approx(want, marginals(c)), "k=%d tree: %s", k, cmp.Diff(want, marginals(c)))

			l := clone(t, g)
			require.NoError(t, infer.NewLBP(l, infer.WithWorkers(2)).Infer(10))
			assert.True(t, approx(want, marginals(l)), "k=%d lbp: %s", k, cmp.Diff(want, marginals(l)))
		}
	}
}

// TestTree_OnPathEqualsChain checks that Tree degenerates to Chain.
func TestTree_OnPathEqualsChain(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := randomGraph(t, rng, 4, 7, pathPairs(7))
	c, tr := clone(t, g), clone(t, g)
	require.NoError(t, infer.NewChain(c).Infer(0))
	require.NoError(t, infer.NewTree(tr).Infer(0))
	assert.True(t, cmp.Equal(marginals(c), marginals(tr), cmpopts.EquateApprox(0, 1e-12)))
}

// TestTopologyErrors checks the Chain and Tree preconditions.
func TestTopologyErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	star := randomGraph(t, rng, 2, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}})
	err := infer.NewChain(star).Infer(1)
	assert.ErrorIs(t, err, graph.ErrNotChain)
	assert.ErrorIs(t, err, graph.ErrTopology)
	require.NoError(t, infer.NewTree(star).Infer(1))

	cycle := randomGraph(t, rng, 2, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	err = infer.NewTree(cycle).Infer(1)
	assert.ErrorIs(t, err, graph.ErrNotTree)
	assert.ErrorIs(t, err, graph.ErrTopology)

	// unchecked runs still produce normalised potentials
	require.NoError(t, infer.NewChain(cycle, infer.WithTopologyCheck(false)).Infer(1))
	for id, pot := range marginals(cycle) {
		assert.InDelta(t, 1, pot[0]+pot[1], 1e-12, "node %d", id)
	}
}

// TestLBP_WorkersDeterministic checks that the result does not depend on the
// worker count and that repeated runs on equal inputs agree bit for bit.
func TestLBP_WorkersDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	g := randomGraph(t, rng, 3, 20, gridPairs(5, 4))

	var runs [][][]float64
	for _, w := range []int{1, 1, 3, 4} {
		c := clone(t, g)
		require.NoError(t, infer.NewLBP(c, infer.WithWorkers(w)).Infer(15))
		runs = append(runs, marginals(c))
	}
	for i := 1; i < len(runs); i++ {
		assert.True(t, cmp.Equal(runs[0], runs[i]), "run %d: %s", i, cmp.Diff(runs[0], runs[i]))
	}
}

// TestLBP_LoopyCloseToExact is a sanity check on a small grid with weak couplings.
func TestLBP_LoopyCloseToExact(t *testing.T) {
	g, err := graph.NewGraph(2)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 9; i++ {
		p := 0.2 + 0.6*rng.Float64()
		_, err = g.AddNode([]float64{p, 1 - p})
		require.NoError(t, err)
	}
	weak, err := matrix.NewDenseFrom(2, 2, []float64{1.1, 1, 1, 1.1})
	require.NoError(t, err)
	for _, p := range gridPairs(3, 3) {
		require.NoError(t, g.AddArc(p[0], p[1], weak))
	}
	want := exactMarginals(t, g)
	require.NoError(t, infer.NewLBP(g).Infer(30))
	got := marginals(g)
	assert.True(t, cmp.Equal(want, got, cmpopts.EquateApprox(0, 1e-2)), cmp.Diff(want, got))
}

// TestViterbi_StudentsMAP decodes the fixture by max-product.
func TestViterbi_StudentsMAP(t *testing.T) {
	g := students(t)
	v := infer.NewViterbi(g)
	labels, err := v.Decode(10, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 1}, labels)

	want := [][]float64{{0.6, 0.4}, {0.25, 0.75}, {3.0 / 7, 4.0 / 7}, {1.0 / 7, 6.0 / 7}}
	assert.True(t, approx(want, marginals(g)), cmp.Diff(want, marginals(g)))
}

// TestViterbi_MatchesExactMAP compares with enumeration on random trees.
func TestViterbi_MatchesExactMAP(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 5; trial++ {
		g := randomGraph(t, rng, 3, 6, treePairs(rng, 6))
		want, err := decode.NewExact(g, decode.DefaultExactOptions()).Decode()
		require.NoError(t, err)
		got, err := infer.NewViterbi(g, infer.WithWorkers(2)).Decode(10, nil)
		require.NoError(t, err)
		assert.Equal(t, want, got, "trial %d", trial)
	}
}

// TestViterbi_IgnoresLoss checks the warning and that the labels are unchanged.
func TestViterbi_IgnoresLoss(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	g := students(t)
	loss, err := matrix.NewDenseFrom(2, 2, []float64{0, 100, 1, 0})
	require.NoError(t, err)
	labels, err := infer.NewViterbi(g, infer.WithLogger(zap.New(core))).Decode(10, loss)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 1}, labels)
	assert.Equal(t, 1, logs.FilterMessage("viterbi decode ignores the loss matrix").Len())
}

// TestDecode_DefaultLossEqualsNone holds for every strategy that decodes
// through marginals.
func TestDecode_DefaultLossEqualsNone(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for k := 2; k <= 6; k++ {
		g := randomGraph(t, rng, k, 6, gridPairs(3, 2))
		a, b := clone(t, g), clone(t, g)
		plain, err := infer.NewLBP(a).Decode(8, nil)
		require.NoError(t, err)
		lossy, err := infer.NewLBP(b).Decode(8, decode.DefaultLossMatrix(k))
		require.NoError(t, err)
		assert.Equal(t, plain, lossy, "k=%d", k)
	}
}

// TestTRW_StudentsExact checks that TRW-S is exact on a chain.
func TestTRW_StudentsExact(t *testing.T) {
	g := students(t)
	trw := infer.NewTRW(g)
	labels, err := trw.Decode(10, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 1}, labels)
	assert.InDelta(t, 0.498403, trw.Energy(), 1e-5)

	lbs := trw.LowerBounds()
	require.NotEmpty(t, lbs)
	assert.InDelta(t, trw.Energy(), lbs[len(lbs)-1], 1e-6)

	// normalised exp(-min-marginal) equals the max-marginals
	want := [][]float64{{0.6, 0.4}, {0.25, 0.75}, {3.0 / 7, 4.0 / 7}, {1.0 / 7, 6.0 / 7}}
	assert.True(t, approx(want, marginals(g)), cmp.Diff(want, marginals(g)))
}

// TestTRW_LowerBoundMonotone runs TRW-S on a loopy grid.
func TestTRW_LowerBoundMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	g := randomGraph(t, rng, 3, 16, gridPairs(4, 4))
	trw := infer.NewTRW(g)
	require.NoError(t, trw.Infer(30))
	lbs := trw.LowerBounds()
	require.Len(t, lbs, 30)
	for i := 1; i < len(lbs); i++ {
		assert.GreaterOrEqual(t, lbs[i], lbs[i-1]-1e-9, "iteration %d", i)
	}
	assert.LessOrEqual(t, lbs[len(lbs)-1], trw.Energy()+1e-9)
}

// TestTRW_ModesOnChain compares TRW-S and BP on a chain, where both are exact.
func TestTRW_ModesOnChain(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	g := randomGraph(t, rng, 4, 6, pathPairs(6))
	want, err := decode.NewExact(g, decode.DefaultExactOptions()).Decode()
	require.NoError(t, err)

	for _, mode := range []infer.TRWMode{infer.TRWS, infer.BP} {
		got, err := infer.NewTRW(clone(t, g), infer.WithTRWMode(mode)).Decode(10, nil)
		require.NoError(t, err)
		assert.Equal(t, want, got, mode.String())
	}
	bp := infer.NewTRW(clone(t, g), infer.WithTRWMode(infer.BP))
	require.NoError(t, bp.Infer(5))
	assert.Empty(t, bp.LowerBounds())
}

// TestTRW_EpsilonStopsEarly checks the convergence threshold.
func TestTRW_EpsilonStopsEarly(t *testing.T) {
	g := students(t)
	trw := infer.NewTRW(g, infer.WithEpsilon(1e-9))
	require.NoError(t, trw.Infer(1000))
	assert.Less(t, len(trw.LowerBounds()), 10)
}

// TestTRW_NoOpAndFallback checks Infer(0) and Decode before Infer.
func TestTRW_NoOpAndFallback(t *testing.T) {
	g := students(t)
	before := marginals(g)
	trw := infer.NewTRW(g)
	require.NoError(t, trw.Infer(0))
	assert.Equal(t, before, marginals(g))

	labels, err := trw.Decode(0, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1}, labels)
}

// degenerate builds a three-state chain whose first two nodes have all-zero
// potentials and whose first arc is all zeros.
func degenerate(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.NewGraph(3)
	require.NoError(t, err)
	for _, pot := range [][]float64{{0, 0, 0}, {0, 0, 0}, {1, 2, 3}} {
		_, err = g.AddNode(pot)
		require.NoError(t, err)
	}
	zero, err := matrix.NewFilled(3, 3, 0)
	require.NoError(t, err)
	require.NoError(t, g.AddArc(0, 1, zero))
	require.NoError(t, g.AddArc(1, 2, nil))

	return g
}

// TestZeroPotentials_NoNaN runs every strategy on all-zero candidates: every
// resulting marginal is a finite distribution and decoding still succeeds.
func TestZeroPotentials_NoNaN(t *testing.T) {
	tests := []struct {
		name  string
		build func(graph.Pairwise, ...infer.Option) infer.Inferer
		last  []float64 // pinned marginal of node 2, nil to skip
	}{
		{"exact", func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewExact(g, o...) }, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}},
		{"chain", func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewChain(g, o...) }, []float64{1.0 / 6, 1.0 / 3, 0.5}},
		{"tree", func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewTree(g, o...) }, []float64{1.0 / 6, 1.0 / 3, 0.5}},
		{"lbp", func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewLBP(g, o...) }, []float64{1.0 / 6, 1.0 / 3, 0.5}},
		{"viterbi", func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewViterbi(g, o...) }, []float64{1.0 / 6, 1.0 / 3, 0.5}},
		{"trw", func(g graph.Pairwise, o ...infer.Option) infer.Inferer { return infer.NewTRW(g, o...) }, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			g := degenerate(t)
			inf := tc.build(g, infer.WithLogger(zap.New(core)))
			require.NoError(t, inf.Infer(10))
			for id, pot := range marginals(g) {
				var sum float64
				for s, v := range pot {
					assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "node %d state %d = %v", id, s, v)
					assert.GreaterOrEqual(t, v, 0.0)
					sum += v
				}
				assert.InDelta(t, 1, sum, 1e-9, "node %d", id)
			}
			if tc.last != nil {
				assert.InDeltaSlice(t, tc.last, g.NodePotential(2), tol)
			}
			labels, err := inf.Decode(0, nil)
			require.NoError(t, err)
			assert.Len(t, labels, 3)

			zeroZ := logs.FilterMessageSnippet("zero partition function").Len()
			if tc.name == "exact" {
				assert.Equal(t, 1, zeroZ)
			} else {
				assert.Zero(t, zeroZ)
			}
		})
	}
}

// TestConfidenceAndPotentials reads the fixture potentials back.
func TestConfidenceAndPotentials(t *testing.T) {
	g := students(t)
	x := infer.NewExact(g)
	conf, err := x.Confidence()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.0 / 3, 8.0 / 9, 2.0 / 3, 8.0 / 9}, conf, 1e-12)

	p1, err := x.Potentials(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.90, 0.25, 0.90}, p1)

	_, err = x.Potentials(2)
	assert.ErrorIs(t, err, infer.ErrStateOutOfRange)
	assert.ErrorIs(t, err, graph.ErrConfiguration)

	g2, err := graph.NewGraph(3)
	require.NoError(t, err)
	_, err = g2.AddNode([]float64{0, 0, 0})
	require.NoError(t, err)
	_, err = g2.AddNode([]float64{0.5, 0.5, 0})
	require.NoError(t, err)
	conf, err = infer.NewLBP(g2).Confidence()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, conf)
}

// TestArgumentErrors covers the shared validation.
func TestArgumentErrors(t *testing.T) {
	g := students(t)
	for name, s := range map[string]infer.Inferer{
		"exact":   infer.NewExact(g),
		"chain":   infer.NewChain(g),
		"tree":    infer.NewTree(g),
		"lbp":     infer.NewLBP(g),
		"viterbi": infer.NewViterbi(g),
		"trw":     infer.NewTRW(g),
	} {
		assert.ErrorIs(t, s.Infer(-1), infer.ErrNegativeIterations, name)
		_, err := s.Decode(-1, nil)
		assert.ErrorIs(t, err, infer.ErrNegativeIterations, name)
	}
	assert.ErrorIs(t, infer.NewLBP(nil).Infer(1), infer.ErrNilGraph)
	_, err := infer.NewLBP(nil).Confidence()
	assert.ErrorIs(t, err, infer.ErrNilGraph)

	big := randomGraph(t, rand.New(rand.NewSource(11)), 4, 12, pathPairs(12))
	err = infer.NewExact(big, infer.WithMaxConfigurations(1000)).Infer(0)
	assert.ErrorIs(t, err, decode.ErrTooManyConfigurations)

	ones, err := matrix.NewFilled(2, 2, 1)
	require.NoError(t, err)
	_, err = infer.NewLBP(g).Decode(1, ones)
	assert.ErrorIs(t, err, decode.ErrBadLossMatrix)
}

// TestOptionPanics covers the option constructors.
func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { infer.WithLogger(nil) })
	assert.Panics(t, func() { infer.WithWorkers(0) })
	assert.Panics(t, func() { infer.WithMaxConfigurations(0) })
	assert.Panics(t, func() { infer.WithTRWMode(infer.TRWMode(7)) })
	assert.Equal(t, "unknown", infer.TRWMode(7).String())
}

// TestLBP_ProgressLogging checks the sweep log cadence.
func TestLBP_ProgressLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g := students(t)
	require.NoError(t, infer.NewLBP(g, infer.WithLogger(zap.New(core))).Infer(12))
	assert.Equal(t, 3, logs.FilterMessage("sweep").Len()) // iterations 0, 5, 10
}
