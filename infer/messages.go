package infer

import (
	"github.com/katalvlaran/dgm/graph"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// messages owns the two same-shaped message buffers of a message-passing
// strategy. Edge e's message occupies [e·K, (e+1)·K) of each buffer. Parity
// selects the buffer that holds the current messages; synchronous schedules
// write the other one and flip parity instead of copying.
type messages struct {
	g       graph.Pairwise
	k       int
	workers int
	buf     [2][]float64
	parity  int
}

// reset (re)allocates both buffers for the current graph shape and fills them
// with the uniform message 1/K.
func (m *messages) reset(g graph.Pairwise, workers int) {
	m.g, m.k, m.workers = g, g.NumStates(), workers
	size := g.NumEdges() * m.k
	for i := range m.buf {
		if cap(m.buf[i]) < size {
			m.buf[i] = make([]float64, size)
		}
		m.buf[i] = m.buf[i][:size]
		for j := range m.buf[i] {
			m.buf[i][j] = 1 / float64(m.k)
		}
	}
	m.parity = 0
}

func (m *messages) current() []float64 { return m.buf[m.parity] }
func (m *messages) next() []float64    { return m.buf[1-m.parity] }
func (m *messages) swap()              { m.parity ^= 1 }

// at returns edge e's message inside buffer b.
func (m *messages) at(b []float64, e int) []float64 {
	return b[e*m.k : (e+1)*m.k : (e+1)*m.k]
}

// send computes the message along e = src→dst into out. It multiplies the
// potential of src by every message entering src from b, except the one
// coming back from dst, pushes the product through the squared edge
// potential and normalises. A normaliser ≤ Epsilon yields the uniform message.
func (m *messages) send(e int, b, out, temp []float64, maxSum bool) {
	src, dst := m.g.EdgeEnds(e)
	copy(temp, m.g.NodePotential(src))
	for _, f := range m.g.InEdges(src) {
		if from, _ := m.g.EdgeEnds(f); from != dst {
			floats.Mul(temp, m.at(b, f))
		}
	}
	z := matMul(m.g.EdgePotential(e), temp, out, m.k, maxSum)
	if z > Epsilon {
		floats.Scale(1/z, out)
		return
	}
	for s := range out {
		out[s] = 1 / float64(m.k)
	}
}

// matMul sets out[x] = Σ_y v[y]·M[y][x]² (max over y when maxSum) and
// returns Σ_x out[x]. M is row-major K×K.
func matMul(pot, v, out []float64, k int, maxSum bool) float64 {
	var total float64
	for x := 0; x < k; x++ {
		var acc float64
		for y := 0; y < k; y++ {
			w := pot[y*k+x]
			p := v[y] * w * w
			if maxSum {
				if p > acc {
					acc = p
				}
			} else {
				acc += p
			}
		}
		out[x] = acc
		total += acc
	}

	return total
}

// parallelNodes calls fn on contiguous node ranges covering [0, NumNodes),
// each with its own K-sized scratch buffer. With more than one worker the
// ranges run concurrently; fn must write only to state owned by its range.
func (m *messages) parallelNodes(fn func(lo, hi int, temp []float64)) error {
	n := m.g.NumNodes()
	w := m.workers
	if w <= 1 || n < 2*w {
		fn(0, n, make([]float64, m.k))
		return nil
	}
	var eg errgroup.Group
	chunk := (n + w - 1) / w
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		eg.Go(func() error {
			fn(lo, hi, make([]float64, m.k))
			return nil
		})
	}

	return eg.Wait()
}

// sweep computes every outgoing message from the current buffer into the
// next one, then flips parity.
func (m *messages) sweep(maxSum bool) error {
	cur, nxt := m.current(), m.next()
	err := m.parallelNodes(func(lo, hi int, temp []float64) {
		for id := lo; id < hi; id++ {
			for _, e := range m.g.OutEdges(id) {
				m.send(e, cur, m.at(nxt, e), temp, maxSum)
			}
		}
	})
	if err != nil {
		return err
	}
	m.swap()

	return nil
}

// beliefs folds the current incoming messages into every node potential with
// soft multiplication and renormalises. When labels is non-nil the argmax of
// each final belief is recorded in it.
func (m *messages) beliefs(labels []int) error {
	cur := m.current()

	return m.parallelNodes(func(lo, hi int, _ []float64) {
		for id := lo; id < hi; id++ {
			pot := m.g.NodePotential(id)
			for _, f := range m.g.InEdges(id) {
				msg := m.at(cur, f)
				for s := range pot {
					pot[s] = (Epsilon + pot[s]) * (Epsilon + msg[s])
				}
			}
			normalize(pot)
			if labels != nil {
				labels[id] = floats.MaxIdx(pot)
			}
		}
	})
}

// normalize scales pot to sum 1; an all-zero vector becomes uniform.
func normalize(pot []float64) {
	sum := floats.Sum(pot)
	if sum > 0 {
		floats.Scale(1/sum, pot)
		return
	}
	for s := range pot {
		pot[s] = 1 / float64(len(pot))
	}
}
