package gridgraph

import "fmt"

// FromLabels builds a lattice whose shape follows values (values[y][x]) and
// whose node potentials encode each observed label as evidence: the observed
// state gets opts.Confidence and the other states share 1-opts.Confidence
// evenly. Edge potentials start at one.
//
// Returns ErrEmptyGrid, ErrNonRectangular, ErrLabelOutOfRange or ErrBadConfidence.
// Complexity: O(W×H×(d×nStates² + nStates)).
func FromLabels(values [][]int, nStates int, opts LatticeOptions) (*Lattice, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, fmt.Errorf("FromLabels: %w", ErrEmptyGrid)
	}
	h, w := len(values), len(values[0])
	for y, row := range values {
		if len(row) != w {
			return nil, fmt.Errorf("FromLabels: row %d: %w", y, ErrNonRectangular)
		}
	}
	if !(opts.Confidence > 0 && opts.Confidence < 1) {
		return nil, fmt.Errorf("FromLabels: %g: %w", opts.Confidence, ErrBadConfidence)
	}
	l, err := NewLattice(w, h, nStates, opts)
	if err != nil {
		return nil, err
	}
	rest := (1 - opts.Confidence) / float64(nStates-1)
	for y, row := range values {
		for x, v := range row {
			if v < 0 || v >= nStates {
				return nil, fmt.Errorf("FromLabels: (%d,%d)=%d: %w", x, y, v, ErrLabelOutOfRange)
			}
			pot := l.NodePotential(l.Index(x, y))
			for s := range pot {
				pot[s] = rest
			}
			pot[v] = opts.Confidence
		}
	}

	return l, nil
}

// Labels reshapes a per-node label slice (row-major, as returned by decoders)
// into values[y][x]. Returns ErrLabelCount if len(labels) != Width·Height.
func (l *Lattice) Labels(labels []int) ([][]int, error) {
	if len(labels) != l.NumNodes() {
		return nil, fmt.Errorf("Labels: got %d, want %d: %w", len(labels), l.NumNodes(), ErrLabelCount)
	}
	out := make([][]int, l.Height)
	for y := range out {
		out[y] = make([]int, l.Width)
		copy(out[y], labels[y*l.Width:(y+1)*l.Width])
	}

	return out, nil
}

// Regions finds all contiguous regions of cells sharing the same label,
// according to l.Conn connectivity. labels is indexed by node id.
// Returns a slice of regions; each region is a slice of node ids in BFS order,
// regions ordered by their smallest id.
//
// To convert an id back to (x,y), use Coordinate(id).
//
// Time:   O(W·H·d), where d = 4 or 8.
// Memory: O(W·H) for visited flags and output.
func (l *Lattice) Regions(labels []int) ([][]int, error) {
	if len(labels) != l.NumNodes() {
		return nil, fmt.Errorf("Regions: got %d, want %d: %w", len(labels), l.NumNodes(), ErrLabelCount)
	}
	seen := make([]bool, l.NumNodes())
	var regions [][]int

	for i0 := range labels {
		if seen[i0] {
			continue
		}
		// BFS to collect the region
		queue := []int{i0}
		seen[i0] = true
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			for _, e := range l.out[u] {
				v := l.dst[e]
				if !seen[v] && labels[v] == labels[i0] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		regions = append(regions, queue)
	}

	return regions, nil
}
