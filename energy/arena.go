package energy

// defaultBlockSize is the arena block capacity in float64 values (256 KiB).
const defaultBlockSize = 1 << 15

// arena bump-allocates float64 spans from fixed-capacity blocks. Spans are
// never freed individually and stay valid until release; a block is never
// reallocated, so spans handed out earlier do not move.
type arena struct {
	blockSize int
	blocks    [][]float64
	cur       []float64
	used      int
}

func newArena(blockSize int) *arena {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}

	return &arena{blockSize: blockSize}
}

// alloc returns a zeroed span of n values with capacity clipped to n.
// Requests larger than the block size get a dedicated block.
func (a *arena) alloc(n int) []float64 {
	if cap(a.cur)-len(a.cur) < n {
		size := a.blockSize
		if n > size {
			size = n
		}
		a.cur = make([]float64, 0, size)
		a.blocks = append(a.blocks, a.cur)
	}
	start := len(a.cur)
	a.cur = a.cur[:start+n]
	a.used += n

	return a.cur[start : start+n : start+n]
}

// release drops every block at once.
func (a *arena) release() {
	a.blocks = nil
	a.cur = nil
	a.used = 0
}
