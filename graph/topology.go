package graph

import "fmt"

// CheckChain verifies that g is a simple path in node-id order: node i is
// joined to node i+1 by an arc (both directions) and there are no other edges.
// Complexity: O(V + E).
func CheckChain(g Pairwise) error {
	n := g.NumNodes()
	if n <= 1 {
		if g.NumEdges() != 0 {
			return fmt.Errorf("CheckChain: %d edges on %d nodes: %w", g.NumEdges(), n, ErrNotChain)
		}
		return nil
	}
	if g.NumEdges() != 2*(n-1) {
		return fmt.Errorf("CheckChain: %d edges, want %d: %w", g.NumEdges(), 2*(n-1), ErrNotChain)
	}
	for i := 0; i+1 < n; i++ {
		if !g.HasEdge(i, i+1) || !g.HasEdge(i+1, i) {
			return fmt.Errorf("CheckChain: missing arc %d-%d: %w", i, i+1, ErrNotChain)
		}
	}

	return nil
}

// CheckTree verifies that g is a spanning tree of arcs: every edge has its
// reverse, there are exactly V-1 arcs, and all nodes are connected.
// Complexity: O(V + E).
func CheckTree(g Pairwise) error {
	n := g.NumNodes()
	if n == 0 {
		return nil
	}
	if g.NumEdges() != 2*(n-1) {
		return fmt.Errorf("CheckTree: %d edges, want %d: %w", g.NumEdges(), 2*(n-1), ErrNotTree)
	}
	for e := 0; e < g.NumEdges(); e++ {
		src, dst := g.EdgeEnds(e)
		if !g.HasEdge(dst, src) {
			return fmt.Errorf("CheckTree: edge %d->%d has no reverse: %w", src, dst, ErrNotTree)
		}
	}
	if !IsConnected(g) {
		return fmt.Errorf("CheckTree: graph is disconnected: %w", ErrNotTree)
	}

	return nil
}

// IsConnected reports whether every node is reachable from node 0 when edge
// direction is ignored. An empty graph is connected.
//
// Breadth-first search with a slice-backed FIFO queue.
// Complexity: O(V + E) time, O(V) memory.
func IsConnected(g Pairwise) bool {
	n := g.NumNodes()
	if n == 0 {
		return true
	}
	visited := make([]bool, n)
	queue := make([]int, 0, n)
	visited[0] = true
	queue = append(queue, 0)
	seen := 1
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, e := range g.OutEdges(u) {
			_, v := g.EdgeEnds(e)
			if !visited[v] {
				visited[v] = true
				seen++
				queue = append(queue, v)
			}
		}
		for _, e := range g.InEdges(u) {
			v, _ := g.EdgeEnds(e)
			if !visited[v] {
				visited[v] = true
				seen++
				queue = append(queue, v)
			}
		}
	}

	return seen == n
}
