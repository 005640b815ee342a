package op

// buildProximity fills, for each reachable vertex (depot included), the list
// of its k nearest non-depot reachable neighbors by travel time, ascending.
// Bounded selection: a fixed-size sorted buffer per vertex, O(n·k) inserts.
func (g *Graph) buildProximity(k int) {
	g.prox = make([][]Neighbor, g.n)

	var (
		v, w, i int
		t       float64
	)
	for v = 0; v < g.n; v++ {
		if !g.vertices[v].Reachable {
			continue
		}
		buf := make([]Neighbor, 0, k)
		for _, w = range g.reachable {
			if w == v {
				continue
			}
			t = g.tt[v*g.n+w]
			if len(buf) == k && t >= buf[k-1].TravelTime {
				continue
			}
			// Insertion position by linear scan; k is a small constant.
			i = len(buf)
			for i > 0 && buf[i-1].TravelTime > t {
				i--
			}
			if len(buf) < k {
				buf = append(buf, Neighbor{})
			}
			copy(buf[i+1:], buf[i:len(buf)-1])
			buf[i] = Neighbor{V: w, TravelTime: t}
		}
		g.prox[v] = buf
	}
}

// Proximity returns the nearest non-depot reachable neighbors of v ordered
// by travel time, ascending. The returned slice is owned by the graph and
// must not be modified. It is nil for unreachable vertices.
func (g *Graph) Proximity(v int) []Neighbor { return g.prox[v] }
