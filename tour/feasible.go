package tour

import "math"

// MakeFeasibleNaive removes vertices greedily until the travel time fits the
// budget. Each round removes the position with the highest removal score
// (time saved per prize lost); after a removal only the two newly adjacent
// positions are re-priced. Returns the removed vertex ids in removal order.
func (t *Tour) MakeFeasibleNaive() []int {
	var removed []int
	if t.travelTime <= t.g.Budget() {
		return removed
	}

	// scores[p] is the removal score of position p; index 0 (depot) unused.
	scores := make([]float64, len(t.vertices))
	var p int
	for p = 1; p < len(t.vertices); p++ {
		scores[p] = t.PriceRemoval(p).Score
	}

	for t.travelTime > t.g.Budget() {
		if len(t.vertices) == 2 {
			break
		}
		best, bestScore := -1, math.Inf(-1)
		for p = 1; p < len(t.vertices); p++ {
			if scores[p] > bestScore {
				best, bestScore = p, scores[p]
			}
		}
		v, ok := t.RemoveVertexAt(best)
		if !ok {
			break
		}
		removed = append(removed, v)

		copy(scores[best:], scores[best+1:])
		scores = scores[:len(t.vertices)]
		if best-1 >= 1 {
			scores[best-1] = t.PriceRemoval(best - 1).Score
		}
		if best < len(t.vertices) {
			scores[best] = t.PriceRemoval(best).Score
		}
	}
	return removed
}

// chainLabel is one Pareto-optimal state of the label-setting search: the
// accumulated travel time and prize of a path through the chain DAG, with a
// back-pointer for reconstruction.
type chainLabel struct {
	time, prize       float64
	prevNode, prevIdx int
}

// MakeFeasibleOptimal removes the prize-minimal vertex subset such that the
// remaining subsequence (original cyclic order preserved) fits the budget.
//
// The tour positions become a chain DAG 0..n, where node n duplicates the
// depot; every pair (i, j), i < j, except (0, n) is an edge costing the
// direct travel time between the underlying vertices. A label-setting sweep
// in node order keeps, per node, the Pareto front over (time, prize); a
// label extends across an edge only when the accumulated time stays within
// budget. The max-prize label at node n selects the kept positions.
func (t *Tour) MakeFeasibleOptimal() []int {
	if t.travelTime <= t.g.Budget() {
		return nil
	}

	n := len(t.vertices) // chain nodes are 0..n; node n is the depot again
	budget := t.g.Budget()

	vertexAt := func(node int) int {
		if node == n {
			return 0
		}
		return t.vertices[node]
	}

	fronts := make([][]chainLabel, n+1)
	fronts[0] = []chainLabel{{time: 0, prize: t.g.Prize(0), prevNode: -1, prevIdx: -1}}

	var (
		i, j, li int
		lb       chainLabel
	)
	for i = 0; i < n; i++ {
		for li = 0; li < len(fronts[i]); li++ {
			lb = fronts[i][li]
			for j = i + 1; j <= n; j++ {
				if i == 0 && j == n {
					continue // the empty tour is not a tour
				}
				nt := lb.time + t.g.MustTravelTime(vertexAt(i), vertexAt(j))
				if nt > budget {
					continue
				}
				np := lb.prize
				if j < n {
					np += t.g.Prize(t.vertices[j])
				}
				fronts[j] = mergeLabel(fronts[j], chainLabel{
					time: nt, prize: np, prevNode: i, prevIdx: li,
				})
			}
		}
	}

	// Max-prize Pareto label at the closing depot node.
	best := -1
	for li = 0; li < len(fronts[n]); li++ {
		if best == -1 || fronts[n][li].prize > fronts[n][best].prize {
			best = li
		}
	}
	if best == -1 {
		// Unreachable by construction: any single reachable vertex fits.
		return t.MakeFeasibleNaive()
	}

	kept := make([]bool, n)
	kept[0] = true
	node, idx := n, best
	for node > 0 {
		lb = fronts[node][idx]
		node, idx = lb.prevNode, lb.prevIdx
		if node > 0 {
			kept[node] = true
		}
	}

	var (
		removed  []int
		sequence []int
	)
	for i = 0; i < n; i++ {
		if kept[i] {
			sequence = append(sequence, t.vertices[i])
		} else {
			removed = append(removed, t.vertices[i])
		}
	}
	t.setVertices(sequence)
	return removed
}

// mergeLabel inserts nl into a Pareto front, dropping whatever it dominates.
// Dominance: time ≤ and prize ≥, with at least one strict; exact duplicates
// are rejected as dominated.
func mergeLabel(front []chainLabel, nl chainLabel) []chainLabel {
	for _, l := range front {
		if l.time <= nl.time && l.prize >= nl.prize {
			return front
		}
	}
	out := front[:0]
	for _, l := range front {
		if nl.time <= l.time && nl.prize >= l.prize {
			continue
		}
		out = append(out, l)
	}
	return append(out, nl)
}

// setVertices replaces the whole vertex sequence and recomputes every cache.
func (t *Tour) setVertices(vs []int) {
	for i := range t.pos {
		t.pos[i] = -1
	}
	t.vertices = append(t.vertices[:0], vs...)
	for i, v := range vs {
		t.pos[v] = i
	}
	t.rebuild()
}
