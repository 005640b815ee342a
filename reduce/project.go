package reduce

import (
	"math"

	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/tour"
)

// ProjectBack expands a tour on the reduced graph into a tour on the
// original graph. Cluster-derived vertices inline their member TSP; the
// entry vertex is the one minimizing the detour against the neighboring
// stops, with its TSP predecessor as the exit. The result can exceed the
// budget; callers restore feasibility afterwards.
func (r *Reduced) ProjectBack(rt *tour.Tour) (*tour.Tour, error) {
	if rt.Graph() != r.g {
		return nil, ErrGraphMismatch
	}

	seq := rt.Vertices()
	var out []int
	for pos, rv := range seq {
		members := r.mapping[rv]
		if len(members) == 1 {
			out = append(out, members[0])
			continue
		}

		prevRV := seq[(pos-1+len(seq))%len(seq)]
		nextRV := seq[(pos+1)%len(seq)]
		prevPt := r.g.Coord(prevRV)
		nextPt := r.g.Coord(nextRV)

		ord := r.tspOrd[rv]
		start := bestEntry(r.orig, ord, prevPt, nextPt)
		for k := 0; k < len(ord); k++ {
			out = append(out, ord[(start+k)%len(ord)])
		}
	}

	return tour.New(r.orig, out)
}

// bestEntry selects the cluster TSP rotation: candidate entry e with exit
// its cycle predecessor, minimizing
// dist(prev, entry) + dist(exit, next) − dist(exit, entry).
func bestEntry(g *op.Graph, ord []int, prevPt, nextPt op.Point) int {
	best, bestCost := 0, math.Inf(1)
	for i := range ord {
		entry := g.Coord(ord[i])
		exit := g.Coord(ord[(i-1+len(ord))%len(ord)])
		cost := prevPt.Dist(entry) + exit.Dist(nextPt) - exit.Dist(entry)
		if cost < bestCost {
			best, bestCost = i, cost
		}
	}
	return best
}
