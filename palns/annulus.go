package palns

import "github.com/katalvlaran/orienteering/op"

// annulusGrowth widens the scan ring by 10% per step.
const annulusGrowth = 1.1

// nonEuclidInnerRadius seeds the scan when coordinates are synthetic and
// metric distances do not track them.
const nonEuclidInnerRadius = 0.1

// heurPositions collects candidate insertion positions for v: positions
// adjacent to one of v's nearest proximity neighbors already on the tour.
// When none of those neighbors is on the tour, the search widens in
// annuli around v until some tour vertex falls inside a ring.
func (s *Solution) heurPositions(v int) []int {
	var (
		positions []int
		seen      = make(map[int]struct{})
		addAround = func(w int) {
			p := s.t.PosOf(w)
			if p < 0 {
				return
			}
			// Inserting after either neighbor of w puts v next to w.
			prev := (p - 1 + s.t.Len()) % s.t.Len()
			if _, dup := seen[prev]; !dup {
				seen[prev] = struct{}{}
				positions = append(positions, prev)
			}
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				positions = append(positions, p)
			}
		}
	)

	prox := s.g.Proximity(v)
	for _, nb := range prox {
		addAround(nb.V)
	}
	if len(positions) > 0 {
		return positions
	}

	// No proximity neighbor is on the tour: sweep outward rings.
	inner := nonEuclidInnerRadius
	if s.g.Euclidean() {
		inner = kthProximityDistance(s.g, v)
	}
	var (
		center     = s.g.Coord(v)
		outer      = inner * annulusGrowth
		emptyRings = 0
		giveUp     = 2 * s.g.NumVertices()
	)
	for emptyRings < giveUp {
		for _, vp := range s.g.WithinRadii(center, inner, outer) {
			if vp.V != v {
				addAround(vp.V)
			}
		}
		if len(positions) > 0 {
			return positions
		}
		emptyRings++
		inner, outer = outer, outer*annulusGrowth
	}

	// The rings never met the tour; fall back to the full position scan.
	return s.allPositions()
}

// kthProximityDistance is inner-ring sizing for Euclidean instances.
func kthProximityDistance(g *op.Graph, v int) float64 {
	prox := g.Proximity(v)
	if len(prox) == 0 {
		return nonEuclidInnerRadius
	}
	return prox[len(prox)-1].TravelTime
}
