package op

import (
	"math"

	"github.com/tidwall/rtree"
)

// geoIndex is the R-tree over vertex coordinates, keyed by vertex id.
type geoIndex = rtree.RTreeG[int]

func (g *Graph) buildIndex() {
	var v int
	for v = 0; v < g.n; v++ {
		p := g.vertices[v].Coord
		g.tree.Insert([2]float64{p.X, p.Y}, [2]float64{p.X, p.Y}, v)
	}
}

// WithinRadius returns every non-depot vertex whose Euclidean distance to p
// is at most r, in index visit order. The R-tree prunes to the bounding box
// of the disc; an exact distance check filters the corners.
func (g *Graph) WithinRadius(p Point, r float64) []VertexPoint {
	var out []VertexPoint
	g.tree.Search(
		[2]float64{p.X - r, p.Y - r},
		[2]float64{p.X + r, p.Y + r},
		func(min, _ [2]float64, v int) bool {
			if v == 0 {
				return true
			}
			q := Point{min[0], min[1]}
			if p.Dist(q) <= r {
				out = append(out, VertexPoint{V: v, Coord: q})
			}
			return true
		})
	return out
}

// WithinRadii returns every non-depot vertex q with rMin ≤ dist(p, q) ≤ rMax.
// Vertices strictly inside the axis-aligned box inscribed in the inner disc
// are rejected before the exact check (the box has half-side rMin/√2, so its
// interior lies strictly inside the disc).
func (g *Graph) WithinRadii(p Point, rMin, rMax float64) []VertexPoint {
	var (
		out  []VertexPoint
		side = rMin / math.Sqrt2
	)
	g.tree.Search(
		[2]float64{p.X - rMax, p.Y - rMax},
		[2]float64{p.X + rMax, p.Y + rMax},
		func(min, _ [2]float64, v int) bool {
			if v == 0 {
				return true
			}
			q := Point{min[0], min[1]}
			if math.Abs(q.X-p.X) < side && math.Abs(q.Y-p.Y) < side {
				return true
			}
			d := p.Dist(q)
			if d >= rMin && d <= rMax {
				out = append(out, VertexPoint{V: v, Coord: q})
			}
			return true
		})
	return out
}
