package cluster

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/orienteering/op"
)

// tuneBuckets is the histogram resolution of the auto-tuner.
const tuneBuckets = 20

// Auto picks DBSCAN parameters from the instance geometry and runs the
// clustering.
//
// Radius: the largest nearest-neighbor distance over reachable non-depot
// vertices, so every vertex sees at least one neighbor. MinPts: the
// neighborhood sizes at that radius are histogrammed into 20 equal-width
// buckets; scanning left to right, the tuner skips the initial downhill run
// (isolated and near-isolated points) and stops at the first bucket whose
// next non-empty bucket is not strictly smaller. MinPts is the largest size
// in that bucket, floored at 2.
func Auto(g *op.Graph) (*Clustering, error) {
	verts := g.ReachableVertices()
	if len(verts) < 2 {
		return nil, ErrBadParams
	}

	// Largest nearest-neighbor distance.
	var radius float64
	var i, j int
	for i = 0; i < len(verts); i++ {
		nn := math.Inf(1)
		pi := g.Coord(verts[i])
		for j = 0; j < len(verts); j++ {
			if i == j {
				continue
			}
			if d := pi.Dist(g.Coord(verts[j])); d < nn {
				nn = d
			}
		}
		if nn > radius {
			radius = nn
		}
	}
	if radius <= 0 {
		return nil, ErrBadParams
	}

	// Neighborhood sizes at that radius, ascending.
	sizes := make([]float64, 0, len(verts))
	for _, v := range verts {
		n := 0
		for _, p := range g.WithinRadius(g.Coord(v), radius) {
			if g.IsReachable(p.V) {
				n++
			}
		}
		sizes = append(sizes, float64(n))
	}
	sort.Float64s(sizes)

	minPts := pickMinPts(sizes)
	return Run(g, radius, minPts)
}

// pickMinPts runs the histogram scan over sorted neighborhood sizes.
func pickMinPts(sizes []float64) int {
	lo, hi := sizes[0], sizes[len(sizes)-1]
	if hi <= lo {
		return maxInt(2, int(hi))
	}

	dividers := make([]float64, tuneBuckets+1)
	width := (hi - lo) / tuneBuckets
	for i := range dividers {
		dividers[i] = lo + float64(i)*width
	}
	// stat.Histogram counts half-open cells; nudge the last divider so the
	// maximum size lands in the final bucket instead of falling off the end.
	dividers[tuneBuckets] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sizes, nil)

	// Walk non-empty buckets while they strictly shrink.
	cur := -1
	for b := 0; b < tuneBuckets; b++ {
		if counts[b] == 0 {
			continue
		}
		if cur >= 0 && counts[b] >= counts[cur] {
			break
		}
		cur = b
	}

	// Largest size in the selected bucket: sizes are sorted, so it is the
	// last one before the cumulative count of buckets 0..cur.
	cum := 0.0
	for b := 0; b <= cur; b++ {
		cum += counts[b]
	}
	top := sizes[int(cum)-1]
	return maxInt(2, int(top))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
