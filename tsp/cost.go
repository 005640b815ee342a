package tsp

import (
	"math"

	"github.com/katalvlaran/orienteering/op"
)

// roundScale controls final cost stabilization precision (1e-9).
// Avoids tiny FP drifts across platforms/opt levels without affecting optimality.
const roundScale = 1e9

// round1e9 returns x rounded to 1e-9 absolute precision.
func round1e9(x float64) float64 {
	return math.Round(x*roundScale) / roundScale
}

// validateSubset checks the vertex subset contract shared by every solver:
// non-empty, no repeats, all ids resolvable on g.
func validateSubset(g *op.Graph, vertices []int) error {
	if len(vertices) == 0 {
		return ErrNoVertices
	}
	seen := make(map[int]struct{}, len(vertices))
	for _, v := range vertices {
		if _, err := g.VertexByID(v); err != nil {
			return err
		}
		if _, dup := seen[v]; dup {
			return ErrDuplicateVertex
		}
		seen[v] = struct{}{}
	}
	return nil
}

// prefetch copies the k×k travel-time submatrix over vertices into a dense 1D
// buffer w[i*k+j] to remove method-call indirection from hot loops.
func prefetch(g *op.Graph, vertices []int) []float64 {
	k := len(vertices)
	w := make([]float64, k*k)
	var (
		i, j int
		d    float64
	)
	for i = 0; i < k; i++ {
		for j = i + 1; j < k; j++ {
			d = g.MustTravelTime(vertices[i], vertices[j])
			w[i*k+j] = d
			w[j*k+i] = d
		}
	}
	return w
}

// cycleCost sums the closed-cycle cost of ord over the prefetched matrix.
func cycleCost(w []float64, k int, ord []int) float64 {
	var sum float64
	for i := 0; i < k; i++ {
		sum += w[ord[i]*k+ord[(i+1)%k]]
	}
	return sum
}
