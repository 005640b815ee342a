// Package tsp - in-process solver: nearest-neighbor construction plus
// deterministic first-improvement 2-opt.
//
// Design:
//   - Deterministic scanning order; no RNG in the improvement loop.
//   - Strict sentinel errors only (see types.go). No fmt.Errorf in hot paths.
//   - Dense prefetched submatrix w[i*k+j]; O(1) per candidate check, O(k) on
//     an accepted move.
//
// Contracts:
//   - Solve returns each input vertex exactly once (open list); length is
//     the cost of the closed cycle through that order.
//
// Complexity:
//   - O(k²) construction, O(iter·k²) 2-opt for a k-vertex subset.
package tsp

import (
	"math"

	"github.com/katalvlaran/orienteering/op"
)

// defaultLocalEps is the minimal improvement a 2-opt move must bring to be
// accepted; it keeps the loop from chasing FP noise.
const defaultLocalEps = 1e-9

// LocalOption customizes a Local solver.
type LocalOption func(*Local)

// WithEps overrides the 2-opt acceptance tolerance. Panics on a negative
// value.
func WithEps(eps float64) LocalOption {
	if eps < 0 {
		panic("tsp: eps must be non-negative")
	}
	return func(l *Local) { l.eps = eps }
}

// WithMaxIters bounds the number of accepted 2-opt moves; 0 means run to a
// local optimum. Panics on a negative value.
func WithMaxIters(n int) LocalOption {
	if n < 0 {
		panic("tsp: max iterations must be non-negative")
	}
	return func(l *Local) { l.maxIters = n }
}

// Local solves cluster TSPs in process. The zero value is not usable; build
// instances with NewLocal.
type Local struct {
	eps      float64
	maxIters int
}

// NewLocal returns an in-process solver with the default tolerance.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{eps: defaultLocalEps}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Solve computes a closed tour over the given vertex subset of g.
func (l *Local) Solve(g *op.Graph, vertices []int) ([]int, float64, error) {
	if err := validateSubset(g, vertices); err != nil {
		return nil, 0, err
	}
	k := len(vertices)

	// Tiny subsets have a unique cycle up to rotation and direction.
	switch k {
	case 1:
		return []int{vertices[0]}, 0, nil
	case 2:
		d := g.MustTravelTime(vertices[0], vertices[1])
		return []int{vertices[0], vertices[1]}, round1e9(2 * d), nil
	case 3:
		length := g.MustTravelTime(vertices[0], vertices[1]) +
			g.MustTravelTime(vertices[1], vertices[2]) +
			g.MustTravelTime(vertices[2], vertices[0])
		return []int{vertices[0], vertices[1], vertices[2]}, round1e9(length), nil
	}

	w := prefetch(g, vertices)
	ord := nearestNeighbor(w, k)
	l.twoOpt(w, k, ord)

	out := make([]int, k)
	for i, idx := range ord {
		out[i] = vertices[idx]
	}
	return out, round1e9(cycleCost(w, k, ord)), nil
}

// nearestNeighbor builds an initial cycle greedily from index 0.
func nearestNeighbor(w []float64, k int) []int {
	ord := make([]int, 0, k)
	used := make([]bool, k)
	ord = append(ord, 0)
	used[0] = true

	var (
		cur, next, j int
		best         float64
	)
	for len(ord) < k {
		cur = ord[len(ord)-1]
		next, best = -1, math.Inf(1)
		for j = 0; j < k; j++ {
			if used[j] {
				continue
			}
			if d := w[cur*k+j]; d < best {
				next, best = j, d
			}
		}
		ord = append(ord, next)
		used[next] = true
	}
	return ord
}

// twoOpt improves ord in place with deterministic first-improvement 2-opt.
// After an accepted reversal the scan restarts from the beginning.
func (l *Local) twoOpt(w []float64, k int, ord []int) {
	accepted := 0
	for {
		improved := false

		var (
			a, b, c, d int     // endpoints around the candidate cut (i, j)
			delta      float64 // new edges minus old edges
			i, j       int
		)
		for i = 0; i < k-1 && !improved; i++ {
			for j = i + 1; j < k; j++ {
				if i == 0 && j == k-1 {
					// Reversing the whole cycle changes nothing.
					continue
				}
				a = ord[(i-1+k)%k]
				b = ord[i]
				c = ord[j]
				d = ord[(j+1)%k]

				delta = (w[a*k+c] + w[b*k+d]) - (w[a*k+b] + w[c*k+d])
				if delta < -l.eps {
					reverse(ord, i, j)
					accepted++
					improved = true
					break
				}
			}
		}

		if !improved {
			return
		}
		if l.maxIters > 0 && accepted >= l.maxIters {
			return
		}
	}
}

// reverse flips ord[i..j] in place.
func reverse(ord []int, i, j int) {
	for i < j {
		ord[i], ord[j] = ord[j], ord[i]
		i++
		j--
	}
}
