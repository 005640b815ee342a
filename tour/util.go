package tour

import "math"

// round1e9 snaps x to a 1e−9 grid. Cached totals are maintained by delta;
// without a grid the accumulated error wanders and equality-style checks
// (idempotence, add/remove round trips) become order-dependent.
func round1e9(x float64) float64 {
	return math.Round(x*1e9) / 1e9
}
