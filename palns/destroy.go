package palns

import (
	"math/rand"

	"github.com/katalvlaran/orienteering/cluster"
)

// minAdaptiveFraction floors the per-call draw so destroys never degrade
// to no-ops.
const minAdaptiveFraction = 0.01

// aggressivenessGrowth is the stagnation multiplier on the removal
// fraction.
const aggressivenessGrowth = 1.1

// Destroyer removes vertices from a solution's tour. Implementations carry
// per-worker state; Clone supplies an independent copy.
type Destroyer interface {
	Name() string
	Apply(s *Solution, rng *rand.Rand)
	Clone() Destroyer
}

// fractioned is the control surface the visitor hooks use to steer destroy
// aggressiveness.
type fractioned interface {
	setFraction(f float64)
	resetFraction()
	growFraction()
	maxFraction() float64
}

// removal sizing shared by the fraction-driven operators.
type fractionState struct {
	cur      float64
	def      float64
	max      float64
	cap      int
	adaptive bool
}

func (f *fractionState) setFraction(v float64) {
	if v > f.max {
		v = f.max
	}
	f.cur = v
}

func (f *fractionState) resetFraction() { f.cur = f.def }

func (f *fractionState) growFraction() {
	f.cur *= aggressivenessGrowth
	if f.cur > f.max {
		f.cur = f.max
	}
}

func (f *fractionState) maxFraction() float64 { return f.max }

// drawCount sizes one destroy call against the current tour length. With
// adaptive sizing the fraction is drawn from normal(cur, cur/10), clipped
// below by a small positive.
func (f *fractionState) drawCount(tourLen int, rng *rand.Rand) int {
	frac := f.cur
	if f.adaptive {
		frac = rng.NormFloat64()*(f.cur/10) + f.cur
		if frac < minAdaptiveFraction {
			frac = minAdaptiveFraction
		}
		if frac > f.max {
			frac = f.max
		}
	}
	n := int(float64(tourLen-1) * frac)
	if n > f.cap {
		n = f.cap
	}
	return n
}

// RandomRemove drops uniformly sampled non-depot tour vertices.
type RandomRemove struct {
	fractionState
}

// NewRandomRemove sizes removals as min(⌊(|tour|−1)·fraction⌋, cap).
func NewRandomRemove(fraction, maxFraction float64, cap int, adaptive bool) *RandomRemove {
	return &RandomRemove{fractionState{
		cur: fraction, def: fraction, max: maxFraction, cap: cap, adaptive: adaptive,
	}}
}

func (r *RandomRemove) Name() string { return "random_remove" }

func (r *RandomRemove) Clone() Destroyer {
	cp := *r
	return &cp
}

func (r *RandomRemove) Apply(s *Solution, rng *rand.Rand) {
	n := r.drawCount(s.Tour().Len(), rng)
	for i := 0; i < n && s.Tour().Len() > 2; i++ {
		p := 1 + rng.Intn(s.Tour().Len()-1)
		s.RemoveAt(p)
	}
}

// RandomSeqRemove drops a run of consecutive tour positions starting at a
// random pivot, wrapping around and skipping the depot.
type RandomSeqRemove struct {
	fractionState
}

// NewRandomSeqRemove sizes removals like NewRandomRemove.
func NewRandomSeqRemove(fraction, maxFraction float64, cap int, adaptive bool) *RandomSeqRemove {
	return &RandomSeqRemove{fractionState{
		cur: fraction, def: fraction, max: maxFraction, cap: cap, adaptive: adaptive,
	}}
}

func (r *RandomSeqRemove) Name() string { return "random_seq_remove" }

func (r *RandomSeqRemove) Clone() Destroyer {
	cp := *r
	return &cp
}

func (r *RandomSeqRemove) Apply(s *Solution, rng *rand.Rand) {
	n := r.drawCount(s.Tour().Len(), rng)
	if s.Tour().Len() < 3 || n == 0 {
		return
	}
	pivot := 1 + rng.Intn(s.Tour().Len()-1)
	for i := 0; i < n && s.Tour().Len() > 2; i++ {
		if pivot >= s.Tour().Len() {
			pivot = 1 // wrapped past the end; the depot stays
		}
		s.RemoveAt(pivot)
	}
}

// RandomClusterRemove drops the tour-present vertices of one uniformly
// chosen cluster, up to cap.
type RandomClusterRemove struct {
	c   *cluster.Clustering
	cap int
}

// NewRandomClusterRemove requires a clustering of the solution's graph.
func NewRandomClusterRemove(c *cluster.Clustering, cap int) *RandomClusterRemove {
	if c == nil {
		panic("palns: nil clustering")
	}
	return &RandomClusterRemove{c: c, cap: cap}
}

func (r *RandomClusterRemove) Name() string { return "random_cluster_remove" }

func (r *RandomClusterRemove) Clone() Destroyer {
	cp := *r
	return &cp
}

func (r *RandomClusterRemove) Apply(s *Solution, rng *rand.Rand) {
	if r.c.NumClusters() == 0 {
		return
	}
	cl := &r.c.Clusters[rng.Intn(r.c.NumClusters())]

	if len(cl.Vertices) <= r.cap {
		for _, v := range cl.Vertices {
			if s.Tour().Contains(v) {
				s.Remove(v)
			}
		}
		return
	}

	shuffled := make([]int, len(cl.Vertices))
	copy(shuffled, cl.Vertices)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	removed := 0
	for _, v := range shuffled {
		if removed >= r.cap {
			return
		}
		if s.Tour().Contains(v) && s.Remove(v) {
			removed++
		}
	}
}
