package palns

import (
	"math"
	"sort"

	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/tour"
)

// Solution pairs a tour with its complement: the reachable non-depot
// vertices that are not on the tour. The two sets always partition the
// graph's reachable non-depot vertices.
type Solution struct {
	g    *op.Graph
	t    *tour.Tour
	free map[int]struct{}
}

// NewSolution wraps a tour, deriving the free set from the graph.
func NewSolution(t *tour.Tour) *Solution {
	g := t.Graph()
	s := &Solution{g: g, t: t, free: make(map[int]struct{})}
	for _, v := range g.ReachableVertices() {
		if v != 0 && !t.Contains(v) {
			s.free[v] = struct{}{}
		}
	}
	return s
}

// Clone deep-copies the solution.
func (s *Solution) Clone() *Solution {
	free := make(map[int]struct{}, len(s.free))
	for v := range s.free {
		free[v] = struct{}{}
	}
	return &Solution{g: s.g, t: s.t.Clone(), free: free}
}

// Graph returns the underlying instance.
func (s *Solution) Graph() *op.Graph { return s.g }

// Tour returns the live tour. Mutate it only through Solution methods, or
// the free-set partition breaks.
func (s *Solution) Tour() *tour.Tour { return s.t }

// Prize returns the collected prize.
func (s *Solution) Prize() float64 { return s.t.Prize() }

// TravelTime returns the tour's cached travel time.
func (s *Solution) TravelTime() float64 { return s.t.TravelTime() }

// NumFree returns the size of the free set.
func (s *Solution) NumFree() int { return len(s.free) }

// IsFree reports whether v is currently insertable.
func (s *Solution) IsFree(v int) bool {
	_, ok := s.free[v]
	return ok
}

// FreeVertices returns the free set in ascending id order, so operator
// behavior is reproducible for a fixed seed.
func (s *Solution) FreeVertices() []int {
	out := make([]int, 0, len(s.free))
	for v := range s.free {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Insert places v right after tour position p and removes it from the free
// set.
func (s *Solution) Insert(v, p int) error {
	if err := s.t.AddVertex(v, p); err != nil {
		return err
	}
	delete(s.free, v)
	return nil
}

// RemoveAt drops the vertex at tour position p back into the free set.
// Returns false when the position is the depot or the tour is minimal.
func (s *Solution) RemoveAt(p int) (int, bool) {
	v, ok := s.t.RemoveVertexAt(p)
	if ok {
		s.free[v] = struct{}{}
	}
	return v, ok
}

// Remove drops vertex v from the tour back into the free set.
func (s *Solution) Remove(v int) bool {
	p := s.t.PosOf(v)
	if p <= 0 {
		return false
	}
	_, ok := s.RemoveAt(p)
	return ok
}

// AddBestAny inserts free vertex v at the position with the lowest
// insertion score, ignoring the budget. Returns false when v is not free
// or prices to +Inf everywhere.
func (s *Solution) AddBestAny(v int) bool {
	if !s.IsFree(v) {
		return false
	}
	return s.insertBest(v, s.allPositions(), false)
}

// AddBestFeasible is AddBestAny restricted to positions whose Δt keeps the
// tour within budget. Returns false when no such position exists.
func (s *Solution) AddBestFeasible(v int) bool {
	if !s.IsFree(v) {
		return false
	}
	return s.insertBest(v, s.allPositions(), true)
}

// HeurAddBestAny is AddBestAny over spatially pruned candidate positions.
func (s *Solution) HeurAddBestAny(v int) bool {
	if !s.IsFree(v) {
		return false
	}
	return s.insertBest(v, s.heurPositions(v), false)
}

// HeurAddBestFeasible is AddBestFeasible over spatially pruned candidates.
func (s *Solution) HeurAddBestFeasible(v int) bool {
	if !s.IsFree(v) {
		return false
	}
	return s.insertBest(v, s.heurPositions(v), true)
}

// insertBest prices v at every candidate position and inserts at the
// argmin score. With feasibleOnly, over-budget positions are skipped.
func (s *Solution) insertBest(v int, positions []int, feasibleOnly bool) bool {
	var (
		bestPos   = -1
		bestScore = math.Inf(1)
		budget    = s.g.Budget() + op.BudgetTolerance
		ins       tour.Insertion
	)
	for _, p := range positions {
		ins = s.t.PriceInsertion(v, p)
		if feasibleOnly && s.t.TravelTime()+ins.DeltaT > budget {
			continue
		}
		if ins.Score < bestScore {
			bestPos, bestScore = p, ins.Score
		}
	}
	if bestPos == -1 {
		// All candidates priced to +Inf: fall back to the cheapest Δt so a
		// zero-prize vertex can still be placed when the budget allows.
		bestDt := math.Inf(1)
		for _, p := range positions {
			ins = s.t.PriceInsertion(v, p)
			if feasibleOnly && s.t.TravelTime()+ins.DeltaT > budget {
				continue
			}
			if ins.DeltaT < bestDt {
				bestPos, bestDt = p, ins.DeltaT
			}
		}
	}
	if bestPos == -1 {
		return false
	}
	return s.Insert(v, bestPos) == nil
}

// allPositions enumerates every insertion position of the current tour.
func (s *Solution) allPositions() []int {
	out := make([]int, s.t.Len())
	for i := range out {
		out[i] = i
	}
	return out
}

// setTour swaps in a tour over the same vertex set; the free set is
// unaffected.
func (s *Solution) setTour(t *tour.Tour) { s.t = t }

// RestoreFeasibility trims the tour back under budget, returning the
// removed vertices after adding them to the free set.
func (s *Solution) RestoreFeasibility(optimal bool) []int {
	var removed []int
	if optimal {
		removed = s.t.MakeFeasibleOptimal()
	} else {
		removed = s.t.MakeFeasibleNaive()
	}
	for _, v := range removed {
		s.free[v] = struct{}{}
	}
	return removed
}

// Fill greedily inserts free vertices at their best feasible positions
// until none fits, cheapest score first. Returns the number inserted.
func (s *Solution) Fill(heuristic bool) int {
	inserted := 0
	for {
		progress := false
		for _, v := range s.FreeVertices() {
			var ok bool
			if heuristic {
				ok = s.HeurAddBestFeasible(v)
			} else {
				ok = s.AddBestFeasible(v)
			}
			if ok {
				inserted++
				progress = true
			}
		}
		if !progress {
			return inserted
		}
	}
}
