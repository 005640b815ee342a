package tour

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/orienteering/op"
)

// Tour is a simple closed walk over a graph, anchored at the depot.
// The zero value is not usable; construct with New.
type Tour struct {
	g *op.Graph

	vertices  []int     // vertices[0] is always the depot
	edgeTimes []float64 // edgeTimes[i] = travel(vertices[i], vertices[i+1 mod L])
	pos       []int     // vertex id → tour position, −1 when absent

	travelTime float64
	prize      float64

	logger *slog.Logger
}

// New builds a tour visiting the given vertices in order and closing back to
// the depot. The list must start at the depot, be simple, and contain only
// reachable vertices.
func New(g *op.Graph, vertices []int) (*Tour, error) {
	if len(vertices) < 2 {
		return nil, ErrVertexCount
	}
	if vertices[0] != 0 {
		return nil, ErrNotClosedAtDepot
	}
	t := &Tour{
		g:      g,
		pos:    make([]int, g.NumVertices()),
		logger: slog.Default(),
	}
	for i := range t.pos {
		t.pos[i] = -1
	}
	var (
		i, v int
	)
	for i, v = range vertices {
		if v < 0 || v >= g.NumVertices() {
			return nil, op.ErrVertexOutOfRange
		}
		if t.pos[v] != -1 {
			return nil, ErrNotSimple
		}
		if !g.IsReachable(v) {
			return nil, ErrUnreachable
		}
		t.pos[v] = i
	}
	t.vertices = append([]int(nil), vertices...)
	t.rebuild()
	return t, nil
}

// rebuild recomputes edge times and both caches from the vertex list.
func (t *Tour) rebuild() {
	L := len(t.vertices)
	t.edgeTimes = t.edgeTimes[:0]
	t.travelTime = 0
	t.prize = 0
	var i int
	for i = 0; i < L; i++ {
		d := t.g.MustTravelTime(t.vertices[i], t.vertices[(i+1)%L])
		t.edgeTimes = append(t.edgeTimes, d)
		t.travelTime += d
		t.prize += t.g.Prize(t.vertices[i])
	}
	t.travelTime = round1e9(t.travelTime)
	t.prize = round1e9(t.prize)
}

// Clone returns a deep copy sharing only the immutable graph.
func (t *Tour) Clone() *Tour {
	c := &Tour{
		g:          t.g,
		vertices:   append([]int(nil), t.vertices...),
		edgeTimes:  append([]float64(nil), t.edgeTimes...),
		pos:        append([]int(nil), t.pos...),
		travelTime: t.travelTime,
		prize:      t.prize,
		logger:     t.logger,
	}
	return c
}

// Graph returns the graph the tour lives on.
func (t *Tour) Graph() *op.Graph { return t.g }

// Len returns the number of distinct vertices on the tour.
func (t *Tour) Len() int { return len(t.vertices) }

// At returns the vertex at position p. The position must be valid.
func (t *Tour) At(p int) int { return t.vertices[p] }

// Vertices returns a fresh copy of the vertex sequence.
func (t *Tour) Vertices() []int {
	return append([]int(nil), t.vertices...)
}

// PosOf returns the tour position of v, or −1 when v is not on the tour.
func (t *Tour) PosOf(v int) int { return t.pos[v] }

// Contains reports whether v lies on the tour.
func (t *Tour) Contains(v int) bool { return t.pos[v] != -1 }

// TravelTime returns the cached total travel time of the closed walk.
func (t *Tour) TravelTime() float64 { return t.travelTime }

// Prize returns the cached total prize, depot included.
func (t *Tour) Prize() float64 { return t.prize }

// Feasible reports whether the tour respects the budget, within tolerance.
func (t *Tour) Feasible() bool {
	return t.travelTime <= t.g.Budget()+op.BudgetTolerance
}

// PriceInsertion prices inserting v immediately after position p: three edge
// lookups, no mutation. Score is Δt/Δp (lower is better); +Inf for a
// zero-prize vertex.
func (t *Tour) PriceInsertion(v, p int) Insertion {
	L := len(t.vertices)
	u := t.vertices[p]
	w := t.vertices[(p+1)%L]
	dt := t.g.MustTravelTime(u, v) + t.g.MustTravelTime(v, w) - t.edgeTimes[p]
	dp := t.g.Prize(v)
	score := math.Inf(1)
	if dp > 0 {
		score = dt / dp
	}
	return Insertion{V: v, Pos: p, DeltaT: dt, DeltaP: dp, Score: score}
}

// PriceRemoval prices deleting the vertex at position p (p must not be the
// depot position). Both deltas are non-positive; Score is their ratio, +Inf
// for a zero-prize vertex (a free removal).
func (t *Tour) PriceRemoval(p int) Removal {
	L := len(t.vertices)
	u := t.vertices[(p-1+L)%L]
	v := t.vertices[p]
	w := t.vertices[(p+1)%L]
	dt := t.g.MustTravelTime(u, w) - t.edgeTimes[(p-1+L)%L] - t.edgeTimes[p]
	dp := -t.g.Prize(v)
	score := math.Inf(1)
	if dp < 0 {
		score = dt / dp
	}
	return Removal{Pos: p, DeltaT: dt, DeltaP: dp, Score: score}
}

// AddVertex inserts v immediately after position p, updating both caches by
// edge delta.
func (t *Tour) AddVertex(v, p int) error {
	if v <= 0 || v >= t.g.NumVertices() {
		if v == 0 {
			return ErrDepotMove
		}
		return op.ErrVertexOutOfRange
	}
	if p < 0 || p >= len(t.vertices) {
		return ErrBadPosition
	}
	if t.pos[v] != -1 {
		return ErrAlreadyInTour
	}
	if !t.g.IsReachable(v) {
		return ErrUnreachable
	}

	L := len(t.vertices)
	u := t.vertices[p]
	w := t.vertices[(p+1)%L]
	tu := t.g.MustTravelTime(u, v)
	tw := t.g.MustTravelTime(v, w)
	dt := tu + tw - t.edgeTimes[p]

	t.vertices = append(t.vertices, 0)
	copy(t.vertices[p+2:], t.vertices[p+1:len(t.vertices)-1])
	t.vertices[p+1] = v

	t.edgeTimes = append(t.edgeTimes, 0)
	copy(t.edgeTimes[p+2:], t.edgeTimes[p+1:len(t.edgeTimes)-1])
	t.edgeTimes[p] = tu
	t.edgeTimes[p+1] = tw

	t.pos[v] = p + 1
	for q := p + 2; q < len(t.vertices); q++ {
		t.pos[t.vertices[q]] = q
	}

	t.travelTime = round1e9(t.travelTime + dt)
	t.prize = round1e9(t.prize + t.g.Prize(v))
	return nil
}

// RemoveVertexAt deletes the vertex at position p. It refuses to displace
// the depot and to shrink the tour below two vertices; both cases return
// false without mutating.
func (t *Tour) RemoveVertexAt(p int) (int, bool) {
	if p <= 0 || p >= len(t.vertices) {
		return 0, false
	}
	if len(t.vertices) == 2 {
		t.logger.Warn("refusing to remove the last non-depot vertex",
			slog.Int("vertex", t.vertices[p]))
		return 0, false
	}

	L := len(t.vertices)
	u := t.vertices[p-1]
	v := t.vertices[p]
	w := t.vertices[(p+1)%L]
	dt := t.g.MustTravelTime(u, w) - t.edgeTimes[p-1] - t.edgeTimes[p]

	copy(t.vertices[p:], t.vertices[p+1:])
	t.vertices = t.vertices[:L-1]

	t.edgeTimes[p-1] = t.g.MustTravelTime(u, w)
	copy(t.edgeTimes[p:], t.edgeTimes[p+1:])
	t.edgeTimes = t.edgeTimes[:L-1]

	t.pos[v] = -1
	for q := p; q < len(t.vertices); q++ {
		t.pos[t.vertices[q]] = q
	}

	t.travelTime = round1e9(t.travelTime + dt)
	t.prize = round1e9(t.prize - t.g.Prize(v))
	return v, true
}

// RemoveVertex deletes v from the tour. Returns false when v is absent, is
// the depot, or is the last non-depot vertex.
func (t *Tour) RemoveVertex(v int) bool {
	if v <= 0 || v >= t.g.NumVertices() || t.pos[v] == -1 {
		return false
	}
	_, ok := t.RemoveVertexAt(t.pos[v])
	return ok
}

// CheckTravelTime recomputes the total travel time from the graph and
// returns ErrCacheDiverged when the cache is off by more than the tolerance.
func (t *Tour) CheckTravelTime() error {
	L := len(t.vertices)
	var sum float64
	for i := 0; i < L; i++ {
		sum += t.g.MustTravelTime(t.vertices[i], t.vertices[(i+1)%L])
	}
	if math.Abs(sum-t.travelTime) > op.BudgetTolerance {
		return ErrCacheDiverged
	}
	return nil
}
