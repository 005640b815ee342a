package palns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/tour"
)

// squareGraph returns the unit square: depot (0,0), then (1,0), (1,1),
// (0,1), prizes 0/1/1/1.
func squareGraph(t *testing.T, budget float64) *op.Graph {
	t.Helper()
	g, err := op.New("square",
		[]op.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		[]float64{0, 1, 1, 1},
		budget)
	require.NoError(t, err)
	return g
}

// lineGraph returns three collinear vertices at x=0,1,2 with unit prizes on
// the two non-depot vertices.
func lineGraph(t *testing.T, budget float64) *op.Graph {
	t.Helper()
	g, err := op.New("line",
		[]op.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		[]float64{0, 1, 1},
		budget)
	require.NoError(t, err)
	return g
}

func newTour(t *testing.T, g *op.Graph, vs []int) *tour.Tour {
	t.Helper()
	tr, err := tour.New(g, vs)
	require.NoError(t, err)
	return tr
}

// checkPartition asserts that tour vertices (minus the depot) and the free
// set partition the reachable non-depot vertices.
func checkPartition(t *testing.T, s *Solution) {
	t.Helper()
	seen := make(map[int]bool)
	for _, v := range s.Tour().Vertices() {
		if v != 0 {
			require.False(t, seen[v], "vertex %d repeats", v)
			require.False(t, s.IsFree(v), "tour vertex %d is also free", v)
			seen[v] = true
		}
	}
	for _, v := range s.FreeVertices() {
		require.False(t, seen[v])
		seen[v] = true
	}
	for _, v := range s.Graph().ReachableVertices() {
		if v != 0 {
			assert.True(t, seen[v], "reachable vertex %d unaccounted", v)
		}
	}
}

func TestSolutionPartition(t *testing.T) {
	g := squareGraph(t, 10)
	s := NewSolution(newTour(t, g, []int{0, 1}))

	assert.Equal(t, []int{2, 3}, s.FreeVertices())
	assert.Equal(t, 2, s.NumFree())
	assert.True(t, s.IsFree(2))
	assert.False(t, s.IsFree(1))
	checkPartition(t, s)

	require.NoError(t, s.Insert(2, 1))
	assert.Equal(t, []int{0, 1, 2}, s.Tour().Vertices())
	assert.False(t, s.IsFree(2))
	checkPartition(t, s)

	require.True(t, s.Remove(2))
	assert.True(t, s.IsFree(2))
	checkPartition(t, s)

	// The tour is minimal now: removing its last non-depot vertex refuses.
	_, ok := s.RemoveAt(1)
	require.False(t, ok)
	assert.False(t, s.IsFree(1))
	assert.Equal(t, []int{0, 1}, s.Tour().Vertices())
	checkPartition(t, s)
}

func TestSolutionClone(t *testing.T) {
	g := squareGraph(t, 10)
	s := NewSolution(newTour(t, g, []int{0, 1}))
	c := s.Clone()

	require.NoError(t, c.Insert(2, 1))
	assert.True(t, s.IsFree(2), "original free set mutated through clone")
	assert.Equal(t, 2, s.Tour().Len())
	assert.Equal(t, 3, c.Tour().Len())
}

func TestAddBestAny(t *testing.T) {
	g := squareGraph(t, 10)
	s := NewSolution(newTour(t, g, []int{0, 1, 3}))

	require.True(t, s.AddBestAny(2))
	assert.Equal(t, []int{0, 1, 2, 3}, s.Tour().Vertices())
	assert.InDelta(t, 4.0, s.TravelTime(), 1e-9)

	// Not free anymore.
	assert.False(t, s.AddBestAny(2))
}

func TestAddBestFeasible(t *testing.T) {
	g := squareGraph(t, 3)
	s := NewSolution(newTour(t, g, []int{0, 1, 3}))

	// Closing the square costs 4.0, over budget even with tolerance.
	assert.False(t, s.AddBestFeasible(2))
	assert.True(t, s.IsFree(2))
	checkPartition(t, s)

	// The unconstrained variant still inserts.
	require.True(t, s.AddBestAny(2))
	assert.False(t, s.Tour().Feasible())
}

func TestRestoreFeasibility(t *testing.T) {
	g := squareGraph(t, 3)
	s := NewSolution(newTour(t, g, []int{0, 1, 2, 3}))
	require.False(t, s.Tour().Feasible())

	// Restoration trims to the budget itself: any two corners cost
	// 1 + √2 + 1 ≈ 3.41 > 3, so a single corner survives.
	removed := s.RestoreFeasibility(true)
	assert.Len(t, removed, 2)
	assert.True(t, s.Tour().Feasible())
	assert.InDelta(t, 1.0, s.Prize(), 1e-9)
	for _, v := range removed {
		assert.True(t, s.IsFree(v))
	}
	checkPartition(t, s)
}

func TestFill(t *testing.T) {
	g := squareGraph(t, 10)
	s := NewSolution(newTour(t, g, []int{0, 1}))

	assert.Equal(t, 2, s.Fill(false))
	assert.Equal(t, 0, s.NumFree())
	assert.InDelta(t, 3.0, s.Prize(), 1e-9)
	assert.True(t, s.Tour().Feasible())
	checkPartition(t, s)

	// Nothing left to do.
	assert.Equal(t, 0, s.Fill(false))
}

func TestFillStopsAtBudget(t *testing.T) {
	g := squareGraph(t, 3)
	s := NewSolution(newTour(t, g, []int{0, 1, 3}))

	assert.Equal(t, 0, s.Fill(false))
	assert.Equal(t, 1, s.NumFree())
	assert.True(t, s.Tour().Feasible())
}
