package bc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/orienteering/bc"
	"github.com/katalvlaran/orienteering/op"
)

func TestSolve_CollectsEverythingWhenBudgetAllows(t *testing.T) {
	coords := []op.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	g, err := op.New("tri", coords, []float64{0, 1, 2}, 10)
	require.NoError(t, err)

	tr, err := bc.New().Solve(g)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{0, 1, 2}, tr.Vertices())
	assert.InDelta(t, 3.0, tr.Prize(), 1e-9)
	assert.InDelta(t, 1+1+1.4142135624, tr.TravelTime(), 1e-6)
	assert.True(t, tr.Feasible())
}

func TestSolve_TightBudgetDropsExpensiveVertex(t *testing.T) {
	// The detour through vertex 3 costs more than the budget allows; the
	// optimum keeps the cheap triangle.
	coords := []op.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 2, Y: 2},
	}
	g, err := op.New("tight", coords, []float64{0, 1, 1, 5}, 6)
	require.NoError(t, err)

	tr, err := bc.New().Solve(g)
	require.NoError(t, err)

	assert.True(t, tr.Feasible())
	assert.False(t, tr.Contains(3))
	assert.InDelta(t, 2.0, tr.Prize(), 1e-9)
}

func TestSolve_NoCycleFitsBudget(t *testing.T) {
	// Both companions are reachable, but every three-vertex cycle blows the
	// budget.
	coords := []op.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	g, err := op.New("narrow", coords, []float64{0, 1, 1}, 21)
	require.NoError(t, err)

	_, err = bc.New().Solve(g)
	assert.ErrorIs(t, err, bc.ErrNoTour)
}

func TestSolve_SubtourEliminationRegression(t *testing.T) {
	// Six vertices: two near the depot and a rich far triangle. Without
	// subtour cuts the incumbent would pair a depot cycle with a disjoint
	// far cycle (prize 32 at trivial cost). The only budget-feasible single
	// cycle through the far triangle skips the near vertices, so the true
	// optimum is prize 30.
	coords := []op.Point{
		{X: 0, Y: 0},
		{X: 0, Y: 30}, {X: 0, Y: 31},
		{X: 100, Y: 0}, {X: 101, Y: 0}, {X: 100.5, Y: 0.87},
	}
	prizes := []float64{0, 1, 1, 10, 10, 10}
	g, err := op.New("twocycles", coords, prizes, 210)
	require.NoError(t, err)

	tr, err := bc.New().Solve(g)
	require.NoError(t, err)

	assert.True(t, tr.Feasible())
	assert.InDelta(t, 30.0, tr.Prize(), 1e-9)
	assert.ElementsMatch(t, []int{0, 3, 4, 5}, tr.Vertices())
}

func TestSolve_UnreachableVerticesStayOut(t *testing.T) {
	coords := []op.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 500, Y: 0},
	}
	g, err := op.New("far", coords, []float64{0, 1, 1, 100}, 10)
	require.NoError(t, err)
	require.False(t, g.IsReachable(3))

	tr, err := bc.New().Solve(g)
	require.NoError(t, err)
	assert.False(t, tr.Contains(3))
	assert.InDelta(t, 2.0, tr.Prize(), 1e-9)
}

func TestNew_OptionValidation(t *testing.T) {
	assert.Panics(t, func() { bc.WithEngine(nil) })
}
