package op

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineInstance returns depot-1-2 on a line with spacing 1, 2 and unit prizes.
func lineInstance(t *testing.T, budget float64) *Graph {
	t.Helper()
	g, err := New("line",
		[]Point{{0, 0}, {1, 0}, {3, 0}},
		[]float64{0, 1, 1},
		budget)
	require.NoError(t, err)
	return g
}

func TestNew_Validation(t *testing.T) {
	pts := []Point{{0, 0}, {1, 0}}
	tests := []struct {
		name   string
		coords []Point
		prizes []float64
		budget float64
		want   error
	}{
		{"prize count mismatch", pts, []float64{0}, 10, ErrDimensionMismatch},
		{"single vertex", pts[:1], []float64{0}, 10, ErrVertexCount},
		{"negative prize", pts, []float64{0, -1}, 10, ErrNegativeWeight},
		{"zero budget", pts, []float64{0, 1}, 0, ErrBadBudget},
		{"inf budget", pts, []float64{0, 1}, math.Inf(1), ErrBadBudget},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New("bad", tc.coords, tc.prizes, tc.budget)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReachability(t *testing.T) {
	// Budget 4: depot distance of vertex 2 is 3 > 4/2, so it is unreachable.
	g := lineInstance(t, 4)
	assert.True(t, g.IsReachable(0))
	assert.True(t, g.IsReachable(1))
	assert.False(t, g.IsReachable(2))
	assert.Equal(t, []int{1}, g.ReachableVertices())

	// Budget 6 brings vertex 2 within range.
	g = lineInstance(t, 6)
	assert.Equal(t, []int{1, 2}, g.ReachableVertices())
}

func TestTravelTime(t *testing.T) {
	g := lineInstance(t, 6)

	d, err := g.TravelTime(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d, 1e-12)

	d, err = g.TravelTime(2, 2)
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = g.TravelTime(0, 3)
	require.ErrorIs(t, err, ErrVertexOutOfRange)

	// Unreachable endpoint has no incident edges.
	g = lineInstance(t, 4)
	_, err = g.TravelTime(1, 2)
	require.ErrorIs(t, err, ErrNotAdjacent)
	assert.Panics(t, func() { g.MustTravelTime(1, 2) })
}

func TestNewFromMatrix(t *testing.T) {
	dist := [][]float64{
		{0, 5, 2},
		{5, 0, 4},
		{2, 4, 0},
	}
	coords := []Point{{0, 0}, {1, 1}, {2, 2}}
	g, err := NewFromMatrix("m", dist, coords, []float64{0, 3, 7}, 12, WithProximityK(5))
	require.NoError(t, err)
	assert.False(t, g.Euclidean())
	assert.InDelta(t, 5.0, g.MustTravelTime(0, 1), 1e-12)
	assert.InDelta(t, 10.0, g.TotalPrize(), 1e-12)

	_, err = g.VertexByID(9)
	require.ErrorIs(t, err, ErrVertexOutOfRange)

	_, err = NewFromMatrix("ragged", [][]float64{{0, 1}, {1}}, coords[:2], []float64{0, 1}, 4)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestWithinRadius(t *testing.T) {
	// 5 points on a cross around the origin plus the depot at the origin.
	coords := []Point{{0, 0}, {1, 0}, {-1, 0}, {0, 2}, {0, -2}, {5, 5}}
	prizes := []float64{0, 1, 1, 1, 1, 1}
	g, err := New("cross", coords, prizes, 100)
	require.NoError(t, err)

	got := g.WithinRadius(Point{0, 0}, 1.5)
	ids := idsOf(got)
	assert.ElementsMatch(t, []int{1, 2}, ids, "depot excluded, radius exact")

	got = g.WithinRadius(Point{0, 0}, 2.0)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, idsOf(got))
}

func TestWithinRadii(t *testing.T) {
	coords := []Point{{0, 0}, {1, 0}, {-1, 0}, {0, 2}, {0, -2}, {5, 5}}
	prizes := []float64{0, 1, 1, 1, 1, 1}
	g, err := New("cross", coords, prizes, 100)
	require.NoError(t, err)

	got := g.WithinRadii(Point{0, 0}, 1.5, 3)
	assert.ElementsMatch(t, []int{3, 4}, idsOf(got))

	// Inclusive at both ends.
	got = g.WithinRadii(Point{0, 0}, 1.0, 2.0)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, idsOf(got))
}

func TestProximity(t *testing.T) {
	g := lineInstance(t, 6)
	prox := g.Proximity(0)
	require.Len(t, prox, 2)
	assert.Equal(t, 1, prox[0].V)
	assert.InDelta(t, 1.0, prox[0].TravelTime, 1e-12)
	assert.Equal(t, 2, prox[1].V)
	assert.InDelta(t, 3.0, prox[1].TravelTime, 1e-12)

	// K bounds the list length.
	coords := make([]Point, 30)
	prizes := make([]float64, 30)
	for i := range coords {
		coords[i] = Point{float64(i), 0}
		prizes[i] = 1
	}
	prizes[0] = 0
	g2, err := New("long", coords, prizes, 1000, WithProximityK(4))
	require.NoError(t, err)
	prox = g2.Proximity(10)
	require.Len(t, prox, 4)
	for i := 1; i < len(prox); i++ {
		assert.LessOrEqual(t, prox[i-1].TravelTime, prox[i].TravelTime)
	}
}

func idsOf(vps []VertexPoint) []int {
	out := make([]int, len(vps))
	for i, vp := range vps {
		out[i] = vp.V
	}
	return out
}
