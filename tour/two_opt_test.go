package tour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/orienteering/op"
)

// bigSquare is the unit square scaled by 10, so 2-opt gains clear the
// one-unit improvement floor.
func bigSquare(t *testing.T) *op.Graph {
	t.Helper()
	g, err := op.New("bigsquare",
		[]op.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		[]float64{0, 1, 1, 1},
		100)
	require.NoError(t, err)
	return g
}

func TestTwoOpt_UncrossesTour(t *testing.T) {
	g := bigSquare(t)
	tr, err := New(g, []int{0, 2, 1, 3}) // crossed diagonals
	require.NoError(t, err)
	crossed := tr.TravelTime()

	tr.TwoOpt()

	assert.Less(t, tr.TravelTime(), crossed)
	assert.InDelta(t, 40.0, tr.TravelTime(), 1e-6)
	assert.Equal(t, 0, tr.At(0))
	require.NoError(t, tr.CheckTravelTime())
}

func TestTwoOpt_Idempotent(t *testing.T) {
	g := bigSquare(t)
	tr, _ := New(g, []int{0, 2, 1, 3})
	tr.TwoOpt()
	first := tr.Vertices()
	tt := tr.TravelTime()

	tr.TwoOpt()
	assert.Equal(t, first, tr.Vertices())
	assert.InDelta(t, tt, tr.TravelTime(), 1e-9)
}

func TestTwoOpt_ShortTourNoOp(t *testing.T) {
	g := bigSquare(t)
	tr, _ := New(g, []int{0, 1, 2})
	before := tr.Vertices()
	tr.TwoOpt()
	assert.Equal(t, before, tr.Vertices())
}

func TestTwoOpt_IgnoresSubUnitGains(t *testing.T) {
	// Crossed tour on a square of side 0.1: the best possible gain is far
	// below the improvement floor, so the tour must stay untouched.
	g, err := op.New("smallsquare",
		[]op.Point{{X: 0, Y: 0}, {X: 0.1, Y: 0}, {X: 0.1, Y: 0.1}, {X: 0, Y: 0.1}},
		[]float64{0, 1, 1, 1},
		100)
	require.NoError(t, err)
	tr, err := New(g, []int{0, 2, 1, 3})
	require.NoError(t, err)
	before := tr.TravelTime()

	tr.TwoOpt()
	assert.InDelta(t, before, tr.TravelTime(), 1e-9)
}
