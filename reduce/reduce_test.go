package reduce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/orienteering/cluster"
	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/reduce"
	"github.com/katalvlaran/orienteering/tour"
	"github.com/katalvlaran/orienteering/tsp"
)

// twoGroups: depot between two tight collinear groups of five vertices.
func twoGroups(t *testing.T) *op.Graph {
	t.Helper()
	coords := []op.Point{{X: 50, Y: 0}}
	prizes := []float64{0}
	for i := 0; i < 5; i++ {
		coords = append(coords, op.Point{X: float64(i), Y: 0})
		prizes = append(prizes, 1)
	}
	for i := 0; i < 5; i++ {
		coords = append(coords, op.Point{X: float64(100 + i), Y: 0})
		prizes = append(prizes, 1)
	}
	g, err := op.New("twogroups", coords, prizes, 400)
	require.NoError(t, err)
	return g
}

func clusteredTwoGroups(t *testing.T) (*op.Graph, *cluster.Clustering) {
	t.Helper()
	g := twoGroups(t)
	c, err := cluster.Run(g, 1.0, 2)
	require.NoError(t, err)
	require.Equal(t, 2, c.NumClusters())
	return g, c
}

func TestFromClustering_Validation(t *testing.T) {
	g, c := clusteredTwoGroups(t)
	other := twoGroups(t)

	t.Run("clustering from another graph", func(t *testing.T) {
		_, err := reduce.FromClustering(other, c, tsp.NewLocal())
		assert.ErrorIs(t, err, reduce.ErrGraphMismatch)
	})

	t.Run("nil solver", func(t *testing.T) {
		_, err := reduce.FromClustering(g, c, nil)
		assert.ErrorIs(t, err, reduce.ErrNilSolver)
	})

	t.Run("budget option rejects non-positive", func(t *testing.T) {
		assert.Panics(t, func() { reduce.WithBudget(0) })
		assert.Panics(t, func() { reduce.WithBudget(-1) })
	})
}

func TestFromClustering_MetaGraph(t *testing.T) {
	g, c := clusteredTwoGroups(t)

	r, err := reduce.FromClustering(g, c, tsp.NewLocal())
	require.NoError(t, err)

	rg := r.Graph()
	require.Equal(t, 3, rg.NumVertices(), "depot plus one vertex per cluster")
	assert.Same(t, g, r.Original())
	assert.Equal(t, g.Budget(), rg.Budget())

	// Depot keeps the identity mapping; clusters carry their members.
	assert.Equal(t, []int{0}, r.Mapping(0))
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, r.Mapping(1))
	assert.ElementsMatch(t, []int{6, 7, 8, 9, 10}, r.Mapping(2))

	// Cluster prizes are summed, centroids prize-weighted means.
	assert.InDelta(t, 5.0, rg.Prize(1), 1e-9)
	assert.InDelta(t, 2.0, rg.Coord(1).X, 1e-9)
	assert.InDelta(t, 102.0, rg.Coord(2).X, 1e-9)

	// Collinear five-vertex groups have an out-and-back optimal cycle of 8.
	_, length, ok := r.ClusterTSP(1)
	require.True(t, ok)
	assert.InDelta(t, 8.0, length, 1e-6)

	_, _, ok = r.ClusterTSP(0)
	assert.False(t, ok, "singleton vertices own no member tour")
}

func TestFromClustering_TravelTimesIncludeHalves(t *testing.T) {
	g, c := clusteredTwoGroups(t)

	r, err := reduce.FromClustering(g, c, tsp.NewLocal())
	require.NoError(t, err)
	rg := r.Graph()

	// depot↔cluster: centroid distance + half the cluster's cycle.
	d, err := rg.TravelTime(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 48+4, d, 1e-6)

	// cluster↔cluster: centroid distance + both halves.
	d, err = rg.TravelTime(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 100+4+4, d, 1e-6)
}

func TestFromClustering_BudgetOverride(t *testing.T) {
	g, c := clusteredTwoGroups(t)

	r, err := reduce.FromClustering(g, c, tsp.NewLocal(), reduce.WithBudget(250))
	require.NoError(t, err)
	assert.InDelta(t, 250.0, r.Graph().Budget(), 1e-9)
}

func TestProjectBack_Roundtrip(t *testing.T) {
	g, c := clusteredTwoGroups(t)
	r, err := reduce.FromClustering(g, c, tsp.NewLocal())
	require.NoError(t, err)

	rt, err := tour.New(r.Graph(), []int{0, 1, 2})
	require.NoError(t, err)

	full, err := r.ProjectBack(rt)
	require.NoError(t, err)

	assert.Same(t, g, full.Graph())
	require.Equal(t, g.NumVertices(), full.Len())
	assert.Equal(t, 0, full.At(0), "projection keeps the depot first")
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, full.Vertices())

	// Members of each cluster stay contiguous in the expansion.
	seq := full.Vertices()
	inFirst := func(v int) bool { return v >= 1 && v <= 5 }
	switches := 0
	for i := 1; i < len(seq); i++ {
		if inFirst(seq[i]) != inFirst(seq[i-1]) {
			switches++
		}
	}
	assert.LessOrEqual(t, switches, 3)
}

func TestProjectBack_ForeignTour(t *testing.T) {
	g, c := clusteredTwoGroups(t)
	r, err := reduce.FromClustering(g, c, tsp.NewLocal())
	require.NoError(t, err)

	foreign, err := tour.New(g, []int{0, 1})
	require.NoError(t, err)

	_, err = r.ProjectBack(foreign)
	assert.ErrorIs(t, err, reduce.ErrGraphMismatch)
}

func TestReduceAgain_ComposesMappings(t *testing.T) {
	g, c := clusteredTwoGroups(t)
	r, err := reduce.FromClustering(g, c, tsp.NewLocal())
	require.NoError(t, err)

	// Group the two meta vertices into one; proper single-cluster case.
	c2, err := cluster.Run(r.Graph(), 150, 2)
	require.NoError(t, err)
	require.True(t, c2.IsProper())

	r2, err := r.ReduceAgain(c2, tsp.NewLocal())
	require.NoError(t, err)

	require.Equal(t, 2, r2.Graph().NumVertices())
	assert.Equal(t, []int{0}, r2.Mapping(0))
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, r2.Mapping(1))
	assert.Same(t, g, r2.Original())
}

func TestRecursive_StopsAtTarget(t *testing.T) {
	g := twoGroups(t)

	r, err := reduce.Recursive(g, reduce.DefaultReductionFactor, tsp.NewLocal())
	require.NoError(t, err)
	// ceil(11·0.25) = 3: the first level already reaches the target.
	assert.Equal(t, 3, r.Graph().NumVertices())
}

func TestRecursive_ImproperClustering(t *testing.T) {
	// A depot with a single companion cannot support any clustering.
	coords := []op.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	g, err := op.New("sparse", coords, []float64{0, 1}, 10)
	require.NoError(t, err)

	_, err = reduce.Recursive(g, reduce.DefaultReductionFactor, tsp.NewLocal())
	assert.ErrorIs(t, err, reduce.ErrNotProper)
}
