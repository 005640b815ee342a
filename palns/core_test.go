package palns

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/params"
	"github.com/katalvlaran/orienteering/tsp"
)

// randomGraph scatters n vertices over a 100×100 box with the depot at the
// origin and prizes in [1, 10].
func randomGraph(t *testing.T, n int, seed int64, budget float64) *op.Graph {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	coords := make([]op.Point, n)
	prizes := make([]float64, n)
	for i := 1; i < n; i++ {
		coords[i] = op.Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		prizes[i] = 1 + rng.Float64()*9
	}
	g, err := op.New("random", coords, prizes, budget)
	require.NoError(t, err)
	return g
}

func quietFramework() params.Framework {
	fw := params.DefaultFramework()
	fw.Workers = 2
	fw.Iterations = 200
	return fw
}

func TestSolveTrivialLine(t *testing.T) {
	g := lineGraph(t, 4)
	p := params.DefaultProblem()
	p.Initial.UseClustering = false
	fw := quietFramework()
	fw.Seed = 1

	res, err := Solve(g, p, fw)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, res.Tour.Prize(), 1e-9)
	assert.InDelta(t, 4.0, res.Tour.TravelTime(), 1e-9)
	assert.True(t, res.Tour.Feasible())
	assert.Equal(t, 400, res.Iterations)
}

func TestSolveTightSquare(t *testing.T) {
	// The full square costs 4.0; a 3.6 budget admits it only through the
	// feasibility tolerance, so the search has to find the exact closing
	// order.
	g := squareGraph(t, 3.6)
	p := params.DefaultProblem()
	p.Initial.UseClustering = false
	fw := quietFramework()
	fw.Seed = 1

	res, err := Solve(g, p, fw)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, res.Tour.Prize(), 1e-9)
	assert.True(t, res.Tour.Feasible())
}

func TestRunImprovesInitial(t *testing.T) {
	g := randomGraph(t, 50, 42, 300)
	p := params.DefaultProblem()
	fw := params.DefaultFramework()
	fw.Workers = 2
	fw.Iterations = 1000
	fw.Seed = 1

	c := New(g, p, fw)
	initial, err := Greedy(g, p, tsp.NewLocal(), tsp.RNGFromSeed(fw.Seed), nil)
	require.NoError(t, err)
	initPrize := initial.Prize()

	res, err := c.Run(initial)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Tour.Prize(), initPrize)
	assert.LessOrEqual(t, res.Tour.TravelTime(), g.Budget()+op.BudgetTolerance)
	assert.True(t, res.Tour.Feasible())
	assert.GreaterOrEqual(t, res.Worker, 0)
	assert.Less(t, res.Worker, 2)
}

func TestRunDeterministicForSeed(t *testing.T) {
	g := randomGraph(t, 30, 7, 250)
	p := params.DefaultProblem()
	fw := quietFramework()
	fw.Seed = 99

	run := func() float64 {
		res, err := Solve(g, p, fw)
		require.NoError(t, err)
		return res.Tour.Prize()
	}
	assert.Equal(t, run(), run())
}

func TestRunNoOperators(t *testing.T) {
	g := lineGraph(t, 4)
	p := params.DefaultProblem()
	p.Destroy.EnableRandom = false
	p.Destroy.EnableRandomSeq = false
	p.Destroy.EnableRandomCluster = false
	p.Initial.UseClustering = false

	c := New(g, p, quietFramework())
	_, err := c.Run(newTour(t, g, []int{0, 1}))
	require.ErrorIs(t, err, ErrNoOperators)
}

func TestNewBestCounts(t *testing.T) {
	g := randomGraph(t, 40, 11, 280)
	p := params.DefaultProblem()
	fw := quietFramework()
	fw.Seed = 3

	res, err := Solve(g, p, fw)
	require.NoError(t, err)

	// Every key must be a known operator name.
	known := map[string]bool{
		"random_remove": true, "random_seq_remove": true, "random_cluster_remove": true,
		"greedy_repair": true, "seq_random_repair": true, "seq_prize_repair": true,
		"random_cluster_repair": true,
	}
	for name := range res.NewBestCounts {
		assert.True(t, known[name], "unknown operator %q in counts", name)
	}
}

func TestOptionValidation(t *testing.T) {
	require.Panics(t, func() { WithTSPSolver(nil) })
	require.Panics(t, func() { WithClustering(nil) })
	require.Panics(t, func() { WithLogger(nil) })
}

func TestRoulette(t *testing.T) {
	rng := tsp.RNGFromSeed(1)

	// A dominant weight should collect almost every draw.
	w := []float64{0.001, 1000, 0.001}
	hits := 0
	for i := 0; i < 1000; i++ {
		if roulette(w, rng) == 1 {
			hits++
		}
	}
	assert.Greater(t, hits, 990)

	// Degenerate single entry.
	assert.Equal(t, 0, roulette([]float64{1}, rng))
}
