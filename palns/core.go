package palns

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/katalvlaran/orienteering/cluster"
	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/params"
	"github.com/katalvlaran/orienteering/tour"
	"github.com/katalvlaran/orienteering/tsp"
)

// ErrNoOperators is returned when the parameters disable every destroy or
// every repair operator.
var ErrNoOperators = errors.New("palns: no destroy or repair operators enabled")

// Core is the adaptive search shell: it runs independent workers over
// cloned operator pools and reduces to the best tour found.
type Core struct {
	g      *op.Graph
	prob   params.Problem
	fw     params.Framework
	solver op.TSPSolver
	clst   *cluster.Clustering
	logger *slog.Logger

	destroys []Destroyer
	repairs  []Repairer
}

// Option configures a Core.
type Option func(*Core)

// WithTSPSolver replaces the default in-process solver used for tour
// polishing. Panics on nil.
func WithTSPSolver(s op.TSPSolver) Option {
	if s == nil {
		panic("palns: nil TSP solver")
	}
	return func(c *Core) { c.solver = s }
}

// WithClustering supplies a precomputed clustering for the cluster-based
// operators. Panics on nil.
func WithClustering(cl *cluster.Clustering) Option {
	if cl == nil {
		panic("palns: nil clustering")
	}
	return func(c *Core) { c.clst = cl }
}

// WithLogger replaces the default logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("palns: nil logger")
	}
	return func(c *Core) { c.logger = l }
}

// New builds a Core over g. When a cluster-based operator is enabled and no
// clustering was supplied, one is computed with auto-tuned DBSCAN; if that
// fails the cluster operators are skipped with a warning.
func New(g *op.Graph, prob params.Problem, fw params.Framework, opts ...Option) *Core {
	c := &Core{
		g:      g,
		prob:   prob,
		fw:     fw,
		solver: tsp.NewLocal(),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}

	wantCluster := prob.Destroy.EnableRandomCluster || prob.Repair.EnableCluster
	if wantCluster && c.clst == nil {
		cl, err := cluster.Auto(g)
		if err != nil {
			c.logger.Warn("clustering unavailable, cluster operators disabled",
				slog.String("graph", g.Name()),
				slog.String("error", err.Error()))
		} else {
			c.clst = cl
		}
	}

	d := prob.Destroy
	if d.EnableRandom {
		c.destroys = append(c.destroys,
			NewRandomRemove(d.Fraction, d.MaxFraction, d.MaxVertices, d.Adaptive))
	}
	if d.EnableRandomSeq {
		c.destroys = append(c.destroys,
			NewRandomSeqRemove(d.Fraction, d.MaxFraction, d.MaxVertices, d.Adaptive))
	}
	if d.EnableRandomCluster && c.clst != nil {
		c.destroys = append(c.destroys, NewRandomClusterRemove(c.clst, d.MaxVertices))
	}

	r := prob.Repair
	if r.EnableGreedy {
		c.repairs = append(c.repairs, NewGreedyRepair(r.Heuristic))
	}
	if r.EnableSeqRandom {
		c.repairs = append(c.repairs,
			NewSeqVertexRepair(r.Heuristic, r.IntermediateInfeasible, false))
	}
	if r.EnableSeqByPrize {
		c.repairs = append(c.repairs,
			NewSeqVertexRepair(r.Heuristic, r.IntermediateInfeasible, true))
	}
	if r.EnableCluster && c.clst != nil {
		c.repairs = append(c.repairs,
			NewRandomClusterRepair(c.clst, r.Heuristic, r.IntermediateInfeasible))
	}

	return c
}

// Result is the reduced outcome of a multi-start run.
type Result struct {
	Tour       *tour.Tour
	Worker     int // index of the worker that found the tour
	Iterations int // total iterations over all workers

	// NewBestCounts tallies, per operator name, how often an application of
	// that operator produced a new worker-local best.
	NewBestCounts map[string]int
}

// workerResult is one worker's contribution before reduction.
type workerResult struct {
	worker   int
	best     *Solution
	newBests map[string]int
	err      error
}

// Run searches from the initial tour and returns the best tour across all
// workers. Ties are broken by prize, then travel time, then worker index.
func (c *Core) Run(initial *tour.Tour) (*Result, error) {
	if len(c.destroys) == 0 || len(c.repairs) == 0 {
		return nil, ErrNoOperators
	}

	workers := c.fw.Workers
	if workers < 1 {
		workers = 1
	}

	// Derive the worker streams up front so spawn order cannot influence
	// the seeds.
	base := tsp.RNGFromSeed(c.fw.Seed)
	rngs := make([]*rand.Rand, workers)
	for i := range rngs {
		rngs[i] = tsp.DeriveRNG(base, uint64(i))
	}

	results := make([]workerResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = c.runWorker(idx, initial, rngs[idx])
		}(i)
	}
	wg.Wait()

	res := &Result{
		Worker:        -1,
		Iterations:    0,
		NewBestCounts: make(map[string]int),
	}
	var best *Solution
	for _, wr := range results {
		if wr.err != nil {
			return nil, wr.err
		}
		res.Iterations += c.fw.Iterations
		for name, n := range wr.newBests {
			res.NewBestCounts[name] += n
		}
		if best == nil || betterThan(wr.best, best) {
			best = wr.best
			res.Worker = wr.worker
		}
	}

	res.Tour = best.Tour()
	c.logger.Info("search finished",
		slog.String("graph", c.g.Name()),
		slog.Int("workers", workers),
		slog.Int("worker", res.Worker),
		slog.Float64("prize", res.Tour.Prize()),
		slog.Float64("travel_time", res.Tour.TravelTime()),
		slog.Int("tour_len", res.Tour.Len()))
	return res, nil
}

// betterThan ranks candidate over incumbent by prize, then travel time.
// Worker index order is preserved by the caller iterating ascending.
func betterThan(cand, inc *Solution) bool {
	if cand.Prize() != inc.Prize() {
		return cand.Prize() > inc.Prize()
	}
	return cand.TravelTime() < inc.TravelTime()
}

// runWorker owns one independent search: cloned operators, a private RNG,
// and a local incumbent.
func (c *Core) runWorker(idx int, initial *tour.Tour, rng *rand.Rand) workerResult {
	destroys := make([]Destroyer, len(c.destroys))
	for i, d := range c.destroys {
		destroys[i] = d.Clone()
	}
	repairs := make([]Repairer, len(c.repairs))
	for i, r := range c.repairs {
		repairs[i] = r.Clone()
	}

	var steerable []fractioned
	for _, d := range destroys {
		if f, ok := d.(fractioned); ok {
			steerable = append(steerable, f)
		}
	}
	visitor := &intensifier{
		ls:        c.prob.LocalSearch,
		heuristic: c.prob.Repair.Heuristic,
		destroys:  steerable,
		solver:    c.solver,
		logger:    c.logger,
	}

	acc := newAcceptance(c.fw.Acceptance)

	var (
		iters   = c.fw.Iterations
		segment = c.fw.SegmentLength
		stall   = 0
		total   = c.g.TotalPrize()
		wD      = uniformWeights(len(destroys))
		wR      = uniformWeights(len(repairs))
		counts  = make(map[string]int)
	)
	if segment < 1 {
		segment = 1
	}

	cur := NewSolution(initial.Clone())
	best := cur.Clone()
	visitor.OnAlgorithmStart(cur)

	for it := 0; it < iters; it++ {
		progress := float64(it) / float64(iters)
		di := roulette(wD, rng)
		ri := roulette(wR, rng)

		cand := cur.Clone()
		destroys[di].Apply(cand, rng)
		repairs[ri].Apply(cand, rng)

		if c.prob.Repair.IntermediateInfeasible && c.prob.Repair.TwoOptBeforeFeasibility {
			cand.Tour().TwoOpt()
		}
		if !cand.Tour().Feasible() {
			cand.RestoreFeasibility(rng.Float64() < c.prob.Repair.RestoreFeasibilityOptimal)
		}
		if err := cand.Tour().CheckTravelTime(); err != nil {
			return workerResult{worker: idx, err: fmt.Errorf("palns: worker %d: %w", idx, err)}
		}

		newBest := cand.Prize() > best.Prize()
		improved := cand.Prize() > cur.Prize()
		visitor.OnIterationEnd(Status{
			Iteration: it,
			NewBest:   newBest,
			Improved:  improved,
		}, cand)

		newCost := total - cand.Prize()
		curCost := total - cur.Prize()
		bestCost := total - best.Prize()
		accepted := acc.Accept(newCost, curCost, bestCost, progress, rng)

		var score float64
		switch {
		case newBest:
			score = c.fw.ScoreGlobalBest
			counts[destroys[di].Name()]++
			counts[repairs[ri].Name()]++
		case improved:
			score = c.fw.ScoreImproved
		case accepted:
			score = c.fw.ScoreAccepted
		}
		wD[di] += score
		wR[ri] += score

		if newBest {
			best = cand.Clone()
			stall = 0
		} else {
			stall++
		}
		if accepted {
			cur = cand
		}

		if stall >= c.fw.StallLimit && c.fw.StallLimit > 0 {
			visitor.OnManyItersWithoutImprovement()
			if sa, ok := acc.(*annealing); ok {
				sa.reheat()
			}
			stall = 0
		}

		if (it+1)%segment == 0 {
			decay(wD, c.fw.ScoreDecay)
			decay(wR, c.fw.ScoreDecay)
			if it+1 == segment {
				visitor.OnPrerunEnd()
			}
		}
	}

	// Exhaustive final fill: the heuristic candidate pruning is a speed
	// trade-off the last pass does not need.
	NewGreedyRepair(false).Apply(best, rng)

	return workerResult{worker: idx, best: best, newBests: counts}
}

// Solve constructs the initial solution with the greedy heuristic and runs
// the search.
func Solve(g *op.Graph, prob params.Problem, fw params.Framework, opts ...Option) (*Result, error) {
	c := New(g, prob, fw, opts...)
	initial, err := Greedy(g, prob, c.solver, tsp.RNGFromSeed(fw.Seed), c.logger)
	if err != nil {
		return nil, err
	}
	return c.Run(initial)
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// roulette samples an index proportionally to the weights.
func roulette(w []float64, rng *rand.Rand) int {
	sum := 0.0
	for _, x := range w {
		sum += x
	}
	r := rng.Float64() * sum
	for i, x := range w {
		r -= x
		if r < 0 {
			return i
		}
	}
	return len(w) - 1
}

func decay(w []float64, factor float64) {
	for i := range w {
		w[i] *= factor
	}
}
