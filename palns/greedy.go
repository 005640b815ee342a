package palns

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/katalvlaran/orienteering/bc"
	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/params"
	"github.com/katalvlaran/orienteering/reduce"
	"github.com/katalvlaran/orienteering/tour"
)

// mipBudgetInflation loosens the reduced-graph budget before the exact
// solve; feasibility is restored after projecting back.
const mipBudgetInflation = 2.75

// ErrNoCompanions is returned when the depot has no reachable vertex to
// tour with.
var ErrNoCompanions = errors.New("palns: no reachable non-depot vertices")

// Greedy builds the initial solution. With clustering enabled it works on
// the recursively reduced graph (exactly via branch-and-cut when use_mip,
// otherwise by cheapest-score insertion) and projects back; without, it
// inserts vertices directly in the configured order. Local search and
// feasibility restoration run last.
func Greedy(g *op.Graph, p params.Problem, solver op.TSPSolver, rng *rand.Rand, logger *slog.Logger) (*tour.Tour, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		t   *tour.Tour
		err error
	)
	if p.Initial.UseClustering {
		t, err = greedyReduced(g, p, solver, logger)
		if err != nil {
			logger.Debug("reduction path unavailable, constructing directly",
				slog.String("graph", g.Name()),
				slog.String("reason", err.Error()))
			t = nil
		}
	}
	if t == nil {
		t, err = greedyDirect(g, p.Initial.VertexOrder, rng, logger)
		if err != nil {
			return nil, err
		}
	}

	s := NewSolution(t)
	if p.Initial.LocalSearch {
		t.TwoOpt()
		NewGreedyRepair(p.Repair.Heuristic).Apply(s, rng)
	}

	optimal := rng.Float64() < p.Repair.RestoreFeasibilityOptimal
	removed := s.RestoreFeasibility(optimal)

	logger.Info("initial solution constructed",
		slog.String("graph", g.Name()),
		slog.Float64("prize", t.Prize()),
		slog.Float64("travel_time", t.TravelTime()),
		slog.Int("tour_len", t.Len()),
		slog.Int("trimmed", len(removed)))
	return t, nil
}

// greedyReduced builds the tour on the recursively reduced graph and
// projects it back to the original.
func greedyReduced(g *op.Graph, p params.Problem, solver op.TSPSolver, logger *slog.Logger) (*tour.Tour, error) {
	var opts []reduce.Option
	if p.Initial.UseMIP {
		opts = append(opts, reduce.WithBudget(g.Budget()*mipBudgetInflation))
	}
	r, err := reduce.Recursive(g, reduce.DefaultReductionFactor, solver, opts...)
	if err != nil {
		return nil, err
	}

	var rt *tour.Tour
	if p.Initial.UseMIP {
		rt, err = bc.New(bc.WithLogger(logger)).Solve(r.Graph())
		if err != nil {
			return nil, err
		}
		rt.TwoOpt()
	} else {
		rt, err = seedTour(r.Graph(), nil)
		if err != nil {
			return nil, err
		}
		rs := NewSolution(rt)
		for _, v := range rs.FreeVertices() {
			rs.AddBestAny(v)
		}
	}

	return r.ProjectBack(rt)
}

// greedyDirect inserts every reachable vertex on the original graph in the
// configured order, ignoring the budget; restoration trims later.
func greedyDirect(g *op.Graph, order string, rng *rand.Rand, logger *slog.Logger) (*tour.Tour, error) {
	remaining := nonDepotReachable(g)
	if len(remaining) == 0 {
		return nil, ErrNoCompanions
	}

	switch order {
	case params.OrderPrize:
		sort.SliceStable(remaining, func(i, j int) bool {
			return g.Prize(remaining[i]) < g.Prize(remaining[j])
		})
	case params.OrderDistance:
		sort.SliceStable(remaining, func(i, j int) bool {
			return g.DepotDistance(remaining[i]) < g.DepotDistance(remaining[j])
		})
	case params.OrderRandom:
		rng.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})
	default:
		logger.Warn("unknown vertex order, using random",
			slog.String("vertex_order", order))
		rng.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})
	}

	t, err := seedTour(g, remaining)
	if err != nil {
		return nil, err
	}
	s := NewSolution(t)
	for _, v := range remaining {
		if s.IsFree(v) {
			s.AddBestAny(v)
		}
	}
	return t, nil
}

// seedTour starts a minimal depot tour with the first available companion.
// preferred, when non-empty, dictates the companion choice.
func seedTour(g *op.Graph, preferred []int) (*tour.Tour, error) {
	seed := -1
	if len(preferred) > 0 {
		seed = preferred[0]
	} else {
		for _, v := range g.ReachableVertices() {
			if v != 0 {
				seed = v
				break
			}
		}
	}
	if seed == -1 {
		return nil, ErrNoCompanions
	}
	t, err := tour.New(g, []int{0, seed})
	if err != nil {
		return nil, fmt.Errorf("palns: seed tour: %w", err)
	}
	return t, nil
}

// nonDepotReachable lists the insertable vertex ids.
func nonDepotReachable(g *op.Graph) []int {
	all := g.ReachableVertices()
	out := make([]int, 0, len(all))
	for _, v := range all {
		if v != 0 {
			out = append(out, v)
		}
	}
	return out
}
