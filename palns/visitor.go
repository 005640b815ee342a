package palns

import (
	"log/slog"

	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/params"
	"github.com/katalvlaran/orienteering/tour"
)

// Status summarizes one iteration's outcome for visitor hooks.
type Status struct {
	Iteration int
	NewBest   bool
	Improved  bool
	Accepted  bool
}

// Visitor observes a worker's search. Hooks run synchronously on the
// worker's goroutine and may mutate the solution they receive.
type Visitor interface {
	OnAlgorithmStart(s *Solution)
	OnPrerunEnd()
	OnIterationEnd(st Status, s *Solution)
	OnManyItersWithoutImprovement()
}

// intensifier is the default visitor: it polishes new bests with local
// search plus a greedy fill, and steers destroy aggressiveness — maximal
// during warm-up, reset after a polish, multiplied on stagnation.
type intensifier struct {
	ls        params.LocalSearch
	heuristic bool
	destroys  []fractioned
	solver    op.TSPSolver
	logger    *slog.Logger

	resetPending bool
}

func (iv *intensifier) OnAlgorithmStart(_ *Solution) {
	for _, d := range iv.destroys {
		d.setFraction(d.maxFraction())
	}
}

func (iv *intensifier) OnPrerunEnd() {
	for _, d := range iv.destroys {
		d.resetFraction()
	}
}

func (iv *intensifier) OnIterationEnd(st Status, s *Solution) {
	if !st.NewBest {
		return
	}
	if iv.ls.UseTSP && iv.solver != nil {
		iv.resolveTour(s)
	} else if iv.ls.UseTwoOpt {
		s.Tour().TwoOpt()
	}
	if iv.ls.FillTour {
		s.Fill(iv.heuristic)
	}
	iv.resetPending = true
}

func (iv *intensifier) OnManyItersWithoutImprovement() {
	if iv.resetPending {
		for _, d := range iv.destroys {
			d.resetFraction()
		}
		iv.resetPending = false
		return
	}
	for _, d := range iv.destroys {
		d.growFraction()
	}
}

// resolveTour reorders the tour's vertex set with the TSP solver and keeps
// the result when it is shorter.
func (iv *intensifier) resolveTour(s *Solution) {
	g := s.Graph()
	ord, _, err := iv.solver.Solve(g, s.Tour().Vertices())
	if err != nil {
		iv.logger.Warn("tsp polish failed",
			slog.String("graph", g.Name()),
			slog.String("error", err.Error()))
		return
	}

	// Rotate so the depot leads again.
	start := 0
	for i, v := range ord {
		if v == 0 {
			start = i
			break
		}
	}
	rotated := make([]int, len(ord))
	for i := range ord {
		rotated[i] = ord[(start+i)%len(ord)]
	}

	nt, err := tour.New(g, rotated)
	if err != nil || nt.TravelTime() >= s.TravelTime() {
		return
	}
	s.setTour(nt)
}
