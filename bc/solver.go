package bc

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/orienteering/mip"
	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/tour"
)

// ErrNoTour is returned when no cycle through the depot fits the budget.
// The formulation needs at least two companions for the depot, so very
// tight budgets land here.
var ErrNoTour = errors.New("bc: no tour satisfies the budget")

// Option customizes a Solver.
type Option func(*Solver)

// WithEngine substitutes the MIP engine; the default is the in-process
// branch-and-bound.
func WithEngine(e mip.Solver) Option {
	if e == nil {
		panic("bc: nil engine")
	}
	return func(s *Solver) { s.engine = e }
}

// WithLogger routes solver diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

// Solver runs branch-and-cut on a graph. Instances are not safe for
// concurrent use; workers construct their own.
type Solver struct {
	engine mip.Solver
	logger *slog.Logger
}

// New returns a branch-and-cut solver backed by the bundled engine.
func New(opts ...Option) *Solver {
	s := &Solver{engine: mip.NewBranchBound(), logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Solve maximizes collected prize over single cycles through the depot
// within g's budget.
func (s *Solver) Solve(g *op.Graph) (*tour.Tour, error) {
	md := newModel(g)
	sep := &separator{md: md}

	sol, err := s.engine.Solve(md.build(), sep)
	if err != nil {
		if errors.Is(err, mip.ErrInfeasible) {
			return nil, fmt.Errorf("%w: %v", ErrNoTour, err)
		}
		return nil, fmt.Errorf("bc: mip engine: %w", err)
	}

	s.logger.Debug("branch and cut finished",
		slog.String("graph", g.Name()),
		slog.Float64("objective", sol.Objective),
		slog.Int("separator_calls", sep.calls),
		slog.Int("subtour_cuts", sep.cuts),
		slog.Bool("optimal", sol.Optimal))

	return md.extract(sol.X)
}

// extract walks the depot cycle of an integer solution and returns it as a
// tour on the underlying graph.
func (md *model) extract(x []float64) (*tour.Tour, error) {
	adj := md.selectedAdjacency(x)
	visited := make([]bool, md.m)
	cycle := walkCycle(adj, visited, 0)

	order := make([]int, len(cycle))
	for i, mi := range cycle {
		order[i] = md.verts[mi]
	}
	return tour.New(md.g, order)
}
