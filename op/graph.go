package op

import (
	"log/slog"
	"math"
)

// Option customizes graph construction.
type Option func(*buildConfig)

type buildConfig struct {
	k      int
	logger *slog.Logger
}

// WithProximityK overrides the size of the per-vertex proximity lists.
// Panics if k < 1 (static misconfiguration, not a runtime condition).
func WithProximityK(k int) Option {
	if k < 1 {
		panic("op: proximity K must be at least 1")
	}
	return func(c *buildConfig) { c.k = k }
}

// WithLogger sets the structured logger used during construction.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("op: nil logger")
	}
	return func(c *buildConfig) { c.logger = l }
}

func defaultBuildConfig() buildConfig {
	return buildConfig{k: DefaultProximityK, logger: slog.Default()}
}

// Graph is the immutable problem instance shared by all solver components.
type Graph struct {
	name   string
	budget float64
	euclid bool

	n        int
	vertices []Vertex
	tt       []float64 // dense n×n travel times, tt[v*n+w]

	reachable []int // non-depot reachable vertex ids, ascending
	prox      [][]Neighbor

	tree geoIndex

	minX, maxX         float64
	minY, maxY         float64
	minPrize, maxPrize float64
	totalPrize         float64
}

// New builds a graph from vertex coordinates and prizes, with Euclidean
// travel times. Vertex 0 is the depot; its prize still counts toward tour
// totals. len(coords) must equal len(prizes) and be at least 2.
func New(name string, coords []Point, prizes []float64, budget float64, opts ...Option) (*Graph, error) {
	n := len(coords)
	if len(prizes) != n {
		return nil, ErrDimensionMismatch
	}
	if n < 2 {
		return nil, ErrVertexCount
	}
	tt := make([]float64, n*n)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			d := coords[i].Dist(coords[j])
			tt[i*n+j] = d
			tt[j*n+i] = d
		}
	}
	return build(name, tt, coords, prizes, budget, true, opts)
}

// NewFromMatrix builds a graph from an explicit travel-time matrix. Matrix
// travel times are authoritative; coordinates are still required because the
// geometric index and the clustering operate on them.
func NewFromMatrix(name string, dist [][]float64, coords []Point, prizes []float64, budget float64, opts ...Option) (*Graph, error) {
	n := len(dist)
	if len(coords) != n || len(prizes) != n {
		return nil, ErrDimensionMismatch
	}
	if n < 2 {
		return nil, ErrVertexCount
	}
	tt := make([]float64, n*n)
	var i, j int
	for i = 0; i < n; i++ {
		if len(dist[i]) != n {
			return nil, ErrDimensionMismatch
		}
		for j = 0; j < n; j++ {
			tt[i*n+j] = dist[i][j]
		}
	}
	return build(name, tt, coords, prizes, budget, false, opts)
}

func build(name string, tt []float64, coords []Point, prizes []float64, budget float64, euclid bool, opts []Option) (*Graph, error) {
	if budget <= 0 || math.IsInf(budget, 0) || math.IsNaN(budget) {
		return nil, ErrBadBudget
	}
	cfg := defaultBuildConfig()
	for _, o := range opts {
		o(&cfg)
	}

	for _, t := range tt {
		if t < 0 || math.IsNaN(t) {
			return nil, ErrNegativeWeight
		}
	}

	n := len(coords)
	g := &Graph{
		name:     name,
		budget:   budget,
		euclid:   euclid,
		n:        n,
		tt:       tt,
		vertices: make([]Vertex, n),
		minX:     math.Inf(1), maxX: math.Inf(-1),
		minY: math.Inf(1), maxY: math.Inf(-1),
		minPrize: math.Inf(1), maxPrize: math.Inf(-1),
	}

	var v int
	for v = 0; v < n; v++ {
		if prizes[v] < 0 {
			return nil, ErrNegativeWeight
		}
		// Half the budget out, half back: anything farther can never lie on
		// a feasible closed tour.
		reach := v == 0 || tt[v] <= budget/2
		g.vertices[v] = Vertex{
			ID:        v,
			Coord:     coords[v],
			Prize:     prizes[v],
			Depot:     v == 0,
			Reachable: reach,
		}
		if reach && v != 0 {
			g.reachable = append(g.reachable, v)
		}
		g.minX = math.Min(g.minX, coords[v].X)
		g.maxX = math.Max(g.maxX, coords[v].X)
		g.minY = math.Min(g.minY, coords[v].Y)
		g.maxY = math.Max(g.maxY, coords[v].Y)
		g.minPrize = math.Min(g.minPrize, prizes[v])
		g.maxPrize = math.Max(g.maxPrize, prizes[v])
		g.totalPrize += prizes[v]
	}

	g.buildIndex()
	g.buildProximity(cfg.k)

	cfg.logger.Debug("graph built",
		slog.String("instance", name),
		slog.Int("vertices", n),
		slog.Int("reachable", len(g.reachable)),
		slog.Float64("budget", budget))

	return g, nil
}

// Name returns the instance name.
func (g *Graph) Name() string { return g.name }

// Budget returns the global travel-time budget.
func (g *Graph) Budget() float64 { return g.budget }

// Euclidean reports whether travel times are Euclidean distances between the
// vertex coordinates (as opposed to an explicit matrix).
func (g *Graph) Euclidean() bool { return g.euclid }

// NumVertices returns the total vertex count, depot included.
func (g *Graph) NumVertices() int { return g.n }

// VertexByID returns the vertex with the given id.
func (g *Graph) VertexByID(id int) (Vertex, error) {
	if id < 0 || id >= g.n {
		return Vertex{}, ErrVertexOutOfRange
	}
	return g.vertices[id], nil
}

// Prize returns the prize of v. The id must be valid.
func (g *Graph) Prize(v int) float64 { return g.vertices[v].Prize }

// Coord returns the coordinate of v. The id must be valid.
func (g *Graph) Coord(v int) Point { return g.vertices[v].Coord }

// IsReachable reports whether v can appear on a feasible tour.
func (g *Graph) IsReachable(v int) bool { return g.vertices[v].Reachable }

// ReachableVertices returns a fresh copy of the non-depot reachable vertex
// ids in ascending order.
func (g *Graph) ReachableVertices() []int {
	out := make([]int, len(g.reachable))
	copy(out, g.reachable)
	return out
}

// NumReachable returns the count of non-depot reachable vertices.
func (g *Graph) NumReachable() int { return len(g.reachable) }

// TravelTime returns the travel time between v and w. It returns 0 when
// v == w and ErrNotAdjacent when the pair has no edge (either endpoint
// unreachable).
func (g *Graph) TravelTime(v, w int) (float64, error) {
	if v < 0 || v >= g.n || w < 0 || w >= g.n {
		return 0, ErrVertexOutOfRange
	}
	if v == w {
		return 0, nil
	}
	if !g.vertices[v].Reachable || !g.vertices[w].Reachable {
		return 0, ErrNotAdjacent
	}
	return g.tt[v*g.n+w], nil
}

// MustTravelTime is the hot-path variant of TravelTime: it panics on a
// non-adjacent pair. A non-adjacent lookup is an invariant violation, never
// a recoverable runtime condition.
func (g *Graph) MustTravelTime(v, w int) float64 {
	t, err := g.TravelTime(v, w)
	if err != nil {
		panic(err)
	}
	return t
}

// DepotDistance returns the travel time from the depot to v, for any v
// (reachable or not). The id must be valid.
func (g *Graph) DepotDistance(v int) float64 { return g.tt[v] }

// TotalPrize returns the summed prize over all vertices.
func (g *Graph) TotalPrize() float64 { return g.totalPrize }

// PrizeRange returns the minimum and maximum vertex prize.
func (g *Graph) PrizeRange() (min, max float64) { return g.minPrize, g.maxPrize }

// Bounds returns the bounding box of all vertex coordinates.
func (g *Graph) Bounds() (min, max Point) {
	return Point{g.minX, g.minY}, Point{g.maxX, g.maxY}
}
