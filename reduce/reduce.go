package reduce

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/orienteering/cluster"
	"github.com/katalvlaran/orienteering/op"
)

// DefaultReductionFactor is the target shrink ratio of Recursive when the
// caller has no opinion.
const DefaultReductionFactor = 0.25

// reductionCap bounds the recursion target: below this size the exact MIP
// path is fast regardless of the original instance size.
const reductionCap = 50

var (
	// ErrNotProper is returned when the clustering cannot support a
	// reduction (no clusters, or one cluster covering everything).
	ErrNotProper = errors.New("reduce: clustering is not proper")

	// ErrNilSolver is returned when no TSP solver is supplied.
	ErrNilSolver = errors.New("reduce: nil TSP solver")

	// ErrGraphMismatch is returned when a clustering or a tour does not
	// live on the graph the operation expects.
	ErrGraphMismatch = errors.New("reduce: clustering or tour built on another graph")
)

// Option customizes a reduction.
type Option func(*buildConfig)

type buildConfig struct {
	budget float64 // 0 means inherit the original budget
}

// WithBudget overrides the reduced graph's travel-time budget. Panics on a
// non-positive value.
func WithBudget(b float64) Option {
	if b <= 0 {
		panic("reduce: budget must be positive")
	}
	return func(c *buildConfig) { c.budget = b }
}

// Reduced is a meta-graph over an original instance.
type Reduced struct {
	orig *op.Graph
	g    *op.Graph

	mapping [][]int         // reduced vertex → original vertex ids
	tspOrd  map[int][]int   // reduced vertex → cluster TSP visiting order
	tspLen  map[int]float64 // reduced vertex → cluster TSP cycle length
}

// FromClustering builds a one-level reduction of the clustering's graph.
// The clustering must be proper and must have been computed on orig.
func FromClustering(orig *op.Graph, c *cluster.Clustering, solver op.TSPSolver, opts ...Option) (*Reduced, error) {
	if c.Graph() != orig {
		return nil, ErrGraphMismatch
	}
	identity := make([][]int, orig.NumVertices())
	for v := range identity {
		identity[v] = []int{v}
	}
	return build(orig, orig, identity, nil, c, solver, opts)
}

// ReduceAgain reduces the reduced graph one more level, using a clustering
// computed on r's graph. Mappings in the result still name original-graph
// vertices.
func (r *Reduced) ReduceAgain(c *cluster.Clustering, solver op.TSPSolver, opts ...Option) (*Reduced, error) {
	if c.Graph() != r.g {
		return nil, ErrGraphMismatch
	}
	return build(r.orig, r.g, r.mapping, r, c, solver, opts)
}

// Recursive reduces orig until the vertex count reaches
// min(⌈n·factor⌉, 50) or the next clustering stops being proper. It fails
// with ErrNotProper when the very first clustering already is not.
func Recursive(orig *op.Graph, factor float64, solver op.TSPSolver, opts ...Option) (*Reduced, error) {
	c, err := cluster.Auto(orig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotProper, err)
	}
	if !c.IsProper() {
		return nil, ErrNotProper
	}
	r, err := FromClustering(orig, c, solver, opts...)
	if err != nil {
		return nil, err
	}

	target := int(math.Ceil(float64(orig.NumVertices()) * factor))
	if target > reductionCap {
		target = reductionCap
	}
	for r.g.NumVertices() > target {
		c, err = cluster.Auto(r.g)
		if err != nil || !c.IsProper() {
			break
		}
		next, rerr := r.ReduceAgain(c, solver, opts...)
		if rerr != nil {
			return nil, rerr
		}
		if next.g.NumVertices() >= r.g.NumVertices() {
			break
		}
		r = next
	}
	return r, nil
}

// build constructs a reduction of base (which maps into orig via baseMap).
// prev carries the base level's cluster TSPs so singleton-carried meta
// vertices do not recompute theirs.
func build(orig, base *op.Graph, baseMap [][]int, prev *Reduced, c *cluster.Clustering, solver op.TSPSolver, opts []Option) (*Reduced, error) {
	if solver == nil {
		return nil, ErrNilSolver
	}
	if !c.IsProper() {
		return nil, ErrNotProper
	}
	var cfg buildConfig
	for _, o := range opts {
		o(&cfg)
	}
	budget := cfg.budget
	if budget == 0 {
		budget = orig.Budget()
	}

	r := &Reduced{
		orig:   orig,
		tspOrd: make(map[int][]int),
		tspLen: make(map[int]float64),
	}

	var (
		coords []op.Point
		prizes []float64
	)

	// Reduced vertex 0: the depot, identity mapping.
	coords = append(coords, base.Coord(0))
	prizes = append(prizes, orig.Prize(0))
	r.mapping = append(r.mapping, []int{0})

	// One reduced vertex per cluster.
	for k := range c.Clusters {
		cl := &c.Clusters[k]
		coords = append(coords, cl.Centroid)
		prizes = append(prizes, cl.Prize)

		var members []int
		for _, bv := range cl.Vertices {
			members = append(members, baseMap[bv]...)
		}
		r.mapping = append(r.mapping, members)
	}

	// One reduced vertex per noise point, carrying its base mapping.
	for _, bv := range c.Noise {
		coords = append(coords, base.Coord(bv))
		prizes = append(prizes, base.Prize(bv))
		r.mapping = append(r.mapping, baseMap[bv])
		// A meta vertex demoted to noise keeps the TSP it already owns.
		if prev != nil && len(baseMap[bv]) > 1 {
			if ord, ok := prev.tspOrd[bv]; ok {
				rv := len(r.mapping) - 1
				r.tspOrd[rv] = ord
				r.tspLen[rv] = prev.tspLen[bv]
			}
		}
	}

	// Cluster TSPs over the original members.
	for rv, members := range r.mapping {
		if len(members) < 2 {
			continue
		}
		if _, done := r.tspOrd[rv]; done {
			continue
		}
		ord, length, err := solver.Solve(orig, members)
		if err != nil {
			return nil, fmt.Errorf("reduce: cluster tsp for meta vertex %d: %w", rv, err)
		}
		r.tspOrd[rv] = ord
		r.tspLen[rv] = length
	}

	// Reduced travel times: centroid distance plus half of each incident
	// cluster's TSP length.
	n := len(coords)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	var i, j int
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			d := coords[i].Dist(coords[j]) + r.tspLen[i]/2 + r.tspLen[j]/2
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	g, err := op.NewFromMatrix(orig.Name()+"/reduced", dist, coords, prizes, budget)
	if err != nil {
		return nil, err
	}
	r.g = g
	return r, nil
}

// Original returns the graph the reduction started from.
func (r *Reduced) Original() *op.Graph { return r.orig }

// Graph returns the reduced instance.
func (r *Reduced) Graph() *op.Graph { return r.g }

// Mapping returns the original vertices behind reduced vertex v. The slice
// is owned by the reduction and must not be modified.
func (r *Reduced) Mapping(v int) []int { return r.mapping[v] }

// ClusterTSP returns the precomputed member tour and its cycle length for a
// cluster-derived reduced vertex, or ok=false for singletons.
func (r *Reduced) ClusterTSP(v int) (order []int, length float64, ok bool) {
	ord, exists := r.tspOrd[v]
	return ord, r.tspLen[v], exists
}
