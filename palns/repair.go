package palns

import (
	"math/rand"
	"sort"

	"github.com/katalvlaran/orienteering/cluster"
	"github.com/katalvlaran/orienteering/op"
)

// tabuLifetime is how many GreedyRepair calls a tabu pair outlives.
const tabuLifetime = 10000

// Repairer inserts free vertices into a solution's tour.
type Repairer interface {
	Name() string
	Apply(s *Solution, rng *rand.Rand)
	Clone() Repairer
}

// insertMode bundles the configured insertion flavor.
type insertMode struct {
	heuristic      bool // prune candidate positions spatially
	allowOverspend bool // permit over-budget intermediate tours
}

// insert applies the mode to one vertex.
func (m insertMode) insert(s *Solution, v int) bool {
	switch {
	case m.heuristic && m.allowOverspend:
		return s.HeurAddBestAny(v)
	case m.heuristic:
		return s.HeurAddBestFeasible(v)
	case m.allowOverspend:
		return s.AddBestAny(v)
	default:
		return s.AddBestFeasible(v)
	}
}

// tabuPair is a directed adjacency (a immediately before b) the greedy may
// not recreate while the pair is active.
type tabuPair struct{ a, b int }

// GreedyRepair inserts cheapest-score-first with a short-term tabu on the
// adjacencies it creates, so consecutive calls diversify instead of
// rebuilding the same micro-neighborhood.
type GreedyRepair struct {
	mode  insertMode
	tabu  map[tabuPair]int // pair → expiry call number
	calls int
}

// NewGreedyRepair builds the operator; heuristic selects spatially pruned
// candidate positions.
func NewGreedyRepair(heuristic bool) *GreedyRepair {
	return &GreedyRepair{
		mode: insertMode{heuristic: heuristic},
		tabu: make(map[tabuPair]int),
	}
}

func (g *GreedyRepair) Name() string { return "greedy_repair" }

// Clone copies the operator with an empty tabu memory; tabu state is
// worker-local by design.
func (g *GreedyRepair) Clone() Repairer {
	return &GreedyRepair{mode: g.mode, tabu: make(map[tabuPair]int)}
}

// candidate is one feasible insertion under maintenance.
type candidate struct {
	v     int
	pos   int
	dt    float64
	score float64
}

func (g *GreedyRepair) Apply(s *Solution, rng *rand.Rand) {
	g.calls++
	for p, expiry := range g.tabu {
		if expiry < g.calls {
			delete(g.tabu, p)
		}
	}

	budget := s.Graph().Budget() + op.BudgetTolerance
	cands := g.collect(s, budget)

	for len(cands) > 0 {
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].score != cands[j].score {
				return cands[i].score < cands[j].score
			}
			if cands[i].v != cands[j].v {
				return cands[i].v < cands[j].v
			}
			return cands[i].pos < cands[j].pos
		})

		pick := -1
		for i, c := range cands {
			pred := s.Tour().At(c.pos)
			succ := s.Tour().At((c.pos + 1) % s.Tour().Len())
			if g.tabu[tabuPair{pred, c.v}] >= g.calls || g.tabu[tabuPair{c.v, succ}] >= g.calls {
				continue
			}
			pick = i
			break
		}
		if pick == -1 {
			return
		}

		c := cands[pick]
		pred := s.Tour().At(c.pos)
		if err := s.Insert(c.v, c.pos); err != nil {
			return
		}
		succ := s.Tour().At((c.pos + 2) % s.Tour().Len())
		g.tabu[tabuPair{pred, c.v}] = g.calls + tabuLifetime
		g.tabu[tabuPair{c.v, succ}] = g.calls + tabuLifetime

		cands = g.maintain(s, cands, c, budget)
	}
}

// collect prices every free vertex at every candidate position and keeps
// the budget-respecting insertions.
func (g *GreedyRepair) collect(s *Solution, budget float64) []candidate {
	var out []candidate
	for _, v := range s.FreeVertices() {
		positions := s.allPositions()
		if g.mode.heuristic {
			positions = s.heurPositions(v)
		}
		for _, p := range positions {
			ins := s.Tour().PriceInsertion(v, p)
			if s.TravelTime()+ins.DeltaT > budget {
				continue
			}
			out = append(out, candidate{v: v, pos: p, dt: ins.DeltaT, score: ins.Score})
		}
	}
	return out
}

// maintain updates the candidate list after inserting done: drop entries
// for the same vertex, the same position, or a now-broken budget; shift
// positions past the insertion point; re-price the two fresh adjacencies
// for every still-free vertex.
func (g *GreedyRepair) maintain(s *Solution, cands []candidate, done candidate, budget float64) []candidate {
	kept := cands[:0]
	for _, c := range cands {
		if c.v == done.v || c.pos == done.pos {
			continue
		}
		if s.TravelTime()+c.dt > budget {
			continue
		}
		if c.pos > done.pos {
			c.pos++
		}
		kept = append(kept, c)
	}

	for _, v := range s.FreeVertices() {
		for _, p := range []int{done.pos, done.pos + 1} {
			ins := s.Tour().PriceInsertion(v, p)
			if s.TravelTime()+ins.DeltaT > budget {
				continue
			}
			kept = append(kept, candidate{v: v, pos: p, dt: ins.DeltaT, score: ins.Score})
		}
	}
	return kept
}

// SeqVertexRepair inserts a random-length prefix of the free vertices in a
// policy-defined order.
type SeqVertexRepair struct {
	mode    insertMode
	byPrize bool
	name    string
}

// NewSeqVertexRepair orders free vertices randomly, or by descending prize
// when byPrize is set.
func NewSeqVertexRepair(heuristic, allowOverspend, byPrize bool) *SeqVertexRepair {
	name := "seq_random_repair"
	if byPrize {
		name = "seq_prize_repair"
	}
	return &SeqVertexRepair{
		mode:    insertMode{heuristic: heuristic, allowOverspend: allowOverspend},
		byPrize: byPrize,
		name:    name,
	}
}

func (r *SeqVertexRepair) Name() string { return r.name }

func (r *SeqVertexRepair) Clone() Repairer {
	cp := *r
	return &cp
}

func (r *SeqVertexRepair) Apply(s *Solution, rng *rand.Rand) {
	free := s.FreeVertices()
	if len(free) == 0 {
		return
	}
	if r.byPrize {
		g := s.Graph()
		sort.SliceStable(free, func(i, j int) bool {
			return g.Prize(free[i]) > g.Prize(free[j])
		})
	} else {
		rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	}

	count := int(float64(len(free)) * rng.Float64())
	for i := 0; i < count; i++ {
		r.mode.insert(s, free[i])
	}
}

// RandomClusterRepair tries to insert every free vertex of one uniformly
// chosen cluster.
type RandomClusterRepair struct {
	c    *cluster.Clustering
	mode insertMode
}

// NewRandomClusterRepair requires a clustering of the solution's graph.
func NewRandomClusterRepair(c *cluster.Clustering, heuristic, allowOverspend bool) *RandomClusterRepair {
	if c == nil {
		panic("palns: nil clustering")
	}
	return &RandomClusterRepair{
		c:    c,
		mode: insertMode{heuristic: heuristic, allowOverspend: allowOverspend},
	}
}

func (r *RandomClusterRepair) Name() string { return "random_cluster_repair" }

func (r *RandomClusterRepair) Clone() Repairer {
	cp := *r
	return &cp
}

func (r *RandomClusterRepair) Apply(s *Solution, rng *rand.Rand) {
	if r.c.NumClusters() == 0 {
		return
	}
	cl := &r.c.Clusters[rng.Intn(r.c.NumClusters())]
	for _, v := range cl.Vertices {
		if s.IsFree(v) {
			r.mode.insert(s, v)
		}
	}
}
