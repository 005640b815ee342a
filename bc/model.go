package bc

import (
	"github.com/katalvlaran/orienteering/mip"
	"github.com/katalvlaran/orienteering/op"
)

// model maps the reachable subgraph onto a binary program. Model indices
// are positions in verts; index 0 is always the depot.
type model struct {
	g     *op.Graph
	verts []int // model index → graph vertex id
	m     int   // reachable vertex count
}

func newModel(g *op.Graph) *model {
	verts := append([]int{0}, g.ReachableVertices()...)
	return &model{g: g, verts: verts, m: len(verts)}
}

// yVar returns the variable index of y for model vertex i.
func (md *model) yVar(i int) int { return i }

// xVar returns the variable index of the undirected edge between model
// vertices i and j, i ≠ j.
func (md *model) xVar(i, j int) int {
	if i > j {
		i, j = j, i
	}
	// Triangular row offset for pair (i, j), i < j.
	return md.m + i*(2*md.m-i-1)/2 + (j - i - 1)
}

// numVars counts y variables plus one x per vertex pair.
func (md *model) numVars() int { return md.m + md.m*(md.m-1)/2 }

// time returns the travel time between model vertices i and j.
func (md *model) time(i, j int) float64 {
	return md.g.MustTravelTime(md.verts[i], md.verts[j])
}

// build assembles the objective and the static rows; subtour elimination
// arrives lazily during the solve.
func (md *model) build() *mip.Model {
	p := mip.NewModel(md.numVars())

	var i, j int
	for i = 0; i < md.m; i++ {
		p.SetObjective(md.yVar(i), md.g.Prize(md.verts[i]))
	}

	// The depot is always part of the cycle.
	p.AddConstraint([]mip.Term{{Var: md.yVar(0), Coef: 1}}, mip.EQ, 1)

	// Budget over all selected edges.
	budget := make([]mip.Term, 0, md.m*(md.m-1)/2)
	for i = 0; i < md.m; i++ {
		for j = i + 1; j < md.m; j++ {
			budget = append(budget, mip.Term{Var: md.xVar(i, j), Coef: md.time(i, j)})
		}
	}
	p.AddConstraint(budget, mip.LE, md.g.Budget())

	// Degree: a visited vertex has exactly two incident edges.
	for i = 0; i < md.m; i++ {
		deg := make([]mip.Term, 0, md.m)
		for j = 0; j < md.m; j++ {
			if j == i {
				continue
			}
			deg = append(deg, mip.Term{Var: md.xVar(i, j), Coef: 1})
		}
		deg = append(deg, mip.Term{Var: md.yVar(i), Coef: -2})
		p.AddConstraint(deg, mip.EQ, 0)
	}

	// Coupling: an edge implies both endpoints.
	for i = 0; i < md.m; i++ {
		for j = i + 1; j < md.m; j++ {
			x := md.xVar(i, j)
			p.AddConstraint([]mip.Term{{Var: x, Coef: 1}, {Var: md.yVar(i), Coef: -1}}, mip.LE, 0)
			p.AddConstraint([]mip.Term{{Var: x, Coef: 1}, {Var: md.yVar(j), Coef: -1}}, mip.LE, 0)
		}
	}

	return p
}

// selectedAdjacency lists, per model vertex, its neighbors over edges with
// x rounded to 1, in ascending index order.
func (md *model) selectedAdjacency(x []float64) [][]int {
	adj := make([][]int, md.m)
	var i, j int
	for i = 0; i < md.m; i++ {
		for j = i + 1; j < md.m; j++ {
			if x[md.xVar(i, j)] > 0.5 {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	return adj
}

// walkCycle follows selected edges from start, always taking the first
// unvisited neighbor, and returns the cycle's vertices in visiting order.
// visited is updated in place.
func walkCycle(adj [][]int, visited []bool, start int) []int {
	cycle := []int{start}
	visited[start] = true
	cur := start
	for {
		next := -1
		for _, nb := range adj[cur] {
			if !visited[nb] {
				next = nb
				break
			}
		}
		if next == -1 {
			return cycle
		}
		visited[next] = true
		cycle = append(cycle, next)
		cur = next
	}
}
