package bc

import "github.com/katalvlaran/orienteering/mip"

// separator cuts subtours off integer incumbents. The depot cycle is
// legitimate; every other cycle C is eliminated with
// Σ_{e with both endpoints in C} x_e ≤ |C| − 1.
type separator struct {
	md    *model
	calls int
	cuts  int
}

// Separate implements mip.Separator.
func (s *separator) Separate(x []float64, add mip.AddLazy) int {
	s.calls++
	adj := s.md.selectedAdjacency(x)
	visited := make([]bool, s.md.m)
	walkCycle(adj, visited, 0)

	added := 0
	for v := 0; v < s.md.m; v++ {
		if visited[v] || len(adj[v]) == 0 {
			continue
		}
		cycle := walkCycle(adj, visited, v)
		add(s.subtourCut(cycle))
		added++
	}
	s.cuts += added
	return added
}

// subtourCut builds the elimination row for a disconnected cycle: the edges
// inside it cannot all be selected at once.
func (s *separator) subtourCut(cycle []int) ([]mip.Term, mip.Op, float64) {
	terms := make([]mip.Term, 0, len(cycle)*(len(cycle)-1)/2)
	for a := 0; a < len(cycle); a++ {
		for b := a + 1; b < len(cycle); b++ {
			terms = append(terms, mip.Term{Var: s.md.xVar(cycle[a], cycle[b]), Coef: 1})
		}
	}
	return terms, mip.LE, float64(len(cycle) - 1)
}
