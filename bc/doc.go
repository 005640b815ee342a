// Package bc solves the orienteering problem exactly with branch-and-cut.
//
// The formulation lives on the reachable subgraph: binary y_v per vertex,
// binary x_e per undirected edge, degree and coupling rows, a budget row,
// and subtour-elimination inequalities added lazily by a separator. The
// depot is pinned with y_0 = 1, so every solution is a single cycle through
// the depot covering at least three vertices.
//
// Design:
//   - The MIP engine is pluggable through mip.Solver; the bundled
//     branch-and-bound handles reduced graphs.
//   - The separator walks the depot cycle, then cuts every remaining cycle
//     C with Σ_{e⊆C} x_e ≤ |C|−1 over the edges inside C.
//   - Extraction walks the depot cycle in the same neighbor-scan order the
//     separator uses and returns a tour.Tour.
package bc
