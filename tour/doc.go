// Package tour implements the mutable closed-walk primitive of the solver:
// a cyclic vertex sequence anchored at the depot, with constant-time
// insertion/removal pricing, delta-maintained travel-time and prize caches,
// best-improvement 2-opt, and two budget-feasibility restoration routines
// (greedy removal and an optimal label-setting variant over the chain DAG).
//
// Design:
//   - Vertex and edge sequences are parallel dynamic arrays; edge i joins
//     position i to position i+1 (mod length). No linked lists.
//   - All mutations update the cached totals by edge delta only and restore
//     the parallel-array invariant before returning.
//   - Cached totals are stabilized to 1e−9 after every delta to keep long
//     destroy/repair runs from drifting.
//
// Contracts:
//   - Position 0 always holds the depot.
//   - The vertex list is simple; membership is O(1) via a position index.
//   - A tour never shrinks below two vertices; removing the last non-depot
//     vertex is a no-op that returns false.
//   - CheckTravelTime recomputes the total from the graph and fails when the
//     cache has diverged by more than 0.5: that is a bug, not a condition.
//
// Complexity:
//   - PriceInsertion / PriceRemoval: O(1) (three edge lookups).
//   - AddVertex / RemoveVertexAt: O(n) array shifts.
//   - TwoOpt: O(n²) per scan, O(n) per accepted reversal.
//   - MakeFeasibleOptimal: O(n² · L) where L is the Pareto-front width.
package tour
