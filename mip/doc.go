// Package mip defines a small binary-programming surface with
// lazy-constraint callbacks, plus an in-process branch-and-bound solver.
//
// The Solver interface is the seam for external MIP engines; BranchBound is
// the bundled implementation, adequate for the reduced graphs the
// branch-and-cut layer produces (a few dozen vertices) and for tests.
//
// Design:
//   - Binary variables only; constraints are sparse linear rows with
//     ≤ / = / ≥ senses.
//   - Separators are invoked synchronously on every integer-feasible leaf;
//     constraints they add join the active model for the rest of the search.
//   - Strict sentinel errors; best-so-far is returned with Optimal=false
//     when the node limit strikes first.
//
// Complexity:
//   - BranchBound: worst case exponential in the variable count; fixing or
//     releasing a variable updates only the rows it appears in, while the
//     per-node feasibility check scans every row.
package mip
