// Package palns implements the parallel adaptive large-neighborhood search
// for the orienteering problem.
//
// A Solution pairs a tour with the set of free vertices (reachable,
// non-depot, not on the tour). Destroy operators move tour vertices back to
// the free set; repair operators insert free vertices, optionally pruned to
// spatial candidates via the graph's proximity map and expanding annulus
// scans. The adaptive core samples operators proportional to weights
// updated from observed outcomes, with pluggable acceptance criteria and a
// visitor that intensifies new bests.
//
// Design:
//   - Workers are independent: each owns its solution, RNG stream, and
//     operator clones; the shared graph and clustering are read-only.
//   - The free-vertex set and the tour always partition the reachable
//     non-depot vertices.
//   - Soft failures inside operators are boolean returns; invariant
//     violations abort the run.
package palns
