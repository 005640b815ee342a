// Package tsp computes closed tours over subsets of an instance's vertices.
// It backs the cluster TSPs of the graph reduction and the local-search hook
// of the metaheuristic.
//
// Two interchangeable solvers are provided:
//   - Local: in-process nearest-neighbor construction followed by
//     deterministic first-improvement 2-opt over a dense prefetched matrix.
//   - External: an adapter around an LKH-compatible binary, exchanging
//     TSPLIB problem/parameter/tour files through a per-call temp directory
//     keyed by a UUID, so concurrent invocations never share artifacts.
//
// Design:
//   - Deterministic RNG policy: seed 0 maps to a fixed default; worker
//     streams are derived with a SplitMix64 finalizer.
//   - Costs are stabilized to 1e−9 before being returned.
//   - Strict sentinel errors; no fmt.Errorf in hot paths.
//
// Complexity:
//   - Local: O(k²) construction and O(iter·k²) 2-opt for a k-vertex subset.
package tsp
