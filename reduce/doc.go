// Package reduce compresses a clustered graph into a meta-graph: each
// cluster becomes a single vertex at its prize-weighted centroid, carrying
// the summed prize and a precomputed Hamiltonian tour over its members (the
// cluster TSP). Tours found on the reduced graph project back to simple
// tours on the original.
//
// Design:
//   - Reduced edge travel time is the Euclidean distance between endpoint
//     coordinates plus half of each incident cluster's internal TSP length,
//     so the two edges of a visit together amortize the full TSP exactly once.
//   - Recursive reduction re-clusters the reduced graph until the vertex
//     count reaches min(⌈n·factor⌉, 50) or the clustering degenerates.
//   - Projection picks the cluster entry vertex minimizing the detour
//     dist(prev, entry) + dist(exit, next) − dist(exit, entry), with exit
//     the entry's TSP predecessor, then emits the cluster cycle from there.
//
// Contracts:
//   - Reduced vertex 0 is always the original depot with identity mapping.
//   - Mappings always name original-graph vertices, at every recursion level.
//   - A Reduced value is immutable after construction.
package reduce
