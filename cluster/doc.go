// Package cluster groups the reachable vertices of a graph into dense
// Euclidean clusters with DBSCAN, plus an automatic parameter tuner for the
// radius and the core-point threshold.
//
// Design:
//   - Neighborhoods come from the graph's geometric index (WithinRadius),
//     so expansion is O(k + log n) per point instead of O(n).
//   - The depot and every unreachable vertex are forced into noise; clusters
//     therefore contain only vertices a tour could actually visit.
//   - Auto-tuning derives the radius from the largest nearest-neighbor
//     distance, and the core threshold from the first plateau of the
//     neighborhood-size histogram (20 equal-width buckets).
//
// Contracts:
//   - Every returned cluster has at least MinPts members.
//   - Cluster centroids are prize-weighted means of member coordinates.
//   - A Clustering is immutable after construction.
package cluster
