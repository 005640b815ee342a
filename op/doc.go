// Package op defines the core data model of the orienteering solver: an
// immutable graph over a depot and a set of prize-carrying vertices, with a
// travel-time budget, a geometric index, and a k-nearest proximity map.
//
// Design:
//   - The graph is built once (New / NewFromMatrix) and then shared read-only
//     by every solver component; no mutation API exists after construction.
//   - A vertex is reachable iff its depot travel time is at most half the
//     budget; the reachable subgraph is a complete undirected clique.
//   - Travel times live in a dense n×n buffer; pair lookup is O(1).
//   - WithinRadius / WithinRadii run a bounding-box prefilter on an R-tree
//     over vertex coordinates, then an exact Euclidean check.
//   - Proximity(v) returns up to K nearest non-depot reachable neighbors of v
//     ordered by travel time, computed once by bounded selection.
//
// Contracts:
//   - Vertex 0 is the depot and the only depot; it is always reachable.
//   - TravelTime(v, w) returns ErrNotAdjacent when v ≠ w and either endpoint
//     is unreachable; it returns 0 when v == w.
//   - All query methods are safe for concurrent use.
//
// Complexity:
//   - Construction: O(n²) time for the travel matrix and O(n·K + n²) for the
//     proximity map; O(n log n) R-tree inserts.
//   - TravelTime: O(1). WithinRadius: O(k + log n) expected, k result size.
package op
