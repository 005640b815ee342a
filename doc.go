// Package orienteering solves the Orienteering Problem: select and order a
// subset of prize-bearing vertices into a closed tour from the depot whose
// travel time stays within a budget, maximizing the collected prize.
//
// The module is organized under focused subpackages:
//
//	op/      — instance model: vertices, prizes, distances, spatial index
//	tour/    — tour primitive: prize, travel time, feasibility, 2-opt
//	cluster/ — density-based vertex clustering for spatial operators
//	reduce/  — instance reduction around a clustering
//	tsp/     — tour-ordering solvers (local heuristics, external binary)
//	mip/     — generic mixed-integer model with branch-and-bound
//	bc/      — exact branch-and-cut solver for small instances
//	palns/   — parallel adaptive large neighborhood search
//	params/  — problem and framework parameter files
//	opfile/  — TSPLIB-style OP instance reader
//	report/  — solution documents and operator-score artifacts
//
// The cmd/opsolve command ties the pieces together into a CLI.
package orienteering
