package tsp

import "errors"

var (
	// ErrNoVertices is returned when the vertex subset is empty.
	ErrNoVertices = errors.New("tsp: empty vertex subset")

	// ErrDuplicateVertex is returned when the subset repeats a vertex.
	ErrDuplicateVertex = errors.New("tsp: duplicate vertex in subset")

	// ErrSolverFailed is returned when the external binary exits non-zero.
	ErrSolverFailed = errors.New("tsp: external solver failed")

	// ErrNoTourFile is returned when the external solver produced no
	// solution artifact.
	ErrNoTourFile = errors.New("tsp: solution file not produced")

	// ErrBadTourFile is returned when the solution artifact cannot be
	// parsed back into a tour.
	ErrBadTourFile = errors.New("tsp: malformed solution file")
)
