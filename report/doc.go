// Package report writes solver outputs: per-instance solution documents
// (JSON or CSV) and the cumulative operator-score artifact shared by
// repeated runs.
//
// CSV output appends, writing the header only when the file is created, so
// a batch of runs over an instance set accumulates into one table. The
// score artifact is a JSON map of operator name to cumulative new-best
// count; concurrent runs serialize their read-modify-write through an
// advisory file lock.
package report
