// Package tsp - adapter around an LKH-compatible external solver.
//
// External exchanges TSPLIB artifacts with the binary through a per-call
// temp directory keyed by a UUID, so concurrent invocations never share
// files. Distances are scaled to integers on the way out; the returned
// length is recomputed from the graph's real travel times.
//
// Contracts:
//   - Subsets of up to three vertices are solved in process without
//     invoking the binary.
//   - The binary must accept a parameter file as its single argument and
//     write the tour named by OUTPUT_TOUR_FILE.
package tsp

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/orienteering/op"
)

// distScale converts float travel times to the integer weights TSPLIB
// EXPLICIT matrices require. 1e3 keeps meter-scale instances lossless.
const distScale = 1000

// defaultRunTimeout bounds a single external invocation.
const defaultRunTimeout = 5 * time.Minute

// ExternalOption customizes an External solver.
type ExternalOption func(*External)

// WithRuns sets the RUNS parameter passed to the binary. Panics on a
// non-positive value.
func WithRuns(n int) ExternalOption {
	if n < 1 {
		panic("tsp: runs must be positive")
	}
	return func(e *External) { e.runs = n }
}

// WithSeed fixes the SEED parameter passed to the binary.
func WithSeed(seed int64) ExternalOption {
	return func(e *External) { e.seed = seed }
}

// WithTimeout bounds a single invocation. Panics on a non-positive value.
func WithTimeout(d time.Duration) ExternalOption {
	if d <= 0 {
		panic("tsp: timeout must be positive")
	}
	return func(e *External) { e.timeout = d }
}

// WithExternalLogger routes the adapter's diagnostics to l.
func WithExternalLogger(l *slog.Logger) ExternalOption {
	return func(e *External) { e.logger = l }
}

// External shells out to an LKH-compatible binary. The zero value is not
// usable; build instances with NewExternal.
type External struct {
	binary  string
	runs    int
	seed    int64
	timeout time.Duration
	logger  *slog.Logger
}

// NewExternal returns an adapter around the binary at path.
func NewExternal(path string, opts ...ExternalOption) *External {
	e := &External{
		binary:  path,
		runs:    1,
		seed:    1,
		timeout: defaultRunTimeout,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Solve computes a closed tour over the given vertex subset of g by
// delegating to the external binary.
func (e *External) Solve(g *op.Graph, vertices []int) ([]int, float64, error) {
	if err := validateSubset(g, vertices); err != nil {
		return nil, 0, err
	}
	if len(vertices) <= 3 {
		return NewLocal().Solve(g, vertices)
	}

	dir, err := os.MkdirTemp("", "optsp-"+uuid.NewString())
	if err != nil {
		return nil, 0, fmt.Errorf("tsp: create artifact dir: %w", err)
	}
	defer os.RemoveAll(dir)

	var (
		problemPath = filepath.Join(dir, "problem.tsp")
		paramPath   = filepath.Join(dir, "problem.par")
		tourPath    = filepath.Join(dir, "problem.tour")
	)
	if err = e.writeProblem(problemPath, g, vertices); err != nil {
		return nil, 0, err
	}
	if err = e.writeParams(paramPath, problemPath, tourPath); err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binary, paramPath)
	cmd.Dir = dir
	if out, rerr := cmd.CombinedOutput(); rerr != nil {
		e.logger.Warn("external solver failed",
			slog.String("binary", e.binary),
			slog.Int("vertices", len(vertices)),
			slog.String("output", strings.TrimSpace(string(out))))
		return nil, 0, fmt.Errorf("%w: %v", ErrSolverFailed, rerr)
	}

	ord, err := e.readTour(tourPath, len(vertices))
	if err != nil {
		return nil, 0, err
	}

	out := make([]int, len(ord))
	for i, idx := range ord {
		out[i] = vertices[idx]
	}
	var length float64
	for i := range out {
		length += g.MustTravelTime(out[i], out[(i+1)%len(out)])
	}
	return out, round1e9(length), nil
}

// writeProblem emits a TSPLIB EXPLICIT/FULL_MATRIX problem file with
// travel times scaled to integers.
func (e *External) writeProblem(path string, g *op.Graph, vertices []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tsp: write problem file: %w", err)
	}
	defer f.Close()

	k := len(vertices)
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "NAME : %s\n", g.Name())
	fmt.Fprintln(w, "TYPE : TSP")
	fmt.Fprintf(w, "DIMENSION : %d\n", k)
	fmt.Fprintln(w, "EDGE_WEIGHT_TYPE : EXPLICIT")
	fmt.Fprintln(w, "EDGE_WEIGHT_FORMAT : FULL_MATRIX")
	fmt.Fprintln(w, "EDGE_WEIGHT_SECTION")
	var i, j int
	for i = 0; i < k; i++ {
		for j = 0; j < k; j++ {
			if j > 0 {
				fmt.Fprint(w, " ")
			}
			if i == j {
				fmt.Fprint(w, "0")
			} else {
				fmt.Fprint(w, int64(g.MustTravelTime(vertices[i], vertices[j])*distScale+0.5))
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "EOF")
	if err = w.Flush(); err != nil {
		return fmt.Errorf("tsp: write problem file: %w", err)
	}
	return nil
}

// writeParams emits the parameter file the binary receives as its single
// argument.
func (e *External) writeParams(path, problemPath, tourPath string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "PROBLEM_FILE = %s\n", problemPath)
	fmt.Fprintf(&b, "OUTPUT_TOUR_FILE = %s\n", tourPath)
	fmt.Fprintf(&b, "RUNS = %d\n", e.runs)
	fmt.Fprintf(&b, "SEED = %d\n", e.seed)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("tsp: write parameter file: %w", err)
	}
	return nil
}

// readTour parses the TOUR_SECTION of a TSPLIB tour file back into 0-based
// subset indices.
func (e *External) readTour(path string, k int) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoTourFile
		}
		return nil, fmt.Errorf("tsp: open tour file: %w", err)
	}
	defer f.Close()

	var (
		ord     = make([]int, 0, k)
		seen    = make([]bool, k)
		inTour  bool
		scanner = bufio.NewScanner(f)
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !inTour {
			if strings.HasPrefix(line, "TOUR_SECTION") {
				inTour = true
			}
			continue
		}
		if line == "-1" || line == "EOF" {
			break
		}
		for _, tok := range strings.Fields(line) {
			id, perr := strconv.Atoi(tok)
			if perr != nil {
				return nil, ErrBadTourFile
			}
			if id == -1 {
				break
			}
			idx := id - 1 // TSPLIB tours are 1-based
			if idx < 0 || idx >= k || seen[idx] {
				return nil, ErrBadTourFile
			}
			seen[idx] = true
			ord = append(ord, idx)
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("tsp: read tour file: %w", err)
	}
	if len(ord) != k {
		return nil, ErrBadTourFile
	}
	return ord, nil
}
