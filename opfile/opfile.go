package opfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/orienteering/op"
)

var (
	// ErrBadHeader is returned when a "KEY : value" line does not parse.
	ErrBadHeader = errors.New("opfile: malformed header")

	// ErrBadDimension is returned when DIMENSION is missing or below 2.
	ErrBadDimension = errors.New("opfile: dimension must be at least 2")

	// ErrNoBudget is returned when COST_LIMIT is missing or non-positive.
	ErrNoBudget = errors.New("opfile: missing or non-positive COST_LIMIT")

	// ErrUnknownWeightType is returned for EDGE_WEIGHT_TYPE values other
	// than EUC_2D and EXPLICIT.
	ErrUnknownWeightType = errors.New("opfile: unsupported EDGE_WEIGHT_TYPE")

	// ErrUnknownWeightFormat is returned for unsupported EDGE_WEIGHT_FORMAT
	// values.
	ErrUnknownWeightFormat = errors.New("opfile: unsupported EDGE_WEIGHT_FORMAT")

	// ErrMissingSection is returned when a section the instance needs is
	// absent.
	ErrMissingSection = errors.New("opfile: missing section")

	// ErrBadSection is returned when section data does not parse.
	ErrBadSection = errors.New("opfile: malformed section")
)

const (
	weightEuc2D    = "EUC_2D"
	weightExplicit = "EXPLICIT"

	formatFullMatrix   = "FULL_MATRIX"
	formatUpperRow     = "UPPER_ROW"
	formatLowerDiagRow = "LOWER_DIAG_ROW"
)

// Load reads and parses the instance file at path.
func Load(path string, opts ...op.Option) (*op.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opfile: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(defaultName(path), f, opts...)
}

// defaultName strips directory and extension from an instance path; the
// NAME header overrides it when present.
func defaultName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// instance accumulates the parsed document before graph construction.
type instance struct {
	name         string
	dim          int
	budget       float64
	weightType   string
	weightFormat string

	coords  []op.Point
	display []op.Point
	prizes  []float64
	weights []float64
}

// Parse reads one instance document. name is the fallback instance name
// when the document has no NAME header.
func Parse(name string, r io.Reader, opts ...op.Option) (*op.Graph, error) {
	inst := instance{
		name:         name,
		weightType:   weightEuc2D,
		weightFormat: formatFullMatrix,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if key, val, ok := splitHeader(line); ok {
			if err := inst.setHeader(key, val); err != nil {
				return nil, err
			}
			continue
		}
		done, err := inst.readSection(strings.ToUpper(strings.TrimSuffix(line, ":")), sc)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("opfile: read: %w", err)
	}

	return inst.build(opts)
}

// splitHeader splits "KEY : value" lines; section keywords carry no colon.
func splitHeader(line string) (key, val string, ok bool) {
	i := strings.Index(line, ":")
	if i < 0 {
		return "", "", false
	}
	return strings.ToUpper(strings.TrimSpace(line[:i])), strings.TrimSpace(line[i+1:]), true
}

func (inst *instance) setHeader(key, val string) error {
	switch key {
	case "NAME":
		inst.name = val
	case "DIMENSION":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: DIMENSION %q", ErrBadHeader, val)
		}
		inst.dim = n
	case "COST_LIMIT":
		b, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%w: COST_LIMIT %q", ErrBadHeader, val)
		}
		inst.budget = b
	case "EDGE_WEIGHT_TYPE":
		t := strings.ToUpper(val)
		if t != weightEuc2D && t != weightExplicit {
			return fmt.Errorf("%w: %s", ErrUnknownWeightType, val)
		}
		inst.weightType = t
	case "EDGE_WEIGHT_FORMAT":
		f := strings.ToUpper(val)
		if f != formatFullMatrix && f != formatUpperRow && f != formatLowerDiagRow {
			return fmt.Errorf("%w: %s", ErrUnknownWeightFormat, val)
		}
		inst.weightFormat = f
	default:
		// TYPE, COMMENT, DISPLAY_DATA_TYPE and any library-specific extras.
	}
	return nil
}

// readSection dispatches one section keyword. Returns true on EOF.
func (inst *instance) readSection(keyword string, sc *bufio.Scanner) (bool, error) {
	switch keyword {
	case "EOF":
		return true, nil
	case "NODE_COORD_SECTION":
		pts, err := inst.readPoints(keyword, sc)
		if err != nil {
			return false, err
		}
		inst.coords = pts
	case "DISPLAY_DATA_SECTION":
		pts, err := inst.readPoints(keyword, sc)
		if err != nil {
			return false, err
		}
		inst.display = pts
	case "NODE_SCORE_SECTION":
		return false, inst.readScores(sc)
	case "EDGE_WEIGHT_SECTION":
		return false, inst.readWeights(sc)
	case "DEPOT_SECTION":
		return false, skipUntilMinusOne(sc)
	default:
		return false, fmt.Errorf("%w: unrecognized line %q", ErrBadSection, keyword)
	}
	return false, nil
}

// readPoints reads DIMENSION lines of "id x y".
func (inst *instance) readPoints(section string, sc *bufio.Scanner) ([]op.Point, error) {
	if inst.dim < 2 {
		return nil, fmt.Errorf("%w: %s before DIMENSION", ErrBadSection, section)
	}
	pts := make([]op.Point, inst.dim)
	for i := 0; i < inst.dim; i++ {
		fields, err := nextFields(sc, section)
		if err != nil {
			return nil, err
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %s line %q", ErrBadSection, section, strings.Join(fields, " "))
		}
		id, err := vertexID(fields[0], inst.dim)
		if err != nil {
			return nil, fmt.Errorf("%w: %s id %q", ErrBadSection, section, fields[0])
		}
		x, errX := strconv.ParseFloat(fields[1], 64)
		y, errY := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: %s coordinates for vertex %d", ErrBadSection, section, id+1)
		}
		pts[id] = op.Point{X: x, Y: y}
	}
	return pts, nil
}

// readScores reads DIMENSION lines of "id prize".
func (inst *instance) readScores(sc *bufio.Scanner) error {
	if inst.dim < 2 {
		return fmt.Errorf("%w: NODE_SCORE_SECTION before DIMENSION", ErrBadSection)
	}
	inst.prizes = make([]float64, inst.dim)
	for i := 0; i < inst.dim; i++ {
		fields, err := nextFields(sc, "NODE_SCORE_SECTION")
		if err != nil {
			return err
		}
		if len(fields) != 2 {
			return fmt.Errorf("%w: NODE_SCORE_SECTION line %q", ErrBadSection, strings.Join(fields, " "))
		}
		id, err := vertexID(fields[0], inst.dim)
		if err != nil {
			return fmt.Errorf("%w: NODE_SCORE_SECTION id %q", ErrBadSection, fields[0])
		}
		p, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("%w: NODE_SCORE_SECTION prize for vertex %d", ErrBadSection, id+1)
		}
		inst.prizes[id] = p
	}
	return nil
}

// readWeights collects the number of entries the declared format implies,
// spread over any number of lines.
func (inst *instance) readWeights(sc *bufio.Scanner) error {
	if inst.dim < 2 {
		return fmt.Errorf("%w: EDGE_WEIGHT_SECTION before DIMENSION", ErrBadSection)
	}
	want := weightCount(inst.weightFormat, inst.dim)
	inst.weights = make([]float64, 0, want)
	for len(inst.weights) < want {
		fields, err := nextFields(sc, "EDGE_WEIGHT_SECTION")
		if err != nil {
			return err
		}
		for _, f := range fields {
			w, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return fmt.Errorf("%w: EDGE_WEIGHT_SECTION entry %q", ErrBadSection, f)
			}
			inst.weights = append(inst.weights, w)
		}
	}
	if len(inst.weights) != want {
		return fmt.Errorf("%w: EDGE_WEIGHT_SECTION has %d entries, want %d",
			ErrBadSection, len(inst.weights), want)
	}
	return nil
}

func weightCount(format string, n int) int {
	switch format {
	case formatUpperRow:
		return n * (n - 1) / 2
	case formatLowerDiagRow:
		return n * (n + 1) / 2
	default:
		return n * n
	}
}

// matrix expands the flat weight list into a symmetric n×n matrix.
func (inst *instance) matrix() [][]float64 {
	n := inst.dim
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	k := 0
	switch inst.weightFormat {
	case formatUpperRow:
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				m[i][j] = inst.weights[k]
				m[j][i] = inst.weights[k]
				k++
			}
		}
	case formatLowerDiagRow:
		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				m[i][j] = inst.weights[k]
				m[j][i] = inst.weights[k]
				k++
			}
		}
	default: // FULL_MATRIX
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				m[i][j] = inst.weights[k]
				k++
			}
		}
	}
	return m
}

func (inst *instance) build(opts []op.Option) (*op.Graph, error) {
	if inst.dim < 2 {
		return nil, ErrBadDimension
	}
	if inst.budget <= 0 {
		return nil, ErrNoBudget
	}
	if inst.prizes == nil {
		return nil, fmt.Errorf("%w: NODE_SCORE_SECTION", ErrMissingSection)
	}

	coords := inst.coords
	if coords == nil {
		coords = inst.display
	}
	if coords == nil {
		return nil, fmt.Errorf("%w: NODE_COORD_SECTION or DISPLAY_DATA_SECTION", ErrMissingSection)
	}

	if inst.weightType == weightExplicit {
		if inst.weights == nil {
			return nil, fmt.Errorf("%w: EDGE_WEIGHT_SECTION", ErrMissingSection)
		}
		return op.NewFromMatrix(inst.name, inst.matrix(), coords, inst.prizes, inst.budget, opts...)
	}
	return op.New(inst.name, coords, inst.prizes, inst.budget, opts...)
}

// nextFields returns the fields of the next non-empty line.
func nextFields(sc *bufio.Scanner, section string) ([]string, error) {
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 {
			return fields, nil
		}
	}
	return nil, fmt.Errorf("%w: %s truncated", ErrBadSection, section)
}

// vertexID converts a 1-based file id into a 0-based vertex id.
func vertexID(field string, dim int) (int, error) {
	id, err := strconv.Atoi(field)
	if err != nil || id < 1 || id > dim {
		return 0, errors.New("bad id")
	}
	return id - 1, nil
}

func skipUntilMinusOne(sc *bufio.Scanner) error {
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "-1" {
			return nil
		}
	}
	return fmt.Errorf("%w: DEPOT_SECTION truncated", ErrBadSection)
}
