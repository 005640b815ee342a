package params

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// ErrBadDocument is returned when a parameter file is not valid JSON.
var ErrBadDocument = errors.New("params: document is not valid JSON")

// Vertex orderings accepted by initial_solution.vertex_order.
const (
	OrderRandom   = "random"
	OrderPrize    = "prize"
	OrderDistance = "distance"
)

// Acceptance criteria accepted by acceptance.criterion.
const (
	AcceptRecordToRecord = "record_to_record"
	AcceptSimulatedAnn   = "simulated_annealing"
	AcceptThreshold      = "threshold"
)

// Destroy configures the removal operators.
type Destroy struct {
	EnableRandom        bool
	EnableRandomSeq     bool
	EnableRandomCluster bool
	Fraction            float64 // share of tour vertices removed per call
	MaxFraction         float64
	MaxVertices         int // hard cap on removals per call
	Adaptive            bool
}

// Repair configures the insertion operators.
type Repair struct {
	EnableGreedy              bool
	EnableSeqRandom           bool
	EnableSeqByPrize          bool
	EnableCluster             bool
	Heuristic                 bool // proximity-pruned insertion candidates
	IntermediateInfeasible    bool // allow over-budget tours inside repair
	TwoOptBeforeFeasibility   bool
	RestoreFeasibilityOptimal float64 // probability of the optimal restorer
}

// Initial configures initial-solution construction.
type Initial struct {
	UseClustering bool
	UseMIP        bool
	LocalSearch   bool
	VertexOrder   string
}

// LocalSearch configures the new-best intensification hooks.
type LocalSearch struct {
	UseTwoOpt bool
	UseTSP    bool
	FillTour  bool
}

// Problem bundles the problem-level knobs.
type Problem struct {
	Destroy     Destroy
	Repair      Repair
	Initial     Initial
	LocalSearch LocalSearch
}

// Acceptance configures the acceptance criterion of the search shell.
type Acceptance struct {
	Criterion string

	// Record-to-record travel: allowed deviation over the best cost.
	RRTStartDeviation float64
	RRTEndDeviation   float64

	// Simulated annealing: relative cost gaps accepted with probability
	// one half at the start and the end of the schedule.
	SAStartRatio   float64
	SAEndRatio     float64
	SAExponential  bool
	SAReheats      int
	SAReheatFactor float64

	// Threshold acceptance: allowed deviation over the current cost.
	TAStartThreshold float64
	TAEndThreshold   float64
}

// Framework bundles the search-shell knobs.
type Framework struct {
	Workers       int
	Iterations    int
	SegmentLength int // iterations between weight decays
	StallLimit    int // iterations without improvement before the stagnation hook

	ScoreDecay      float64
	ScoreGlobalBest float64
	ScoreImproved   float64
	ScoreAccepted   float64

	Acceptance Acceptance
	Seed       int64
}

// DefaultProblem returns the documented problem defaults.
func DefaultProblem() Problem {
	return Problem{
		Destroy: Destroy{
			EnableRandom:        true,
			EnableRandomSeq:     true,
			EnableRandomCluster: true,
			Fraction:            0.33,
			MaxFraction:         0.75,
			MaxVertices:         40,
			Adaptive:            true,
		},
		Repair: Repair{
			EnableGreedy:              true,
			EnableSeqRandom:           true,
			EnableSeqByPrize:          true,
			EnableCluster:             true,
			Heuristic:                 true,
			IntermediateInfeasible:    false,
			TwoOptBeforeFeasibility:   false,
			RestoreFeasibilityOptimal: 0.5,
		},
		Initial: Initial{
			UseClustering: true,
			UseMIP:        false,
			LocalSearch:   true,
			VertexOrder:   OrderRandom,
		},
		LocalSearch: LocalSearch{
			UseTwoOpt: true,
			UseTSP:    false,
			FillTour:  true,
		},
	}
}

// DefaultFramework returns the documented framework defaults.
func DefaultFramework() Framework {
	return Framework{
		Workers:         4,
		Iterations:      1000,
		SegmentLength:   100,
		StallLimit:      100,
		ScoreDecay:      0.9,
		ScoreGlobalBest: 33,
		ScoreImproved:   9,
		ScoreAccepted:   13,
		Acceptance: Acceptance{
			Criterion:         AcceptRecordToRecord,
			RRTStartDeviation: 0.1,
			RRTEndDeviation:   0,
			SAStartRatio:      0.05,
			SAEndRatio:        0.0005,
			SAExponential:     true,
			SAReheats:         0,
			SAReheatFactor:    2,
			TAStartThreshold:  0.1,
			TAEndThreshold:    0,
		},
		Seed: 0,
	}
}

// ParseProblem overlays a JSON document on the problem defaults.
func ParseProblem(doc []byte) (Problem, error) {
	p := DefaultProblem()
	if len(doc) == 0 {
		return p, nil
	}
	if !gjson.ValidBytes(doc) {
		return p, ErrBadDocument
	}
	r := gjson.ParseBytes(doc)

	readBool(r, "destroy.enable_random", &p.Destroy.EnableRandom)
	readBool(r, "destroy.enable_random_seq", &p.Destroy.EnableRandomSeq)
	readBool(r, "destroy.enable_random_cluster", &p.Destroy.EnableRandomCluster)
	readFloat(r, "destroy.fraction_of_vertices_to_remove", &p.Destroy.Fraction)
	readFloat(r, "destroy.max_fraction_of_vertices_to_remove", &p.Destroy.MaxFraction)
	readInt(r, "destroy.max_n_of_vertices_to_remove", &p.Destroy.MaxVertices)
	readBool(r, "destroy.adaptive", &p.Destroy.Adaptive)

	readBool(r, "repair.enable_greedy", &p.Repair.EnableGreedy)
	readBool(r, "repair.enable_seq_random", &p.Repair.EnableSeqRandom)
	readBool(r, "repair.enable_seq_by_prize", &p.Repair.EnableSeqByPrize)
	readBool(r, "repair.enable_cluster", &p.Repair.EnableCluster)
	readBool(r, "repair.heuristic", &p.Repair.Heuristic)
	readBool(r, "repair.intermediate_infeasible", &p.Repair.IntermediateInfeasible)
	readBool(r, "repair.use_2opt_before_restoring_feasibility", &p.Repair.TwoOptBeforeFeasibility)
	readFloat(r, "repair.restore_feasibility_optimal", &p.Repair.RestoreFeasibilityOptimal)

	readBool(r, "initial_solution.use_clustering", &p.Initial.UseClustering)
	readBool(r, "initial_solution.use_mip", &p.Initial.UseMIP)
	readBool(r, "initial_solution.local_search", &p.Initial.LocalSearch)
	readString(r, "initial_solution.vertex_order", &p.Initial.VertexOrder)

	readBool(r, "local_search.use_2opt", &p.LocalSearch.UseTwoOpt)
	readBool(r, "local_search.use_tsp", &p.LocalSearch.UseTSP)
	readBool(r, "local_search.fill_tour", &p.LocalSearch.FillTour)

	return p, nil
}

// ParseFramework overlays a JSON document on the framework defaults.
func ParseFramework(doc []byte) (Framework, error) {
	f := DefaultFramework()
	if len(doc) == 0 {
		return f, nil
	}
	if !gjson.ValidBytes(doc) {
		return f, ErrBadDocument
	}
	r := gjson.ParseBytes(doc)

	readInt(r, "workers", &f.Workers)
	readInt(r, "iterations", &f.Iterations)
	readInt(r, "segment_length", &f.SegmentLength)
	readInt(r, "stall_limit", &f.StallLimit)
	readFloat(r, "score_decay", &f.ScoreDecay)
	readFloat(r, "score_mult_global_best", &f.ScoreGlobalBest)
	readFloat(r, "score_mult_improved", &f.ScoreImproved)
	readFloat(r, "score_mult_accepted", &f.ScoreAccepted)
	readString(r, "acceptance.criterion", &f.Acceptance.Criterion)
	readFloat(r, "acceptance.rrt_start_deviation", &f.Acceptance.RRTStartDeviation)
	readFloat(r, "acceptance.rrt_end_deviation", &f.Acceptance.RRTEndDeviation)
	readFloat(r, "acceptance.sa_start_ratio", &f.Acceptance.SAStartRatio)
	readFloat(r, "acceptance.sa_end_ratio", &f.Acceptance.SAEndRatio)
	readBool(r, "acceptance.sa_exponential", &f.Acceptance.SAExponential)
	readInt(r, "acceptance.sa_reheats", &f.Acceptance.SAReheats)
	readFloat(r, "acceptance.sa_reheat_factor", &f.Acceptance.SAReheatFactor)
	readFloat(r, "acceptance.ta_start_threshold", &f.Acceptance.TAStartThreshold)
	readFloat(r, "acceptance.ta_end_threshold", &f.Acceptance.TAEndThreshold)
	if v := r.Get("seed"); v.Exists() {
		f.Seed = v.Int()
	}

	return f, nil
}

// LoadProblem reads and parses a problem parameter file. An empty path
// yields the defaults.
func LoadProblem(path string) (Problem, error) {
	if path == "" {
		return DefaultProblem(), nil
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return Problem{}, fmt.Errorf("params: read %s: %w", path, err)
	}
	return ParseProblem(doc)
}

// LoadFramework reads and parses a framework parameter file. An empty path
// yields the defaults.
func LoadFramework(path string) (Framework, error) {
	if path == "" {
		return DefaultFramework(), nil
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return Framework{}, fmt.Errorf("params: read %s: %w", path, err)
	}
	return ParseFramework(doc)
}

func readBool(r gjson.Result, path string, dst *bool) {
	if v := r.Get(path); v.Exists() {
		*dst = v.Bool()
	}
}

func readFloat(r gjson.Result, path string, dst *float64) {
	if v := r.Get(path); v.Exists() {
		*dst = v.Float()
	}
}

func readInt(r gjson.Result, path string, dst *int) {
	if v := r.Get(path); v.Exists() {
		*dst = int(v.Int())
	}
}

func readString(r gjson.Result, path string, dst *string) {
	if v := r.Get(path); v.Exists() {
		*dst = v.String()
	}
}
