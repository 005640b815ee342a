package palns

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/orienteering/params"
)

// Acceptance decides whether a candidate replaces the current solution.
// Costs are uncollected prize (total minus tour prize), so lower is
// better and zero means everything was collected. progress runs 0→1 over
// the iteration budget.
type Acceptance interface {
	Accept(newCost, curCost, bestCost, progress float64, rng *rand.Rand) bool
	Clone() Acceptance
}

// newAcceptance builds the configured criterion; unknown tags fall back to
// record-to-record travel.
func newAcceptance(a params.Acceptance) Acceptance {
	switch a.Criterion {
	case params.AcceptSimulatedAnn:
		return newAnnealing(a)
	case params.AcceptThreshold:
		return &threshold{start: a.TAStartThreshold, end: a.TAEndThreshold}
	default:
		return &recordToRecord{start: a.RRTStartDeviation, end: a.RRTEndDeviation}
	}
}

// recordToRecord accepts candidates within a shrinking deviation band over
// the best cost.
type recordToRecord struct {
	start, end float64
}

func (r *recordToRecord) Accept(newCost, curCost, bestCost, progress float64, _ *rand.Rand) bool {
	d := r.start + (r.end-r.start)*progress
	return newCost <= bestCost*(1+d)
}

func (r *recordToRecord) Clone() Acceptance {
	cp := *r
	return &cp
}

// threshold accepts candidates within a shrinking band over the current
// cost.
type threshold struct {
	start, end float64
}

func (t *threshold) Accept(newCost, curCost, bestCost, progress float64, _ *rand.Rand) bool {
	th := t.start + (t.end-t.start)*progress
	return newCost <= curCost*(1+th)
}

func (t *threshold) Clone() Acceptance {
	cp := *t
	return &cp
}

// annealing accepts worsening moves with probability exp(−gap/T). The
// start and end temperatures are calibrated so a relative gap of the
// configured ratio is accepted with probability one half.
type annealing struct {
	tStart, tEnd float64
	exponential  bool

	reheatsLeft  int
	reheatFactor float64
	reheatBoost  float64 // accumulated multiplier from reheats
}

func newAnnealing(a params.Acceptance) *annealing {
	return &annealing{
		tStart:       a.SAStartRatio / math.Ln2,
		tEnd:         a.SAEndRatio / math.Ln2,
		exponential:  a.SAExponential,
		reheatsLeft:  a.SAReheats,
		reheatFactor: a.SAReheatFactor,
		reheatBoost:  1,
	}
}

func (s *annealing) temperature(progress float64) float64 {
	if s.exponential {
		return s.tStart * math.Pow(s.tEnd/s.tStart, progress) * s.reheatBoost
	}
	return (s.tStart + (s.tEnd-s.tStart)*progress) * s.reheatBoost
}

func (s *annealing) Accept(newCost, curCost, bestCost, progress float64, rng *rand.Rand) bool {
	if newCost <= curCost {
		return true
	}
	ref := curCost
	if ref < 1 {
		ref = 1
	}
	gap := (newCost - curCost) / ref
	t := s.temperature(progress)
	if t <= 0 {
		return false
	}
	return rng.Float64() < math.Exp(-gap/t)
}

// reheat raises the temperature when the search stalls; no-op once the
// configured count is spent.
func (s *annealing) reheat() {
	if s.reheatsLeft <= 0 {
		return
	}
	s.reheatsLeft--
	s.reheatBoost *= s.reheatFactor
}

func (s *annealing) Clone() Acceptance {
	cp := *s
	return &cp
}
