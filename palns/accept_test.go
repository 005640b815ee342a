package palns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/orienteering/params"
	"github.com/katalvlaran/orienteering/tsp"
)

func TestNewAcceptanceDispatch(t *testing.T) {
	a := params.DefaultFramework().Acceptance

	a.Criterion = params.AcceptRecordToRecord
	assert.IsType(t, &recordToRecord{}, newAcceptance(a))

	a.Criterion = params.AcceptSimulatedAnn
	assert.IsType(t, &annealing{}, newAcceptance(a))

	a.Criterion = params.AcceptThreshold
	assert.IsType(t, &threshold{}, newAcceptance(a))

	a.Criterion = "no_such_criterion"
	assert.IsType(t, &recordToRecord{}, newAcceptance(a))
}

func TestRecordToRecord(t *testing.T) {
	r := &recordToRecord{start: 0.1, end: 0}

	// Start of the schedule: 10% over the best passes.
	assert.True(t, r.Accept(109, 200, 100, 0, nil))
	assert.False(t, r.Accept(111, 200, 100, 0, nil))

	// End of the schedule: only matching the best passes.
	assert.True(t, r.Accept(100, 200, 100, 1, nil))
	assert.False(t, r.Accept(100.5, 200, 100, 1, nil))
}

func TestThreshold(t *testing.T) {
	th := &threshold{start: 0.1, end: 0}

	// The band tracks the current cost, not the best.
	assert.True(t, th.Accept(219, 200, 100, 0, nil))
	assert.False(t, th.Accept(221, 200, 100, 0, nil))
	assert.False(t, th.Accept(201, 200, 100, 1, nil))
}

func TestAnnealingCalibration(t *testing.T) {
	a := params.DefaultFramework().Acceptance
	a.Criterion = params.AcceptSimulatedAnn
	sa := newAnnealing(a)

	// Temperatures are set so a relative gap equal to the configured ratio
	// is accepted with probability one half.
	gap := a.SAStartRatio
	assert.InDelta(t, 0.5, math.Exp(-gap/sa.temperature(0)), 1e-9)
	gap = a.SAEndRatio
	assert.InDelta(t, 0.5, math.Exp(-gap/sa.temperature(1)), 1e-9)
}

func TestAnnealingAccept(t *testing.T) {
	a := params.DefaultFramework().Acceptance
	a.Criterion = params.AcceptSimulatedAnn
	sa := newAnnealing(a)
	rng := tsp.RNGFromSeed(1)

	// Improving and equal moves always pass.
	assert.True(t, sa.Accept(99, 100, 90, 0.5, rng))
	assert.True(t, sa.Accept(100, 100, 90, 0.5, rng))

	// A huge relative gap underflows exp to zero: never accepted.
	for i := 0; i < 100; i++ {
		assert.False(t, sa.Accept(1e9, 1, 1, 1, rng))
	}
}

func TestAnnealingReheat(t *testing.T) {
	a := params.DefaultFramework().Acceptance
	a.SAReheats = 2
	a.SAReheatFactor = 2
	sa := newAnnealing(a)

	t0 := sa.temperature(0.5)
	sa.reheat()
	assert.InDelta(t, 2*t0, sa.temperature(0.5), 1e-12)
	sa.reheat()
	assert.InDelta(t, 4*t0, sa.temperature(0.5), 1e-12)

	// The budget is spent; further reheats are no-ops.
	sa.reheat()
	assert.InDelta(t, 4*t0, sa.temperature(0.5), 1e-12)
}

func TestAcceptanceClone(t *testing.T) {
	a := params.DefaultFramework().Acceptance
	a.Criterion = params.AcceptSimulatedAnn
	a.SAReheats = 1
	a.SAReheatFactor = 3
	sa := newAnnealing(a)

	cp := sa.Clone().(*annealing)
	sa.reheat()
	assert.InDelta(t, 1, cp.reheatBoost, 1e-12)
	assert.InDelta(t, 3, sa.reheatBoost, 1e-12)
}
