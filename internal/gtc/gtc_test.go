package gtc

import (
	"math"
	"testing"

	"github.com/akerscore/aucs/internal/params"
	"github.com/akerscore/aucs/internal/skim"
)

func testMode() params.ModeParams {
	return params.ModeParams{
		DecayHalfLifeMin: 20,
		Beta0:            2,
		VOTMultiplier:    1,
		CarryPenalty:     0,
		MaxIVTCapMin:     60,
		MaxUsefulTimeMin: 90,
	}
}

func TestCompute_UnreachablePropagatesInfinity(t *testing.T) {
	e := skim.Entry{OriginCell: "c1", DestinationID: "a1", Mode: "walk", TimeSlice: "am", Reachable: false}
	r := Compute(e, testMode(), 20, 0, 1, 1, 0.5, 5, 1)
	if r.Reachable || !math.IsInf(r.Minutes, 1) {
		t.Fatalf("expected +Inf unreachable result, got %+v", r)
	}
}

func TestCompute_NegativeInputsClampedAndCounted(t *testing.T) {
	e := skim.Entry{
		OriginCell: "c1", DestinationID: "a1", Mode: "walk", TimeSlice: "am", Reachable: true,
		InVehicleMin: -5, AccessMin: 3, EgressMin: 2, WaitMin: 1, FareUSD: -1,
	}
	r := Compute(e, testMode(), 20, 0, 1, 1, 0.5, 5, 1)
	if r.ClampedInputs != 2 {
		t.Fatalf("expected 2 clamped inputs (IVT, fare), got %d", r.ClampedInputs)
	}
	if !r.Reachable || r.Minutes <= 0 {
		t.Fatalf("expected a finite positive GTC, got %+v", r)
	}
}

func TestCompute_IVTCapApplied(t *testing.T) {
	e := skim.Entry{OriginCell: "c1", DestinationID: "a1", Mode: "walk", TimeSlice: "am", Reachable: true, InVehicleMin: 500}
	mode := testMode()
	r := Compute(e, mode, 20, 0, 0, 0, 0, 0, 0)
	if r.Minutes != mode.MaxIVTCapMin+mode.Beta0 {
		t.Fatalf("expected capped IVT + beta0, got %v", r.Minutes)
	}
}

func TestCompute_MonotonicInIVT(t *testing.T) {
	mode := testMode()
	base := skim.Entry{OriginCell: "c1", DestinationID: "a1", Mode: "walk", TimeSlice: "am", Reachable: true, InVehicleMin: 10}
	more := base
	more.InVehicleMin = 20

	rBase := Compute(base, mode, 20, 0, 1, 1, 0.5, 5, 1)
	rMore := Compute(more, mode, 20, 0, 1, 1, 0.5, 5, 1)
	if !(rMore.Minutes > rBase.Minutes) {
		t.Fatalf("expected GTC to increase with IVT: base=%v more=%v", rBase.Minutes, rMore.Minutes)
	}
}

func TestComputeBatch_UnreachableShare(t *testing.T) {
	entries := []skim.Entry{
		{OriginCell: "c1", DestinationID: "a1", Mode: "walk", TimeSlice: "am", Reachable: true, InVehicleMin: 5},
		{OriginCell: "c1", DestinationID: "a2", Mode: "walk", TimeSlice: "am", Reachable: false},
	}
	_, qa := ComputeBatch(entries, testMode(),
		func(string) float64 { return 20 },
		func(string) float64 { return 0 },
		1, 1, 0.5, 5, 1)
	if qa.Rows != 2 || qa.Unreachable != 1 {
		t.Fatalf("unexpected qa counters: %+v", qa)
	}
	if qa.UnreachableShare() != 0.5 {
		t.Fatalf("expected unreachable share 0.5, got %v", qa.UnreachableShare())
	}
}
