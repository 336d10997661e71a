package logsum

import (
	"math"
	"testing"

	"github.com/akerscore/aucs/internal/params"
)

func twoModeNests() map[string]params.NestParams {
	return map[string]params.NestParams{
		"nonmotor": {Modes: []string{"walk"}, NestScale: 0.5},
		"car":      {Modes: []string{"car"}, NestScale: 0.5},
	}
}

// S4 — nested-logit substitution (spec §8 S4).
func TestSliceWeight_MatchesClosedFormS4(t *testing.T) {
	k := NewKernel(twoModeNests(), "walk")

	w := k.SliceWeight(map[string]float64{"walk": 20, "car": 15})

	// I_n for each single-mode nest reduces to theta * (u/theta) = u = -GTC/theta.
	iWalk := -20.0 / 0.5
	iCar := -15.0 / 0.5
	expected := logSumExp([]float64{iWalk, iCar})

	if math.Abs(w-expected) > 1e-9 {
		t.Fatalf("expected %v, got %v", expected, w)
	}
}

func TestSliceWeight_IncreasingWalkGTCDecreasesW(t *testing.T) {
	k := NewKernel(twoModeNests(), "walk")
	w1 := k.SliceWeight(map[string]float64{"walk": 20, "car": 15})
	w2 := k.SliceWeight(map[string]float64{"walk": 25, "car": 15})
	if !(w2 < w1) {
		t.Fatalf("expected w to strictly decrease as walk GTC worsens: w1=%v w2=%v", w1, w2)
	}
}

// Invariant 2 — bounds and the unreachable-iff-zero equivalence.
func TestAggregateSlices_ZeroIffAllUnreachable(t *testing.T) {
	k := NewKernel(twoModeNests(), "walk")
	sliceWeights := map[string]float64{"am": k.SliceWeight(map[string]float64{})}
	w := k.AggregateSlices(sliceWeights, map[string]float64{"am": 1})
	if w != 0 {
		t.Fatalf("expected 0 when every mode unreachable, got %v", w)
	}

	sliceWeights2 := map[string]float64{"am": k.SliceWeight(map[string]float64{"walk": 1})}
	w2 := k.AggregateSlices(sliceWeights2, map[string]float64{"am": 1})
	if w2 <= 0 {
		t.Fatalf("expected positive weight for a reachable mode, got %v", w2)
	}
}

func TestWeight_ReferenceOneMinuteWalkIsOne(t *testing.T) {
	k := NewKernel(twoModeNests(), "walk")
	w := k.Weight(map[string]map[string]float64{"am": {"walk": 1}}, map[string]float64{"am": 1})
	if math.Abs(w-1) > 1e-9 {
		t.Fatalf("expected reference configuration to normalize to 1, got %v", w)
	}
}

// Invariant 3 — monotonicity: weakly lower GTC everywhere implies weakly higher w.
func TestWeight_MonotonicInGTC(t *testing.T) {
	k := NewKernel(twoModeNests(), "walk")
	worse := k.Weight(map[string]map[string]float64{"am": {"walk": 20, "car": 15}}, map[string]float64{"am": 1})
	better := k.Weight(map[string]map[string]float64{"am": {"walk": 10, "car": 8}}, map[string]float64{"am": 1})
	if !(better >= worse) {
		t.Fatalf("expected lower GTC everywhere to yield weakly higher w: worse=%v better=%v", worse, better)
	}
}
