package aggregate

import (
	"math"
	"testing"
)

// S2 — single perfect amenity (spec §8 S2).
func TestCompute_S2_SinglePerfectAmenity(t *testing.T) {
	rho := 0.65
	vStar, sStar := 3.0, 75.0
	kappa := -math.Log(1-sStar/100) / vStar

	contribs := []Contribution{{AmenityID: "a1", Subtype: "grocery", Quality: 100, Weight: 1}}
	r := Compute(contribs, rho, kappa, 0, 1, 1)

	if math.Abs(r.V-1) > 1e-9 {
		t.Fatalf("expected V=1, got %v", r.V)
	}
	expected := 100 * (1 - math.Exp(-kappa))
	if math.Abs(r.Score-expected) > 1e-6 {
		t.Fatalf("expected satiation closed form %v, got %v", expected, r.Score)
	}
}

// Invariant 5 — CES homogeneity and monotonicity.
func TestCategoryValue_HomogeneousScaling(t *testing.T) {
	rho := 0.5
	base := []Contribution{
		{AmenityID: "a1", Subtype: "x", Quality: 10, Weight: 0.5},
		{AmenityID: "a2", Subtype: "y", Quality: 20, Weight: 0.3},
	}
	v1, _ := categoryValue(base, rho)

	k := 3.0
	scaled := make([]Contribution, len(base))
	for i, c := range base {
		scaled[i] = c
		scaled[i].Quality = c.Quality * k
	}
	v2, _ := categoryValue(scaled, rho)

	if math.Abs(v2-k*v1) > 1e-6 {
		t.Fatalf("expected V to scale by k=%v: v1=%v v2=%v (want %v)", k, v1, v2, k*v1)
	}
}

func TestCategoryValue_AddingInputIncreasesV(t *testing.T) {
	rho := 0.5
	base := []Contribution{{AmenityID: "a1", Subtype: "x", Quality: 10, Weight: 0.5}}
	v1, _ := categoryValue(base, rho)

	more := append(append([]Contribution{}, base...), Contribution{AmenityID: "a2", Subtype: "y", Quality: 5, Weight: 0.2})
	v2, _ := categoryValue(more, rho)

	if !(v2 >= v1) {
		t.Fatalf("expected adding a positive input to weakly increase V: v1=%v v2=%v", v1, v2)
	}
}

func TestCategoryValue_EmptyIsZero(t *testing.T) {
	v, _ := categoryValue(nil, 0.5)
	if v != 0 {
		t.Fatalf("expected V=0 for empty category, got %v", v)
	}
}

func TestCategoryValue_LogSpaceMatchesDirectForSmallRho(t *testing.T) {
	rho := 0.03
	contribs := []Contribution{
		{AmenityID: "a1", Subtype: "x", Quality: 50, Weight: 0.8},
		{AmenityID: "a2", Subtype: "y", Quality: 30, Weight: 0.6},
	}
	v, _ := categoryValue(contribs, rho)
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		t.Fatalf("expected finite positive V in log-space regime, got %v", v)
	}
}

// Invariant 6 — satiation asymptote and monotonicity.
func TestSatiate_AsymptoteAndMonotonic(t *testing.T) {
	kappa := 0.5
	prev := 0.0
	for _, v := range []float64{0, 1, 5, 20, 1000} {
		s := satiate(v, kappa)
		if s >= 100 {
			t.Fatalf("satiation must stay < 100, got %v at V=%v", s, v)
		}
		if s < prev {
			t.Fatalf("satiation must be monotonic in V, decreased at V=%v", v)
		}
		prev = s
	}
	if s := satiate(1e9, kappa); s < 99.999 {
		t.Fatalf("expected satiation to approach 100 for large V, got %v", s)
	}
}

// Invariant 7 — diversity bound.
func TestCompute_DiversityBonusBounded(t *testing.T) {
	muMin, muMax := 0.9, 1.3
	contribs := []Contribution{
		{AmenityID: "a1", Subtype: "x", Quality: 80, Weight: 1},
		{AmenityID: "a2", Subtype: "y", Quality: 80, Weight: 1},
		{AmenityID: "a3", Subtype: "z", Quality: 80, Weight: 1},
	}
	r := Compute(contribs, 0.6, 0.4, 0.5, muMin, muMax)
	if r.Score > 100*muMax {
		t.Fatalf("score exceeds 100*mu_max bound: %v", r.Score)
	}
	withoutDiversity := satiate(r.V, 0.4)
	if r.Score < withoutDiversity*muMin-1e-9 {
		t.Fatalf("score below S*mu_min bound: score=%v floor=%v", r.Score, withoutDiversity*muMin)
	}
}

func TestShannonDiversity_SingleSubtypeIsZero(t *testing.T) {
	contribs := []Contribution{
		{AmenityID: "a1", Subtype: "x", Quality: 50, Weight: 1},
		{AmenityID: "a2", Subtype: "x", Quality: 50, Weight: 1},
	}
	_, z := categoryValue(contribs, 0.5)
	h := shannonDiversity(contribs, z)
	if h != 0 {
		t.Fatalf("expected zero diversity for a single subtype, got %v", h)
	}
}
