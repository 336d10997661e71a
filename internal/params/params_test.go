package params

import "testing"

func validSnapshot() *Snapshot {
	kappa := 0.4620981
	return &Snapshot{
		Subscores: map[string]float64{
			"EA": 20, "LCA": 15, "MUHAA": 15, "JEA": 15, "MORR": 15, "CTE": 10, "SOU": 10,
		},
		TimeSlices: []TimeSlice{
			{Name: "am_peak", Weight: 0.3, ValueOfTime: 0.25},
			{Name: "off_peak", Weight: 0.7, ValueOfTime: 0.2},
		},
		Modes: map[string]ModeParams{
			"walk":    {DecayHalfLifeMin: 10, MaxIVTCapMin: 60, MaxUsefulTimeMin: 30},
			"bike":    {DecayHalfLifeMin: 15, MaxIVTCapMin: 60, MaxUsefulTimeMin: 30},
			"car":     {DecayHalfLifeMin: 20, MaxIVTCapMin: 90, MaxUsefulTimeMin: 45},
			"transit": {DecayHalfLifeMin: 25, MaxIVTCapMin: 120, MaxUsefulTimeMin: 60},
		},
		Nests: map[string]NestParams{
			"nonmotor": {Modes: []string{"walk", "bike"}, NestScale: 0.5},
			"car":      {Modes: []string{"car"}, NestScale: 0.5},
			"transit":  {Modes: []string{"transit"}, NestScale: 0.5},
		},
		Quality: QualityParams{
			WeightSize: 0.25, WeightPopularity: 0.25, WeightBrand: 0.25, WeightHeritage: 0.25,
			HoursUplift: map[string]float64{"24_7": 1.2, "extended": 1.1, "standard": 1.0, "limited": 0.9},
			HoursBlendXi: 0.6,
		},
		Categories: map[string]CategoryParams{
			"grocery": {Rho: 0.65, Kappa: &kappa, DiversityWeight: 0.1, DiversityMin: 1, DiversityMax: 1.2, MinThreshold: 20},
		},
		Normalization: map[string]NormalizeParams{
			"EA": {Mode: "percentile", PLo: 5, PHi: 95},
		},
	}
}

func TestValidate_ValidSnapshotHasNoErrors(t *testing.T) {
	if errs := Validate(validSnapshot()); len(errs) != 0 {
		t.Fatalf("expected no errors, got: %v", errs)
	}
}

func TestValidate_CatchesWeightSumAndMissingMode(t *testing.T) {
	snap := validSnapshot()
	snap.Subscores["EA"] = 999
	delete(snap.Modes, "transit")

	errs := Validate(snap)
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	found := map[string]bool{}
	for _, e := range errs {
		found[e] = true
	}
	hasSumErr, hasModeErr := false, false
	for _, e := range errs {
		if contains(e, "subscores: weights sum to") {
			hasSumErr = true
		}
		if contains(e, "modes.transit: missing") {
			hasModeErr = true
		}
	}
	if !hasSumErr || !hasModeErr {
		t.Fatalf("expected weight-sum and missing-mode errors, got: %v", errs)
	}
}

func TestCanonicalize_Deterministic(t *testing.T) {
	s1 := validSnapshot()
	s2 := validSnapshot()

	if err := Canonicalize(s1); err != nil {
		t.Fatalf("canonicalize s1: %v", err)
	}
	if err := Canonicalize(s2); err != nil {
		t.Fatalf("canonicalize s2: %v", err)
	}
	if s1.ParamHash != s2.ParamHash {
		t.Fatalf("expected identical hashes for identical snapshots, got %s != %s", s1.ParamHash, s2.ParamHash)
	}

	s2.Quality.HoursBlendXi = 0.9
	if err := Canonicalize(s2); err != nil {
		t.Fatalf("canonicalize mutated s2: %v", err)
	}
	if s1.ParamHash == s2.ParamHash {
		t.Fatal("expected different hash after mutation")
	}
}

func TestResolvedKappa_FromAnchor(t *testing.T) {
	v, sStar := 3.0, 75.0
	c := CategoryParams{AnchorV: &v, AnchorS: &sStar}
	k := c.ResolvedKappa()
	if k <= 0 {
		t.Fatalf("expected positive kappa, got %v", k)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 || indexOf(s, substr) >= 0)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
