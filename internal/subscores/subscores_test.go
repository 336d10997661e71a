package subscores

import "testing"

// S1 — empty category (spec §8 S1).
func TestEA_EmptyCategoryShortfall(t *testing.T) {
	categories := []CategoryScore{
		{Category: "grocery", Score: 0},       // empty -> below S_min, counts as shortfall
		{Category: "pharmacy", Score: 10},      // below S_min=20, counts
		{Category: "primary_care", Score: 15},  // below S_min=20, counts
		{Category: "childcare", Score: 60},
		{Category: "K8_school", Score: 70},
		{Category: "bank_atm", Score: 80},
		{Category: "postal_parcel", Score: 90},
	}
	sMin, pMiss, pMax := 20.0, 2.0, 8.0
	r := EA(categories, sMin, pMiss, pMax)

	var sum float64
	for _, c := range categories {
		sum += c.Score
	}
	mean := sum / float64(len(categories))
	expected := mean - 6 // 3 shortfalls * P_miss=2 = 6, under P_max=8
	if r.Value < 0 {
		t.Fatalf("EA must floor at 0, got %v", r.Value)
	}
	if abs(r.Value-expected) > 1e-9 {
		t.Fatalf("expected EA=%v, got %v", expected, r.Value)
	}
}

func TestEA_PenaltyCapsAtPMax(t *testing.T) {
	categories := make([]CategoryScore, 7)
	for i := range categories {
		categories[i] = CategoryScore{Category: "c", Score: 0}
	}
	r := EA(categories, 20, 5, 8) // 7 misses * 5 = 35, capped at 8
	if r.Value < 0 {
		t.Fatalf("EA must floor at 0 even with a large shortfall, got %v", r.Value)
	}

	for i := range categories {
		categories[i].Score = 10
	}
	r = EA(categories, 20, 5, 8) // mean 10, 7 misses * 5 = 35 capped at 8
	if abs(r.Value-2) > 1e-9 {
		t.Fatalf("expected shortfall capped at P_max=8 (EA=2), got %v", r.Value)
	}
}

// S5 — MORR frequent-stop scenario (spec §8 S5).
func TestMORR_S5GoldenScenario(t *testing.T) {
	in := MORRInputs{
		StopsWithin500m:       10,
		FrequentStops:         4,
		AvgServiceSpanHours:   18,
		HasRealtimeOnTime:     true,
		OnTimeShare:           0.92,
		DistinctTransitRoutes: 3,
		MicromobilityDensity:  0,
	}
	w := MORRWeights{W1: 0.2, W2: 0.2, W3: 0.2, W4: 0.2, W5: 0.2}
	r := MORR(in, w)

	if abs(r.Value-56.4) > 1e-9 {
		t.Fatalf("expected MORR=56.4, got %v", r.Value)
	}
}

func TestMORR_ComponentValues(t *testing.T) {
	in := MORRInputs{
		StopsWithin500m:       10,
		FrequentStops:         4,
		AvgServiceSpanHours:   18,
		HasRealtimeOnTime:     true,
		OnTimeShare:           0.92,
		DistinctTransitRoutes: 3,
		MicromobilityDensity:  0,
	}
	if c := c1FrequentStopExposure(in); abs(c-40) > 1e-9 {
		t.Fatalf("expected C1=40, got %v", c)
	}
	if c := c2Span(in.AvgServiceSpanHours); abs(c-75) > 1e-9 {
		t.Fatalf("expected C2=75, got %v", c)
	}
	if c := c3Reliability(in); abs(c-92) > 1e-9 {
		t.Fatalf("expected C3=92, got %v", c)
	}
	if c := c4Redundancy(in); abs(c-75) > 1e-9 {
		t.Fatalf("expected C4=75, got %v", c)
	}
	if c := c5Micromobility(in); c != 0 {
		t.Fatalf("expected C5=0, got %v", c)
	}
}

// S6 — SOU climate gating (spec §8 S6).
func TestSOU_S6GoldenScenario(t *testing.T) {
	months := []ClimateMonth{{TempRescaled: 0.5, PrecipRescaled: 1, WindRescaled: 1, Weight: 1}}
	r := SOU(80, months, nil)
	if abs(r.Value-40) > 1e-9 {
		t.Fatalf("expected SOU=40, got %v", r.Value)
	}
}

func TestSOU_NoParksIsZeroRegardlessOfClimate(t *testing.T) {
	months := []ClimateMonth{{TempRescaled: 1, PrecipRescaled: 1, WindRescaled: 1, Weight: 1}}
	r := SOU(0, months, nil)
	if r.Value != 0 {
		t.Fatalf("expected SOU=0 with no parks, got %v", r.Value)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
