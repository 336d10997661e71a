package runstages

import (
	"context"
	"os"
	"testing"

	"github.com/akerscore/aucs/internal/params"
	"github.com/akerscore/aucs/internal/pipeline"
	"github.com/akerscore/aucs/internal/quality"
	"github.com/akerscore/aucs/internal/skim"
	"github.com/akerscore/aucs/internal/subscores"
)

func testSnapshot() *params.Snapshot {
	kappa := 2.0
	snap := &params.Snapshot{
		Grid:       params.GridParams{ResolutionMeters: 250},
		Subscores:  map[string]float64{"EA": 30, "LCA": 15, "MUHAA": 15, "JEA": 15, "MORR": 15, "CTE": 5, "SOU": 5},
		TimeSlices: []params.TimeSlice{{Name: "midday", Weight: 1, ValueOfTime: 0.3}},
		Modes: map[string]params.ModeParams{
			"walk":    {DecayHalfLifeMin: 15, Beta0: 0, VOTMultiplier: 1, CarryPenalty: 0, MaxIVTCapMin: 60, MaxUsefulTimeMin: 30},
			"bike":    {DecayHalfLifeMin: 15, Beta0: 0, VOTMultiplier: 1, MaxIVTCapMin: 60, MaxUsefulTimeMin: 30},
			"car":     {DecayHalfLifeMin: 15, Beta0: 0, VOTMultiplier: 1, MaxIVTCapMin: 90, MaxUsefulTimeMin: 45},
			"transit": {DecayHalfLifeMin: 15, Beta0: 0, VOTMultiplier: 1, MaxIVTCapMin: 90, MaxUsefulTimeMin: 45},
		},
		Nests: map[string]params.NestParams{
			"nonmotor":  {Modes: []string{"walk", "bike"}, NestScale: 0.8},
			"motorized": {Modes: []string{"car", "transit"}, NestScale: 0.6},
		},
		Quality: params.QualityParams{
			WeightSize: 0.25, WeightPopularity: 0.25, WeightBrand: 0.25, WeightHeritage: 0.25,
			HoursUplift: map[string]float64{"24_7": 1.2, "extended": 1.1, "standard": 1.0, "limited": 0.9}, HoursBlendXi: 0.5,
			BrandProximityBeta: 0, BrandProximityRadiusKm: 0.1,
		},
		Categories: map[string]params.CategoryParams{
			"grocery": {Rho: 0.5, Kappa: &kappa, DiversityWeight: 0.1, DiversityMin: 1, DiversityMax: 1.2, MinThreshold: 40},
			"retail":  {Rho: 0.5, Kappa: &kappa, DiversityWeight: 0.1, DiversityMin: 1, DiversityMax: 1.2, MinThreshold: 40, NoveltyWeight: 0.2, NoveltyZCap: 2},
		},
		HubsAirports: params.HubsAirportsParams{WeightPop: 0.5, WeightGDP: 0.5, AlphaHub: 0.02, HubWeight: 0.7, AirWeight: 0.3},
		MORR:         params.MORRParams{WeightFrequentStop: 0.2, WeightSpan: 0.2, WeightReliability: 0.2, WeightRedundancy: 0.2, WeightMicromobility: 0.2},
		Corridor:     params.CorridorParams{DetourCapDeltaMax: 10, TopK: 2},
		Normalization: map[string]params.NormalizeParams{
			"EA":    {Mode: "anchor", AnchorLo: 0, AnchorHi: 100},
			"LCA":   {Mode: "anchor", AnchorLo: 0, AnchorHi: 100},
			"MUHAA": {Mode: "anchor", AnchorLo: 0, AnchorHi: 100},
			"JEA":   {Mode: "anchor", AnchorLo: 0, AnchorHi: 100},
			"MORR":  {Mode: "anchor", AnchorLo: 0, AnchorHi: 100},
			"CTE":   {Mode: "anchor", AnchorLo: 0, AnchorHi: 100},
			"SOU":   {Mode: "anchor", AnchorLo: 0, AnchorHi: 100},
		},
	}
	if err := params.Canonicalize(snap); err != nil {
		panic(err)
	}
	return snap
}

func testScenario() ScenarioInput {
	s := 10.0
	return ScenarioInput{
		NormConstants: NormConstants{HubNorm: 10, AirNorm: 10, JobsNorm: 100, EduNorm: 10, CTENormConstant: 10},
		Cells: []CellInput{
			{
				CellID: "cell-1",
				Amenities: map[string][]quality.Amenity{
					"grocery": {{ID: "a1", Category: "grocery", HoursRegime: "standard", SizeMetric: &s}},
					"retail":  {{ID: "a2", Category: "retail", HoursRegime: "standard", SizeMetric: &s}},
				},
				AmenitySubtype: map[string]string{"a1": "supermarket", "a2": "clothing"},
				SkimEntries: []skim.Entry{
					{OriginCell: "cell-1", DestinationID: "a1", Mode: "walk", TimeSlice: "midday", InVehicleMin: 5, Reachable: true},
					{OriginCell: "cell-1", DestinationID: "a2", Mode: "walk", TimeSlice: "midday", InVehicleMin: 8, Reachable: true},
				},
				Hubs:         []subscores.Hub{{ID: "h1", PopRescaled: 1, GTCCarOrTransit: 5}},
				Jobs:         []subscores.JobBlock{{BlockID: "b1", Jobs: 1000, IndustryWeight: 1, Weight: 0.5}},
				MORR:         subscores.MORRInputs{StopsWithin500m: 4, FrequentStops: 2, AvgServiceSpanHours: 18, OnTimeShare: 0.9, HasRealtimeOnTime: true},
				Corridors:    []subscores.CorridorPair{{ItineraryID: "i1", FirstAmenity: "a1", SecondAmenity: "a2", CategoryPair: [2]string{"grocery", "retail"}, QWSum: 5, DeltaMinutes: 2}},
				ParksScore:   60,
				ClimateMonths: []subscores.ClimateMonth{{TempRescaled: 0.8, PrecipRescaled: 0.9, WindRescaled: 0.9, Weight: 1}},
			},
			{
				CellID: "cell-2",
				Amenities: map[string][]quality.Amenity{
					"grocery": {{ID: "a3", Category: "grocery", HoursRegime: "standard", SizeMetric: &s}},
				},
				SkimEntries: []skim.Entry{
					{OriginCell: "cell-2", DestinationID: "a3", Mode: "walk", TimeSlice: "midday", InVehicleMin: 12, Reachable: true},
				},
				ParksScore: 0,
			},
		},
	}
}

func TestBuildStages_FullRunProducesComposition(t *testing.T) {
	dir := t.TempDir()
	snap := testSnapshot()
	rc := NewRunContext("run-1", dir, snap, testScenario())

	driver, err := pipeline.Open(pipeline.Config{RunID: "run-1", ParamHash: snap.ParamHash, OutputDir: dir})
	if err != nil {
		t.Fatalf("pipeline.Open: %v", err)
	}
	defer driver.Close()

	entries, err := driver.RunSequence(context.Background(), rc.BuildStages())
	if err != nil {
		t.Fatalf("RunSequence: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("expected 10 stage entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Status != "ok" {
			t.Fatalf("stage %s did not succeed: %s", e.Stage, e.Error)
		}
	}

	if len(rc.composition) != 2 {
		t.Fatalf("expected composition for 2 cells, got %d", len(rc.composition))
	}
	if _, err := os.Stat(dir + "/stages/explain/report.json"); err != nil {
		t.Fatalf("expected explain report written: %v", err)
	}
}

func TestBuildStages_ResumeSkipsCompletedStages(t *testing.T) {
	dir := t.TempDir()
	snap := testSnapshot()
	scenario := testScenario()

	rc1 := NewRunContext("run-1", dir, snap, scenario)
	driver1, err := pipeline.Open(pipeline.Config{RunID: "run-1", ParamHash: snap.ParamHash, OutputDir: dir})
	if err != nil {
		t.Fatalf("pipeline.Open: %v", err)
	}
	if _, err := driver1.RunSequence(context.Background(), rc1.BuildStages()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	driver1.Close()

	rc2 := NewRunContext("run-1", dir, snap, scenario)
	driver2, err := pipeline.Open(pipeline.Config{RunID: "run-1", ParamHash: snap.ParamHash, OutputDir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer driver2.Close()
	entries, err := driver2.RunSequence(context.Background(), rc2.BuildStages())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(driver2.Manifest().Entries) != len(entries) {
		t.Fatalf("expected resume to reuse entries, manifest grew to %d", len(driver2.Manifest().Entries))
	}
}
