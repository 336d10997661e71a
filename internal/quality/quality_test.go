package quality

import (
	"math"
	"testing"

	"github.com/akerscore/aucs/internal/params"
)

func ptr(f float64) *float64 { return &f }
func bptr(b bool) *bool      { return &b }

func testQualityParams() params.QualityParams {
	return params.QualityParams{
		WeightSize:              0.25,
		WeightPopularity:        0.25,
		WeightBrand:             0.25,
		WeightHeritage:          0.25,
		HoursBlendXi:            0.6,
		BrandProximityBeta:      2.0,
		BrandProximityRadiusKm:  0.5,
	}
}

func TestComputeCategory_BoundedZeroToHundred(t *testing.T) {
	amenities := []Amenity{
		{ID: "a1", Category: "grocery", SizeMetric: ptr(10), PopularityMetric: ptr(5), BrandRecognized: bptr(true), HeritageFlag: bptr(false), HoursRegime: "standard"},
		{ID: "a2", Category: "grocery", SizeMetric: ptr(100), PopularityMetric: ptr(50), BrandRecognized: bptr(false), HeritageFlag: bptr(true), HoursRegime: "24_7"},
	}
	out := ComputeCategory(amenities, testQualityParams())
	for _, b := range out {
		if b.Quality < 0 || b.Quality > 100 {
			t.Fatalf("Q_a out of bounds: %+v", b)
		}
	}
}

func TestComputeCategory_MissingComponentUsesMedian(t *testing.T) {
	amenities := []Amenity{
		{ID: "a1", Category: "grocery", SizeMetric: ptr(10), HoursRegime: "standard"},
		{ID: "a2", Category: "grocery", SizeMetric: nil, HoursRegime: "standard"},
		{ID: "a3", Category: "grocery", SizeMetric: ptr(90), HoursRegime: "standard"},
	}
	out := ComputeCategory(amenities, testQualityParams())
	if out[1].SizeComp != 0.5 {
		t.Fatalf("expected median fallback of 0.5 for missing size metric, got %v", out[1].SizeComp)
	}
}

// S3 — brand dedup (spec §8 S3): two same-brand amenities 200m apart with
// identical raw features, plus one unrelated-brand amenity far away.
func TestBrandProximityDedup_PenaltyAndMassPreserved(t *testing.T) {
	amenities := []Amenity{
		{ID: "a1", Category: "cafe", BrandKey: "brandx", Lat: 39.7392, Lon: -104.9903, SizeMetric: ptr(80), PopularityMetric: ptr(80), BrandRecognized: bptr(true), HeritageFlag: bptr(true), HoursRegime: "standard"},
		{ID: "a2", Category: "cafe", BrandKey: "brandx", Lat: 39.7410, Lon: -104.9903, SizeMetric: ptr(80), PopularityMetric: ptr(80), BrandRecognized: bptr(true), HeritageFlag: bptr(true), HoursRegime: "standard"},
		{ID: "a3", Category: "cafe", BrandKey: "brandy", Lat: 39.80, Lon: -105.10, SizeMetric: ptr(10), PopularityMetric: ptr(10), BrandRecognized: bptr(false), HeritageFlag: bptr(false), HoursRegime: "standard"},
	}
	q := testQualityParams()
	out := ComputeCategory(amenities, q)

	if out[0].BrandPenalty >= 1.0 || out[1].BrandPenalty >= 1.0 {
		t.Fatalf("expected a brand-proximity penalty applied to both same-brand amenities, got %+v / %+v", out[0], out[1])
	}
	if out[2].BrandPenalty != 1.0 {
		t.Fatalf("expected no penalty for the unrelated brand, got %v", out[2].BrandPenalty)
	}

	// All amenities are "standard" hours, so the pre-penalty mass is the raw mass.
	var rawTotal, finalTotal float64
	for _, b := range out {
		rawTotal += b.RawQuality
		finalTotal += b.Quality
	}
	if math.Abs(finalTotal-rawTotal) > 1e-6 {
		t.Fatalf("expected category Q mass preserved: before=%v after=%v", rawTotal, finalTotal)
	}
}

// Invariant 4: removing a brand-proximity neighbor weakly increases Q_a.
func TestBrandProximityDedup_RemovingNeighborIncreasesQuality(t *testing.T) {
	q := testQualityParams()
	withNeighbor := []Amenity{
		{ID: "a1", Category: "cafe", BrandKey: "brandx", Lat: 39.7392, Lon: -104.9903, SizeMetric: ptr(80), PopularityMetric: ptr(80), BrandRecognized: bptr(true), HeritageFlag: bptr(true), HoursRegime: "standard"},
		{ID: "a2", Category: "cafe", BrandKey: "brandx", Lat: 39.7410, Lon: -104.9903, SizeMetric: ptr(80), PopularityMetric: ptr(80), BrandRecognized: bptr(true), HeritageFlag: bptr(true), HoursRegime: "standard"},
	}
	withoutNeighbor := []Amenity{withNeighbor[0]}

	outWith := ComputeCategory(withNeighbor, q)
	outWithout := ComputeCategory(withoutNeighbor, q)

	if !(outWithout[0].Quality >= outWith[0].Quality-1e-9) {
		t.Fatalf("expected removing the neighbor to weakly increase Q_a: with=%v without=%v", outWith[0].Quality, outWithout[0].Quality)
	}
}

func TestComputeCategory_EmptyInput(t *testing.T) {
	if out := ComputeCategory(nil, testQualityParams()); out != nil {
		t.Fatalf("expected nil for empty input, got %+v", out)
	}
}

func TestHoursUplift_AllRegimesKnown(t *testing.T) {
	for _, regime := range []string{"24_7", "extended", "standard", "limited"} {
		if _, ok := hoursUpliftByRegime[regime]; !ok {
			t.Fatalf("missing uplift for regime %q", regime)
		}
	}
}

func TestPercentileRescale_NaNTreatedAsMissing(t *testing.T) {
	nan := math.NaN()
	amenities := []Amenity{
		{ID: "a1", Category: "grocery", SizeMetric: ptr(10)},
		{ID: "a2", Category: "grocery", SizeMetric: &nan},
	}
	out := ComputeCategory(amenities, testQualityParams())
	if out[1].SizeComp != out[0].SizeComp {
		// only one present value, so NaN amenity falls back to median == that value's percentile (1.0)
		t.Fatalf("expected NaN amenity to fall back to median, got %+v / %+v", out[0], out[1])
	}
}
