// Package quality computes per-amenity quality Q_a (C6): a per-category
// percentile rescale of size/popularity/brand/heritage, an opening-hours
// uplift, and a brand-proximity dedup penalty that preserves category mass.
package quality

import (
	"math"
	"sort"

	"github.com/akerscore/aucs/internal/params"
)

// Amenity is the subset of the places table quality needs (spec §6 places
// contract): quality features are optional pointers because missing
// components fall back to the category median.
type Amenity struct {
	ID               string
	Category         string
	BrandKey         string
	Lat, Lon         float64
	SizeMetric       *float64
	PopularityMetric *float64
	BrandRecognized  *bool
	HeritageFlag     *bool
	HoursRegime      string // "24_7", "extended", "standard", "limited"
}

// Breakdown is the published per-amenity quality result (spec §4.6:
// "Q_a, component breakdown, brand_penalty, and hours_regime").
type Breakdown struct {
	AmenityID     string
	Category      string
	SizeComp      float64
	PopComp       float64
	BrandComp     float64
	HeritageComp  float64
	RawQuality    float64 // before hours uplift and dedup penalty
	HoursUplift   float64
	BrandPenalty  float64 // multiplicative factor applied, 1.0 if none
	Quality       float64 // Q_a, final, in [0, 100]
	HoursRegime   string
}

var hoursUpliftByRegime = map[string]float64{
	"24_7":      1.20,
	"extended":  1.10,
	"standard":  1.00,
	"limited":   0.90,
}

// ComputeCategory computes Q_a for every amenity within one category, given
// the quality parameters and brand-proximity radius in km. It is pure and
// operates on one category's amenities at a time (per spec §9's arena /
// per-batch-index guidance: no per-object pointers crossing categories).
func ComputeCategory(amenities []Amenity, q params.QualityParams) []Breakdown {
	n := len(amenities)
	if n == 0 {
		return nil
	}

	sizeRescaled, sizeMedian := percentileRescale(amenities, func(a Amenity) *float64 { return a.SizeMetric })
	popRescaled, popMedian := percentileRescale(amenities, func(a Amenity) *float64 { return a.PopularityMetric })
	brandRescaled, brandMedian := percentileRescaleBool(amenities, func(a Amenity) *bool { return a.BrandRecognized })
	heritageRescaled, heritageMedian := percentileRescaleBool(amenities, func(a Amenity) *bool { return a.HeritageFlag })

	out := make([]Breakdown, n)
	for i, a := range amenities {
		size := valueOr(sizeRescaled[i], sizeMedian)
		pop := valueOr(popRescaled[i], popMedian)
		brand := valueOr(brandRescaled[i], brandMedian)
		heritage := valueOr(heritageRescaled[i], heritageMedian)

		raw := 100 * (q.WeightSize*size + q.WeightPopularity*pop + q.WeightBrand*brand + q.WeightHeritage*heritage)

		uplift := hoursUpliftByRegime[a.HoursRegime]
		if uplift == 0 {
			uplift = 1.0
		}
		withHours := raw * (1 + q.HoursBlendXi*(uplift-1))

		out[i] = Breakdown{
			AmenityID:    a.ID,
			Category:     a.Category,
			SizeComp:     size,
			PopComp:      pop,
			BrandComp:    brand,
			HeritageComp: heritage,
			RawQuality:   raw,
			HoursUplift:  uplift,
			BrandPenalty: 1.0,
			Quality:      withHours,
			HoursRegime:  a.HoursRegime,
		}
	}

	applyBrandProximityDedup(amenities, out, q.BrandProximityBeta, q.BrandProximityRadiusKm)

	for i := range out {
		out[i].Quality = clamp(out[i].Quality, 0, 100)
	}
	return out
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// percentileRescale rank-normalizes a per-amenity metric within a category
// to [0, 1], returning nil for amenities missing the metric, plus the
// category median of the present values (for fallback substitution).
func percentileRescale(amenities []Amenity, get func(Amenity) *float64) ([]*float64, float64) {
	type idxVal struct {
		idx int
		v   float64
	}
	var present []idxVal
	for i, a := range amenities {
		if p := get(a); p != nil && !math.IsNaN(*p) {
			present = append(present, idxVal{i, *p})
		}
	}

	result := make([]*float64, len(amenities))
	if len(present) == 0 {
		return result, 0
	}

	sorted := append([]idxVal(nil), present...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].v < sorted[j].v })

	ranks := make(map[int]float64, len(sorted))
	pcts := make([]float64, len(sorted))
	denom := float64(len(sorted) - 1)
	for rank, e := range sorted {
		var pct float64
		if denom == 0 {
			pct = 1.0
		} else {
			pct = float64(rank) / denom
		}
		ranks[e.idx] = pct
		pcts[rank] = pct
	}
	for _, e := range present {
		pct := ranks[e.idx]
		result[e.idx] = &pct
	}

	return result, medianOf(pcts)
}

func medianOf(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// percentileRescaleBool treats boolean flags as {0,1} and rescales the same
// way, so a category where every amenity is brand-recognized still yields a
// sane (non-divide-by-zero) component.
func percentileRescaleBool(amenities []Amenity, get func(Amenity) *bool) ([]*float64, float64) {
	values := make([]*float64, len(amenities))
	var present int
	var sum float64
	for i, a := range amenities {
		if b := get(a); b != nil {
			var v float64
			if *b {
				v = 1
			}
			values[i] = &v
			present++
			sum += v
		}
	}
	median := 0.0
	if present > 0 {
		median = sum / float64(present)
	}
	return values, median
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
