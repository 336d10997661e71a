package params

import (
	"fmt"
	"math"
)

const sumTolerance = 1e-6

// Validate runs every bound and cross-field rule from spec §4.1 and returns
// one message per failure, each naming the offending field path, so a
// `validate` run can report everything wrong in one pass rather than
// stopping at the first violation.
func Validate(s *Snapshot) []string {
	var errs []string

	errs = append(errs, validateSubscoreWeights(s)...)
	errs = append(errs, validateTimeSlices(s)...)
	errs = append(errs, validateModesAndNests(s)...)
	errs = append(errs, validateQuality(s)...)
	errs = append(errs, validateCategories(s)...)
	errs = append(errs, validateNormalization(s)...)

	return errs
}

func validateSubscoreWeights(s *Snapshot) []string {
	var errs []string
	sum := 0.0
	for k, w := range s.Subscores {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("subscores.%s: negative weight %v", k, w))
		}
		sum += w
	}
	if len(s.Subscores) > 0 && math.Abs(sum-100) > 1e-9 {
		errs = append(errs, fmt.Sprintf("subscores: weights sum to %v, expected 100", sum))
	}
	return errs
}

func validateTimeSlices(s *Snapshot) []string {
	var errs []string
	if len(s.TimeSlices) == 0 {
		errs = append(errs, "time_slices: must contain at least one slice")
		return errs
	}
	sum := 0.0
	for i, ts := range s.TimeSlices {
		if ts.Name == "" {
			errs = append(errs, fmt.Sprintf("time_slices[%d].name: empty", i))
		}
		if ts.Weight < 0 || ts.Weight > 1 {
			errs = append(errs, fmt.Sprintf("time_slices[%d].weight: %v outside [0,1]", i, ts.Weight))
		}
		if ts.ValueOfTime <= 0 {
			errs = append(errs, fmt.Sprintf("time_slices[%d].value_of_time: must be > 0", i))
		}
		sum += ts.Weight
	}
	if math.Abs(sum-1) > 1e-6 {
		errs = append(errs, fmt.Sprintf("time_slices: weights sum to %v, expected 1", sum))
	}
	return errs
}

func validateModesAndNests(s *Snapshot) []string {
	var errs []string
	required := []string{"walk", "bike", "car", "transit"}
	for _, m := range required {
		mp, ok := s.Modes[m]
		if !ok {
			errs = append(errs, fmt.Sprintf("modes.%s: missing", m))
			continue
		}
		if mp.DecayHalfLifeMin <= 0 {
			errs = append(errs, fmt.Sprintf("modes.%s.decay_half_life_min: must be > 0", m))
		}
		if mp.MaxIVTCapMin <= 0 {
			errs = append(errs, fmt.Sprintf("modes.%s.max_ivt_cap_min: must be > 0", m))
		}
	}

	if len(s.Nests) == 0 {
		errs = append(errs, "nests: must define at least one nest")
	}
	seen := make(map[string]bool)
	for name, n := range s.Nests {
		if n.NestScale <= 0 || n.NestScale > 1 {
			errs = append(errs, fmt.Sprintf("nests.%s.nest_scale: %v outside (0,1]", name, n.NestScale))
		}
		for _, m := range n.Modes {
			if _, ok := s.Modes[m]; !ok {
				errs = append(errs, fmt.Sprintf("nests.%s: references unknown mode %q", name, m))
			}
			if seen[m] {
				errs = append(errs, fmt.Sprintf("nests.%s: mode %q assigned to more than one nest", name, m))
			}
			seen[m] = true
		}
	}
	return errs
}

func validateQuality(s *Snapshot) []string {
	var errs []string
	q := s.Quality
	sum := q.WeightSize + q.WeightPopularity + q.WeightBrand + q.WeightHeritage
	if math.Abs(sum-1) > 1e-6 {
		errs = append(errs, fmt.Sprintf("quality: component weights sum to %v, expected 1", sum))
	}
	if q.HoursBlendXi < 0 || q.HoursBlendXi > 1 {
		errs = append(errs, fmt.Sprintf("quality.hours_blend_xi: %v outside [0,1]", q.HoursBlendXi))
	}
	for _, regime := range []string{"24_7", "extended", "standard", "limited"} {
		if _, ok := q.HoursUplift[regime]; !ok {
			errs = append(errs, fmt.Sprintf("quality.hours_uplift.%s: missing", regime))
		}
	}
	if q.BrandProximityBeta < 0 {
		errs = append(errs, "quality.brand_proximity_beta: must be >= 0")
	}
	return errs
}

func validateCategories(s *Snapshot) []string {
	var errs []string
	if len(s.Categories) == 0 {
		errs = append(errs, "categories: must define at least one category")
	}
	for name, c := range s.Categories {
		if c.Rho <= 0 || c.Rho > 1 {
			errs = append(errs, fmt.Sprintf("categories.%s.rho: %v outside (0,1]", name, c.Rho))
		}
		hasKappa := c.Kappa != nil
		hasAnchor := c.AnchorV != nil && c.AnchorS != nil
		if !hasKappa && !hasAnchor {
			errs = append(errs, fmt.Sprintf("categories.%s: must specify either kappa or (anchor_v, anchor_s)", name))
		}
		if hasAnchor {
			if *c.AnchorS <= 0 || *c.AnchorS >= 100 {
				errs = append(errs, fmt.Sprintf("categories.%s.anchor_s: %v outside (0,100)", name, *c.AnchorS))
			}
			if *c.AnchorV <= 0 {
				errs = append(errs, fmt.Sprintf("categories.%s.anchor_v: must be > 0", name))
			}
		}
		if c.DiversityMin > c.DiversityMax {
			errs = append(errs, fmt.Sprintf("categories.%s: diversity_min > diversity_max", name))
		}
	}
	return errs
}

func validateNormalization(s *Snapshot) []string {
	var errs []string
	for name, n := range s.Normalization {
		switch n.Mode {
		case "percentile":
			if n.PLo < 0 || n.PHi > 100 || n.PLo >= n.PHi {
				errs = append(errs, fmt.Sprintf("normalization.%s: invalid percentile bounds [%v, %v]", name, n.PLo, n.PHi))
			}
		case "anchor":
			if n.AnchorLo >= n.AnchorHi {
				errs = append(errs, fmt.Sprintf("normalization.%s: anchor_lo must be < anchor_hi", name))
			}
		default:
			errs = append(errs, fmt.Sprintf("normalization.%s.mode: must be 'percentile' or 'anchor', got %q", name, n.Mode))
		}
	}
	return errs
}

// ResolvedKappa resolves the closed-form satiation constant for a category, deriving
// it from the anchor form when kappa isn't given directly (spec §4.7).
func (c CategoryParams) ResolvedKappa() float64 {
	if c.Kappa != nil {
		return *c.Kappa
	}
	return -math.Log(1-*c.AnchorS/100) / *c.AnchorV
}
