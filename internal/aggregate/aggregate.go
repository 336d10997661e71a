// Package aggregate implements the CES / satiation / diversity kernel
// (C7): collapses a category's per-amenity (Q_a, w_{i,a}) pairs into the
// category value V_{i,c} and the final bounded category score Ŝ_{i,c}.
package aggregate

import (
	"math"
)

// Contribution is one amenity's input to a category aggregate.
type Contribution struct {
	AmenityID string
	Subtype   string
	Quality   float64 // Q_a
	Weight    float64 // w_{i,a}
}

// CategoryResult is the per-(cell, category) output, published for
// explainability alongside the subscore composition.
type CategoryResult struct {
	V               float64
	Satiated        float64 // S_{i,c}, before diversity bonus
	Diversity       float64 // H_{i,c}
	DiversityBonus  float64 // m_{i,c}
	Score           float64 // Ŝ_{i,c}, final clipped result
	ContributionZ   map[string]float64 // z_{i,a} by amenity id, for top-K explainability
}

// rhoSmallThreshold below which CES is computed in log-space to avoid
// overflow/underflow when inputs span many orders of magnitude (spec §4.7
// "Numerical" note).
const rhoSmallThreshold = 0.05

// categoryValue computes V_{i,c} = (Σ z_{i,a})^{1/ρc} with z_{i,a} =
// (Q_a/100·w_{i,a})^{ρc}, 0^{ρc}=0, returning 0 for an empty category. Q_a
// is taken from its [0, 100] scale to [0, 1], so a single amenity with
// Q_a=100 and w=1 gives V=1.
func categoryValue(contribs []Contribution, rho float64) (float64, map[string]float64) {
	z := make(map[string]float64, len(contribs))
	if len(contribs) == 0 {
		return 0, z
	}

	if rho < rhoSmallThreshold {
		return categoryValueLogSpace(contribs, rho, z)
	}

	var sum float64
	for _, c := range contribs {
		qw := c.Quality / 100 * c.Weight
		var zi float64
		if qw > 0 {
			zi = math.Pow(qw, rho)
		}
		z[c.AmenityID] = zi
		sum += zi
	}
	if sum <= 0 {
		return 0, z
	}
	return math.Pow(sum, 1/rho), z
}

// categoryValueLogSpace computes the same quantity using log-sum-exp over
// log(Q/100·w)*rho terms, for small rho where direct powers would lose
// precision across many orders of magnitude.
func categoryValueLogSpace(contribs []Contribution, rho float64, z map[string]float64) (float64, map[string]float64) {
	var logTerms []float64
	var positiveIdx []int
	for i, c := range contribs {
		qw := c.Quality / 100 * c.Weight
		if qw <= 0 {
			z[c.AmenityID] = 0
			continue
		}
		logTerms = append(logTerms, rho*math.Log(qw))
		positiveIdx = append(positiveIdx, i)
	}
	if len(logTerms) == 0 {
		return 0, z
	}

	maxLog := logTerms[0]
	for _, l := range logTerms[1:] {
		if l > maxLog {
			maxLog = l
		}
	}
	var sumExp float64
	for j, l := range logTerms {
		e := math.Exp(l - maxLog)
		sumExp += e
		z[contribs[positiveIdx[j]].AmenityID] = math.Exp(l)
	}
	logSum := maxLog + math.Log(sumExp)
	return math.Exp(logSum / rho), z
}

// satiate maps V to S_{i,c} = 100*(1 - exp(-kappa*V)), strictly < 100,
// monotonically increasing in V (spec invariant 6).
func satiate(v, kappa float64) float64 {
	if v <= 0 {
		return 0
	}
	s := 100 * (1 - math.Exp(-kappa*v))
	if s >= 100 {
		// exp(-kappa*V) underflows relative to 1 for large kappa*V; keep the
		// result just below the asymptote.
		s = math.Nextafter(100, 0)
	}
	return s
}

// shannonDiversity computes H_{i,c} = -Σ p log p over subtype shares of the
// z_{i,a} mass, returning 0 when there is a single subtype or no mass.
func shannonDiversity(contribs []Contribution, z map[string]float64) float64 {
	bySubtype := make(map[string]float64)
	var total float64
	for _, c := range contribs {
		zi := z[c.AmenityID]
		bySubtype[c.Subtype] += zi
		total += zi
	}
	if total <= 0 || len(bySubtype) <= 1 {
		return 0
	}
	var h float64
	for _, mass := range bySubtype {
		if mass <= 0 {
			continue
		}
		p := mass / total
		h -= p * math.Log(p)
	}
	return h
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Compute runs the full C7 pipeline for one (cell, category): CES
// aggregation, satiation, and the diversity bonus, producing Ŝ_{i,c}.
func Compute(contribs []Contribution, rho, kappa, diversityWeight, muMin, muMax float64) CategoryResult {
	v, z := categoryValue(contribs, rho)
	s := satiate(v, kappa)
	h := shannonDiversity(contribs, z)
	m := clip(1+diversityWeight*(math.Exp(h)-1), muMin, muMax)
	final := clip(s*m, 0, 100)

	return CategoryResult{
		V:              v,
		Satiated:       s,
		Diversity:      h,
		DiversityBonus: m,
		Score:          final,
		ContributionZ:  z,
	}
}
