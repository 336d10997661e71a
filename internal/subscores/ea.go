package subscores

// EACategories are the seven fixed Essentials Access categories (spec §4.8).
var EACategories = []string{"grocery", "pharmacy", "primary_care", "childcare", "K8_school", "bank_atm", "postal_parcel"}

// CategoryScore is one category's satiated/diversity-adjusted score, as
// produced by internal/aggregate, keyed for the EA shortfall rule.
type CategoryScore struct {
	Category     string
	Score        float64 // Ŝ_{i,c}
	Contributors []Contributor
}

// EA computes EA_i = mean_c(Ŝ_{i,c}) - Shortfall_i, floored at 0, where
// Shortfall_i = min(P_max, P_miss * |{c : Ŝ_{i,c} < S_min}|) (spec §4.8, S1).
func EA(categories []CategoryScore, sMin, pMiss, pMax float64) Result {
	if len(categories) == 0 {
		return Result{Value: 0}
	}

	var sum float64
	var misses int
	var contribs []Contributor
	for _, c := range categories {
		sum += c.Score
		if c.Score < sMin {
			misses++
		}
		contribs = append(contribs, c.Contributors...)
	}
	mean := sum / float64(len(categories))
	shortfall := pMiss * float64(misses)
	if shortfall > pMax {
		shortfall = pMax
	}

	value := mean - shortfall
	if value < 0 {
		value = 0
	}
	return Result{Value: value, Contributors: contribs}
}
