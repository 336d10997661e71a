package subscores

import "math"

// LCACategory is one of LCA's eight categories, including the novelty
// uplift inputs (spec §4.8: "novelty uplift ... from pageview volatility").
type LCACategory struct {
	Category     string
	Score        float64 // Ŝ_{i,c} before novelty uplift
	NoveltyZ     float64 // per-category-clipped z-score of pageview volatility
	NoveltyNu    float64 // ν_c, novelty weight
	NoveltyZCap  float64 // z_cap
	Contributors []Contributor
}

// LCA applies the novelty uplift per category, then CES-combines the eight
// uplifted category scores with a second-tier cross-category elasticity
// rhoCross (spec §4.8 LCA). Open question #1 resolves novelty to a
// per-category-clipped z-score (see DESIGN.md).
func LCA(categories []LCACategory, rhoCross float64) Result {
	if len(categories) == 0 {
		return Result{Value: 0}
	}

	var contribs []Contributor
	var sum float64
	for _, c := range categories {
		z := clip(c.NoveltyZ, 0, c.NoveltyZCap)
		uplifted := c.Score * (1 + c.NoveltyNu*z)
		var term float64
		if uplifted > 0 {
			term = math.Pow(uplifted, rhoCross)
		}
		sum += term
		contribs = append(contribs, c.Contributors...)
	}
	var value float64
	if sum > 0 {
		value = math.Pow(sum, 1/rhoCross)
	}
	return Result{Value: clip(value, 0, 100), Contributors: contribs}
}
