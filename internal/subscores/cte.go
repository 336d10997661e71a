package subscores

import "sort"

// CorridorPair is one category-pair chain found along a transit itinerary's
// buffered stop sequence (spec §4.8 CTE).
type CorridorPair struct {
	ItineraryID  string
	FirstAmenity string
	SecondAmenity string
	CategoryPair [2]string
	QWSum        float64 // summed Q*w of the two elements
	DeltaMinutes float64 // extra time vs. the direct itinerary
}

// CTE scores each candidate chain by QWSum / (1 + Delta/DeltaMax), takes
// the top K, and normalizes to [0, 100] by normConstant (spec §4.8 CTE).
func CTE(candidates []CorridorPair, deltaMax float64, topK int, normConstant float64) Result {
	if len(candidates) == 0 {
		return Result{Value: 0}
	}

	type scored struct {
		pair  CorridorPair
		score float64
	}
	scoredChains := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		denom := 1 + c.DeltaMinutes/deltaMax
		if denom <= 0 {
			denom = 1
		}
		scoredChains = append(scoredChains, scored{pair: c, score: c.QWSum / denom})
	}

	sort.Slice(scoredChains, func(i, j int) bool { return scoredChains[i].score > scoredChains[j].score })
	if topK > 0 && len(scoredChains) > topK {
		scoredChains = scoredChains[:topK]
	}

	var sum float64
	contribs := make([]Contributor, 0, len(scoredChains))
	for _, s := range scoredChains {
		sum += s.score
		contribs = append(contribs, Contributor{
			AmenityID: s.pair.FirstAmenity + "+" + s.pair.SecondAmenity,
			Category:  s.pair.CategoryPair[0] + "+" + s.pair.CategoryPair[1],
			Contribution: s.score,
		})
	}

	value := normalizeToHundred(sum, normConstant)
	return Result{Value: value, Contributors: contribs}
}
