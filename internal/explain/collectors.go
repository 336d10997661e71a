package explain

import (
	"sort"

	"github.com/akerscore/aucs/internal/subscores"
)

// TopK ranks a subscore's contributor table by contribution, descending,
// and returns at most k entries, converted to the explainability schema.
func TopK(contribs []subscores.Contributor, k int) []Contributor {
	sorted := append([]subscores.Contributor(nil), contribs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Contribution > sorted[j].Contribution })
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}

	out := make([]Contributor, len(sorted))
	for i, c := range sorted {
		out[i] = Contributor{
			AmenityID:    c.AmenityID,
			Category:     c.Category,
			BestMode:     c.Mode,
			TimeSlice:    c.TimeSlice,
			Contribution: c.Contribution,
		}
	}
	return out
}

// BestMode picks the argmax-utility (lowest-GTC) mode for one amenity from
// its per-mode GTC minutes (spec §4.10: "best-mode-by-amenity (the
// nest-probability argmax)"). Lower GTC maps to higher nested-logit
// utility, so the minimum-GTC mode is the argmax.
func BestMode(gtcByMode map[string]float64) string {
	best := ""
	var bestGTC float64
	for mode, gtc := range gtcByMode {
		if best == "" || gtc < bestGTC {
			best = mode
			bestGTC = gtc
		}
	}
	return best
}
