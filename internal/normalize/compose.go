package normalize

import (
	"fmt"
	"math"
	"sort"
)

// Composition is the final per-cell AUCS result (spec §4.9: "any subscore
// NaN causes the cell's AUCS to be recorded as unscored (null), with
// reason codes").
type Composition struct {
	AUCS      float64
	Unscored  bool
	Reasons   []string
}

// Compose computes AUCS_i = Σ_k w_k · Ŝ_i^k / 100 · 100, i.e. the
// weight-normalized mean of the seven subscores rescaled to [0, 100].
// weights must sum to 100 (checked by params.Validate); any NaN subscore
// marks the cell unscored with a reason code naming the offending key.
func Compose(subscores map[string]float64, weights map[string]float64) Composition {
	var reasons []string
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic reason ordering

	var weightSum, weighted float64
	for _, k := range keys {
		w := weights[k]
		v, ok := subscores[k]
		if !ok {
			reasons = append(reasons, fmt.Sprintf("%s: missing", k))
			continue
		}
		if math.IsNaN(v) {
			reasons = append(reasons, fmt.Sprintf("%s: NaN", k))
			continue
		}
		weightSum += w
		weighted += w * v
	}

	if len(reasons) > 0 {
		return Composition{Unscored: true, Reasons: reasons, AUCS: math.NaN()}
	}
	if weightSum == 0 {
		return Composition{Unscored: true, Reasons: []string{"weights: sum to zero"}, AUCS: math.NaN()}
	}

	aucs := weighted / weightSum
	return Composition{AUCS: aucs}
}
