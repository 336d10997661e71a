// Package normalize implements subscore normalization and final AUCS
// composition (C9): percentile and anchor modes, and NaN-safe weighted
// composition with "unscored" fallback and reason codes.
package normalize

import (
	"fmt"
	"math"
	"sort"

	"github.com/akerscore/aucs/internal/params"
)

// Percentile clips each raw value to the [pLo, pHi] percentile band of the
// whole distribution, then linearly maps the clipped range onto [0, 100].
// pLo/pHi are fractions in [0, 1] (e.g. 0.05 and 0.95).
func Percentile(raw []float64, pLo, pHi float64) []float64 {
	out := make([]float64, len(raw))
	finite := finiteValues(raw)
	if len(finite) == 0 {
		return out
	}

	lo := percentileOf(finite, pLo)
	hi := percentileOf(finite, pHi)
	for i, v := range raw {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = linearMap(v, lo, hi)
	}
	return out
}

// Anchor applies a fixed two-point calibration: anchorLo maps to 0,
// anchorHi maps to 100, clipped to [0, 100].
func Anchor(raw []float64, anchorLo, anchorHi float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = linearMap(v, anchorLo, anchorHi)
	}
	return out
}

func linearMap(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	clipped := v
	if clipped < lo {
		clipped = lo
	}
	if clipped > hi {
		clipped = hi
	}
	return 100 * (clipped - lo) / (hi - lo)
}

func finiteValues(raw []float64) []float64 {
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// percentileOf returns the p-th percentile (p in [0,1]) of sorted data
// using linear interpolation between closest ranks.
func percentileOf(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := p * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// Normalize dispatches to Percentile or Anchor for one subscore's full
// population of raw values, per its NormalizeParams.Mode. cfg.PLo/cfg.PHi
// are percentiles on the 0-100 scale params.Validate accepts (e.g. 5 and
// 95); they are divided by 100 before calling Percentile.
func Normalize(raw []float64, cfg params.NormalizeParams) ([]float64, error) {
	switch cfg.Mode {
	case "percentile", "":
		return Percentile(raw, cfg.PLo/100, cfg.PHi/100), nil
	case "anchor":
		return Anchor(raw, cfg.AnchorLo, cfg.AnchorHi), nil
	default:
		return nil, fmt.Errorf("normalize: unknown mode %q", cfg.Mode)
	}
}
