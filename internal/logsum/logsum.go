// Package logsum computes the nested-logit accessibility kernel (C5): a
// per-(origin, amenity, time-slice) scalar weight derived purely from GTC
// and the nest/mode parameters, aggregated across time slices into w_{i,a}.
package logsum

import (
	"math"
	"sort"

	"github.com/akerscore/aucs/internal/params"
)

// Kernel holds the fixed two-level nest topology (outer: nests, inner:
// modes within a nest) and the reference scale that normalizes w_{i,a} so a
// one-minute walking trip evaluates to 1 (spec §4.5), with the constant
// absorbed into β₀ elsewhere.
type Kernel struct {
	nests     map[string]params.NestParams
	nestOrder []string
	reference float64
}

// NewKernel builds a Kernel from the nest parameters, precomputing the
// reference scale against refWalkMode.
func NewKernel(nests map[string]params.NestParams, refWalkMode string) *Kernel {
	order := make([]string, 0, len(nests))
	for name := range nests {
		order = append(order, name)
	}
	sort.Strings(order) // deterministic iteration regardless of map order

	k := &Kernel{nests: nests, nestOrder: order}
	refW := k.outerLogsum(map[string]float64{refWalkMode: 1})
	if math.IsInf(refW, -1) {
		k.reference = 1
	} else {
		k.reference = math.Exp(refW)
		if k.reference == 0 {
			k.reference = 1
		}
	}
	return k
}

// inclusiveValue computes I_n = θ_n · log Σ_{m∈n} exp(U_m/θ_n) for one nest,
// where U_m = -GTC_m/θ_n, over the modes of that nest that are reachable
// (present with finite GTC) in gtcByMode. Returns (value, hasReachableMode).
func inclusiveValue(nest params.NestParams, gtcByMode map[string]float64) (float64, bool) {
	theta := nest.NestScale
	if theta <= 0 {
		theta = 1e-9
	}

	var terms []float64
	for _, m := range nest.Modes {
		gtc, ok := gtcByMode[m]
		if !ok || math.IsInf(gtc, 1) || math.IsNaN(gtc) {
			continue
		}
		u := -gtc / theta
		terms = append(terms, u/theta)
	}
	if len(terms) == 0 {
		return math.Inf(-1), false
	}

	return theta * logSumExp(terms), true
}

// outerLogsum computes W = log Σ_n exp(I_n) across nests, via stable
// max-subtraction log-sum-exp, skipping nests with no reachable mode.
func (k *Kernel) outerLogsum(gtcByMode map[string]float64) float64 {
	var values []float64
	for _, name := range k.nestOrder {
		nest := k.nests[name]
		iv, ok := inclusiveValue(nest, gtcByMode)
		if ok {
			values = append(values, iv)
		}
	}
	if len(values) == 0 {
		return math.Inf(-1)
	}
	return logSumExp(values)
}

func logSumExp(xs []float64) float64 {
	max := xs[0]
	for _, x := range xs[1:] {
		if x > max {
			max = x
		}
	}
	if math.IsInf(max, -1) {
		return math.Inf(-1)
	}
	var sum float64
	for _, x := range xs {
		sum += math.Exp(x - max)
	}
	return max + math.Log(sum)
}

// SliceWeight returns W_{i,a,τ}, the raw (unnormalized, un-aggregated) log
// accessibility for a single time slice, given the GTC of each reachable
// mode in that slice. Unreachable modes should simply be absent from the
// map; a fully unreachable slice yields -Inf.
func (k *Kernel) SliceWeight(gtcByMode map[string]float64) float64 {
	return k.outerLogsum(gtcByMode)
}

// AggregateSlices computes w_{i,a} = Σ_τ w_τ · exp(W_{i,a,τ}) / reference,
// returning 0 when every slice is unreachable (spec §4.5).
func (k *Kernel) AggregateSlices(sliceWeights map[string]float64, timeSliceWeight map[string]float64) float64 {
	var total float64
	var anyFinite bool
	for slice, w := range sliceWeights {
		if math.IsInf(w, -1) {
			continue
		}
		tw := timeSliceWeight[slice]
		total += tw * math.Exp(w)
		anyFinite = true
	}
	if !anyFinite || total == 0 {
		return 0
	}
	return total / k.reference
}

// Weight is the convenience full pipeline: given per-slice, per-mode GTC
// minutes and time-slice weights, returns w_{i,a} directly.
func (k *Kernel) Weight(gtcBySliceThenMode map[string]map[string]float64, timeSliceWeight map[string]float64) float64 {
	sliceWeights := make(map[string]float64, len(gtcBySliceThenMode))
	for slice, byMode := range gtcBySliceThenMode {
		sliceWeights[slice] = k.SliceWeight(byMode)
	}
	return k.AggregateSlices(sliceWeights, timeSliceWeight)
}
