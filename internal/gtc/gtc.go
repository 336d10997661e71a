// Package gtc computes the generalized travel cost kernel (C4): perceived
// minutes of cost per (origin, amenity, mode, time-slice), composed from
// skim components and mode/time-slice parameters.
package gtc

import (
	"math"

	"github.com/akerscore/aucs/internal/params"
	"github.com/akerscore/aucs/internal/skim"
)

// Result is one GTC entry, derived from a skim entry plus parameters.
type Result struct {
	OriginCell    string
	AmenityID     string
	Mode          string
	TimeSlice     string
	Minutes       float64 // +Inf when unreachable
	Reachable     bool
	ClampedInputs int // count of negative component inputs clamped to 0, for QA
}

// QACounters accumulates numeric-hazard sentinel counts across a batch
// (spec §7's "row-level ... count into QA metrics").
type QACounters struct {
	Rows          int
	Unreachable   int
	ClampedInputs int
}

// Compute derives the GTC for a single (i, a, m, tau) from a skim entry, the
// mode parameters, the time-slice value-of-time, and a carry penalty for
// this amenity's category. It is pure and never yields, per spec §5.
func Compute(e skim.Entry, mode params.ModeParams, timeSliceVOT float64, categoryCarryPenalty float64, alphaAccess, alphaEgress, alphaWait, gammaTransfers, rhoRel float64) Result {
	r := Result{OriginCell: e.OriginCell, AmenityID: e.DestinationID, Mode: e.Mode, TimeSlice: e.TimeSlice}

	if !e.Reachable {
		r.Minutes = math.Inf(1)
		r.Reachable = false
		return r
	}

	ivt := clampNonNeg(e.InVehicleMin, &r.ClampedInputs)
	if ivt > mode.MaxIVTCapMin {
		ivt = mode.MaxIVTCapMin
	}
	access := clampNonNeg(e.AccessMin, &r.ClampedInputs)
	egress := clampNonNeg(e.EgressMin, &r.ClampedInputs)
	wait := clampNonNeg(e.WaitMin, &r.ClampedInputs)
	transfers := float64(e.Transfers)
	if transfers < 0 {
		transfers = 0
		r.ClampedInputs++
	}
	reliab := clampNonNeg(e.ReliabilityBufferMin, &r.ClampedInputs)
	fare := clampNonNeg(e.FareUSD, &r.ClampedInputs)

	vot := timeSliceVOT
	if vot <= 0 || math.IsNaN(vot) {
		vot = 1e-9 // guards division; validated elsewhere to be > 0
	}

	total := ivt +
		alphaAccess*access +
		alphaEgress*egress +
		alphaWait*wait +
		gammaTransfers*transfers +
		rhoRel*reliab +
		fare/vot +
		categoryCarryPenalty +
		mode.Beta0

	if math.IsNaN(total) || math.IsInf(total, 0) {
		r.Minutes = math.Inf(1)
		r.Reachable = false
		return r
	}

	r.Minutes = total
	r.Reachable = true
	return r
}

func clampNonNeg(v float64, clamped *int) float64 {
	if v < 0 {
		*clamped++
		return 0
	}
	return v
}

// ComputeBatch vectorizes Compute over a slice of skim entries for one mode,
// accumulating QA counters as it goes.
func ComputeBatch(entries []skim.Entry, mode params.ModeParams, timeSliceVOT func(slice string) float64, categoryCarryPenalty func(amenityID string) float64, alphaAccess, alphaEgress, alphaWait, gammaTransfers, rhoRel float64) ([]Result, QACounters) {
	results := make([]Result, len(entries))
	var qa QACounters
	for i, e := range entries {
		r := Compute(e, mode, timeSliceVOT(e.TimeSlice), categoryCarryPenalty(e.DestinationID), alphaAccess, alphaEgress, alphaWait, gammaTransfers, rhoRel)
		results[i] = r
		qa.Rows++
		qa.ClampedInputs += r.ClampedInputs
		if !r.Reachable {
			qa.Unreachable++
		}
	}
	return results, qa
}

// UnreachableShare is the fraction of rows recorded unreachable, checked by
// the pipeline driver against a configured critical threshold (spec §4.4).
func (q QACounters) UnreachableShare() float64 {
	if q.Rows == 0 {
		return 0
	}
	return float64(q.Unreachable) / float64(q.Rows)
}
