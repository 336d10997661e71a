// Package qa builds the per-stage sentinel-rate QA report attached to the
// run manifest (spec §7: "counts and per-category shares of sentinel rows,
// plus distribution summaries") and decides whether a stage's sentinel
// share exceeds its configured critical threshold (spec §4.11 rule: "the
// stage fails only when the unreachable fraction exceeds a configured
// critical threshold").
//
// A `PhaseResult`/`RunResult` pair — per-unit status plus an aggregate —
// reported through a `Runner`, re-pointed at stage sentinel rates instead
// of a fixed readiness checklist; see DESIGN.md.
package qa

import (
	"fmt"
	"time"

	"github.com/akerscore/aucs/internal/contracts"
)

// SentinelCounts tallies the rows replaced by a defined sentinel in one
// stage (or one category within a stage): GTC=+Inf for unreachable OD
// pairs, w=0 / NaN-propagated "unscored" for numeric hazards.
type SentinelCounts struct {
	TotalRows        int
	Unreachable      int
	NumericHazard    int
	ContractViolation int
}

// UnreachableShare is the fraction of rows recorded as unreachable.
func (c SentinelCounts) UnreachableShare() float64 {
	if c.TotalRows == 0 {
		return 0
	}
	return float64(c.Unreachable) / float64(c.TotalRows)
}

// NumericHazardShare is the fraction of rows replaced by a numeric-hazard
// sentinel (overflow, underflow, NaN kernel input).
func (c SentinelCounts) NumericHazardShare() float64 {
	if c.TotalRows == 0 {
		return 0
	}
	return float64(c.NumericHazard) / float64(c.TotalRows)
}

// Thresholds are the configured critical shares above which a stage fails
// rather than merely recording sentinel rows (spec §4.11, §7).
type Thresholds struct {
	UnreachableCritical   float64
	NumericHazardCritical float64
}

// StageReport is one stage's sentinel tally, overall and broken out by
// category (e.g. amenity category, transit mode) for the distribution
// summary spec §7 asks for.
type StageReport struct {
	Stage      string                    `json:"stage"`
	Counts     SentinelCounts            `json:"counts"`
	ByCategory map[string]SentinelCounts `json:"by_category,omitempty"`
}

// Report is the full QA attachment for one run, folded into the run
// manifest alongside the stage artifact entries.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Stages      []StageReport `json:"stages"`
}

// Runner evaluates stage sentinel counts against configured thresholds.
type Runner struct {
	thresholds Thresholds
}

// NewRunner builds a Runner with the given critical thresholds.
func NewRunner(t Thresholds) *Runner {
	return &Runner{thresholds: t}
}

// Evaluate builds a StageReport and returns a sentinel error
// (contracts.ErrUnreachableThreshold or contracts.ErrNumericHazard) if the
// stage's overall sentinel share exceeds its critical threshold. A
// threshold breach never drops the report — the caller still gets the
// counts for the QA attachment even when the stage is going to fail.
func (r *Runner) Evaluate(stage string, counts SentinelCounts, byCategory map[string]SentinelCounts) (StageReport, error) {
	report := StageReport{Stage: stage, Counts: counts, ByCategory: byCategory}

	if share := counts.UnreachableShare(); share > r.thresholds.UnreachableCritical {
		return report, fmt.Errorf("%w: stage %s unreachable share %.4f exceeds threshold %.4f",
			contracts.ErrUnreachableThreshold, stage, share, r.thresholds.UnreachableCritical)
	}
	if share := counts.NumericHazardShare(); share > r.thresholds.NumericHazardCritical {
		return report, fmt.Errorf("%w: stage %s numeric hazard share %.4f exceeds threshold %.4f",
			contracts.ErrNumericHazard, stage, share, r.thresholds.NumericHazardCritical)
	}
	return report, nil
}

// BuildReport assembles the final per-run QA report from every stage's
// StageReport, for attachment to the run manifest.
func BuildReport(runID string, stages []StageReport) Report {
	return Report{RunID: runID, GeneratedAt: time.Now(), Stages: stages}
}
