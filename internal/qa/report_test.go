package qa

import (
	"errors"
	"testing"

	"github.com/akerscore/aucs/internal/contracts"
)

func TestEvaluate_BelowThresholdPasses(t *testing.T) {
	r := NewRunner(Thresholds{UnreachableCritical: 0.1, NumericHazardCritical: 0.05})
	report, err := r.Evaluate("gtc", SentinelCounts{TotalRows: 1000, Unreachable: 50}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Counts.UnreachableShare() != 0.05 {
		t.Fatalf("expected 0.05 share, got %v", report.Counts.UnreachableShare())
	}
}

func TestEvaluate_AboveUnreachableThresholdFails(t *testing.T) {
	r := NewRunner(Thresholds{UnreachableCritical: 0.1, NumericHazardCritical: 0.05})
	_, err := r.Evaluate("gtc", SentinelCounts{TotalRows: 1000, Unreachable: 200}, nil)
	if !errors.Is(err, contracts.ErrUnreachableThreshold) {
		t.Fatalf("expected ErrUnreachableThreshold, got %v", err)
	}
}

func TestEvaluate_AboveNumericHazardThresholdFails(t *testing.T) {
	r := NewRunner(Thresholds{UnreachableCritical: 0.5, NumericHazardCritical: 0.01})
	_, err := r.Evaluate("logsum", SentinelCounts{TotalRows: 1000, NumericHazard: 20}, nil)
	if !errors.Is(err, contracts.ErrNumericHazard) {
		t.Fatalf("expected ErrNumericHazard, got %v", err)
	}
}

func TestEvaluate_ZeroRowsNeverDividesByZero(t *testing.T) {
	r := NewRunner(Thresholds{UnreachableCritical: 0.1, NumericHazardCritical: 0.1})
	report, err := r.Evaluate("gtc", SentinelCounts{}, nil)
	if err != nil {
		t.Fatalf("unexpected error on empty stage: %v", err)
	}
	if report.Counts.UnreachableShare() != 0 || report.Counts.NumericHazardShare() != 0 {
		t.Fatal("expected zero shares for an empty stage")
	}
}

func TestBuildReport_CollectsAllStages(t *testing.T) {
	report := BuildReport("run-1", []StageReport{
		{Stage: "gtc", Counts: SentinelCounts{TotalRows: 10, Unreachable: 1}},
		{Stage: "logsum", Counts: SentinelCounts{TotalRows: 10}},
	})
	if report.RunID != "run-1" || len(report.Stages) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestEvaluate_ByCategoryBreakdownPreserved(t *testing.T) {
	r := NewRunner(Thresholds{UnreachableCritical: 1, NumericHazardCritical: 1})
	byCategory := map[string]SentinelCounts{
		"grocery": {TotalRows: 100, Unreachable: 5},
		"bank":    {TotalRows: 50, Unreachable: 1},
	}
	report, err := r.Evaluate("gtc", SentinelCounts{TotalRows: 150, Unreachable: 6}, byCategory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.ByCategory) != 2 {
		t.Fatalf("expected 2 categories preserved, got %d", len(report.ByCategory))
	}
}
