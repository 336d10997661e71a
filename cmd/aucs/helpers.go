package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/akerscore/aucs/internal/logging"
	"github.com/akerscore/aucs/internal/metrics"
	"github.com/akerscore/aucs/internal/pgexport"
	"github.com/akerscore/aucs/internal/pipeline"
	"github.com/akerscore/aucs/internal/qa"
	"github.com/akerscore/aucs/internal/runstages"
)

// loadScenario decodes a scenario document from path.
func loadScenario(path string, out *runstages.ScenarioInput) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scenario %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode scenario %s: %w", path, err)
	}
	return nil
}

// instrumentStages wraps every stage's Run so stage timing reaches both the
// Prometheus registry and the structured stage-progress log, without
// changing the driver's resumability or cancellation semantics.
func instrumentStages(stages []pipeline.Stage, reg *metrics.Registry, progress *logging.StageProgress) []pipeline.Stage {
	wrapped := make([]pipeline.Stage, len(stages))
	for i, s := range stages {
		s := s
		wrapped[i] = pipeline.Stage{
			Name:      s.Name,
			InputHash: s.InputHash,
			Run: func(ctx context.Context) (pipeline.StageOutput, error) {
				progress.StartStage(s.Name)
				timer := reg.StartStageTimer(s.Name)
				out, err := s.Run(ctx)
				if err != nil {
					timer.Stop("failed")
					return out, err
				}
				timer.Stop("ok")
				progress.CompleteStage(s.Name)
				return out, nil
			},
		}
	}
	return wrapped
}

// writeQAReport persists the run's QA report alongside the manifest.
func writeQAReport(outputDir string, report qa.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal qa report: %w", err)
	}
	path := outputDir + "/qa_report.json"
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write qa report: %w", err)
	}
	return os.Rename(tmp, path)
}

// exportToPostgres writes the completed run's composed scores, raw
// subscores, and explainability contributors to PostgreSQL when enabled. A
// disabled config is a no-op so callers can wire it unconditionally.
func exportToPostgres(cfg pgexport.Config, rc *runstages.RunContext) error {
	if !cfg.Enabled {
		return nil
	}
	mgr, err := pgexport.NewManager(cfg)
	if err != nil {
		return err
	}
	defer mgr.Close()

	ctx := context.Background()
	cellOrder := rc.CellOrder()
	repos := mgr.Repos()

	aucsRows := pgexport.AUCSRows(cellOrder, rc.Composition(), rc.Normalized(), rc.Metro(), rc.Snap.ParamHash)
	if err := repos.AUCS.UpsertBatch(ctx, aucsRows); err != nil {
		return err
	}

	rawRows := pgexport.SubscoresRawRows(cellOrder, rc.RawSubscores(), rc.Metro())
	if err := repos.SubscoresRaw.UpsertBatch(ctx, rawRows); err != nil {
		return err
	}

	explainRows := pgexport.ExplainabilityRows(rc.ExplainReport())
	return repos.Explainability.InsertBatch(ctx, explainRows)
}
