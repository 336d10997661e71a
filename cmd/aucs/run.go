package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/akerscore/aucs/internal/contracts"
	"github.com/akerscore/aucs/internal/logging"
	"github.com/akerscore/aucs/internal/metrics"
	"github.com/akerscore/aucs/internal/params"
	"github.com/akerscore/aucs/internal/pgexport"
	"github.com/akerscore/aucs/internal/pipeline"
	"github.com/akerscore/aucs/internal/qa"
	"github.com/akerscore/aucs/internal/runstages"
)

func newRunCommand() *cobra.Command {
	var paramsPath, scenarioPath, outputDir string
	var stageTimeout time.Duration
	var unreachableCritical, numericHazardCritical float64
	pgCfg := pgexport.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the AUCS pipeline over a scenario, writing a resumable manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(runOptions{
				paramsPath:            paramsPath,
				scenarioPath:          scenarioPath,
				outputDir:             outputDir,
				stageTimeout:          stageTimeout,
				unreachableCritical:   unreachableCritical,
				numericHazardCritical: numericHazardCritical,
				pgExport:              pgCfg,
			})
		},
	}

	cmd.Flags().StringVar(&paramsPath, "params", "", "path to the parameter document (required)")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to the scenario JSON document (required)")
	cmd.Flags().StringVar(&outputDir, "output", "", "run output directory (required)")
	cmd.Flags().DurationVar(&stageTimeout, "stage-timeout", 0, "per-stage timeout, 0 disables it")
	cmd.Flags().Float64Var(&unreachableCritical, "unreachable-critical", 0.2, "critical unreachable-share threshold for the GTC stage")
	cmd.Flags().Float64Var(&numericHazardCritical, "numeric-hazard-critical", 0.05, "critical numeric-hazard-share threshold")
	cmd.Flags().BoolVar(&pgCfg.Enabled, "pg-export", false, "export aucs/subscores_raw/explainability rows to PostgreSQL after the run")
	cmd.Flags().StringVar(&pgCfg.DSN, "pg-dsn", "", "PostgreSQL DSN, required with --pg-export")
	cmd.MarkFlagRequired("params")
	cmd.MarkFlagRequired("scenario")
	cmd.MarkFlagRequired("output")

	return cmd
}

type runOptions struct {
	paramsPath, scenarioPath, outputDir string
	stageTimeout                        time.Duration
	unreachableCritical                 float64
	numericHazardCritical               float64
	pgExport                            pgexport.Config
}

// runPipeline loads the parameter document and scenario, runs the ten
// stages through a resumable pipeline.Driver, and attaches a QA report on
// the GTC stage's unreachable share.
func runPipeline(opts runOptions) error {
	snap, err := params.Load(opts.paramsPath, params.OverridesFromEnv())
	if err != nil {
		return fmt.Errorf("%w: %v", contracts.ErrValidation, err)
	}

	var scenario runstages.ScenarioInput
	if err := loadScenario(opts.scenarioPath, &scenario); err != nil {
		return err
	}

	runID := uuid.NewString()
	reg := metrics.New()
	reg.IncrementActiveRuns()
	defer reg.DecrementActiveRuns()

	progress := logging.NewStageProgress(runID, pipeline.StageNames)

	rc := runstages.NewRunContext(runID, opts.outputDir, snap, scenario)
	driver, err := pipeline.Open(pipeline.Config{
		RunID:        runID,
		ParamHash:    snap.ParamHash,
		OutputDir:    opts.outputDir,
		StageTimeout: opts.stageTimeout,
	})
	if err != nil {
		return err
	}
	defer driver.Close()

	stages := instrumentStages(rc.BuildStages(), reg, progress)

	entries, runErr := driver.RunSequence(context.Background(), stages)
	if runErr != nil {
		if len(entries) > 0 {
			progress.Fail(entries[len(entries)-1].Stage, runErr)
		}
		return runErr
	}
	progress.Finish()

	if err := exportToPostgres(opts.pgExport, rc); err != nil {
		return fmt.Errorf("pg export: %w", err)
	}

	qaRunner := qa.NewRunner(qa.Thresholds{
		UnreachableCritical:   opts.unreachableCritical,
		NumericHazardCritical: opts.numericHazardCritical,
	})
	gtcReport, qaErr := qaRunner.Evaluate("gtc", rc.GTCSentinelCounts(), nil)
	report := qa.BuildReport(runID, []qa.StageReport{gtcReport})
	if err := writeQAReport(opts.outputDir, report); err != nil {
		return err
	}
	if qaErr != nil {
		return qaErr
	}

	log.Info().Str("run_id", runID).Int("stages", len(entries)).
		Float64("unreachable_share", rc.GTCUnreachableShare()).Msg("run complete")
	return nil
}
