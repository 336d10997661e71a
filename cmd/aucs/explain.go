package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akerscore/aucs/internal/explain"
	"github.com/akerscore/aucs/ui"
)

func newExplainCommand() *cobra.Command {
	var reportPath string
	var cellID string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print a run's explainability report as a terminal table",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := loadExplainReport(reportPath)
			if err != nil {
				return err
			}

			if cellID != "" {
				for _, c := range report.Cells {
					if c.CellID == cellID {
						ui.PrintContributors(c)
						return nil
					}
				}
				return fmt.Errorf("cell %q not found in report", cellID)
			}

			ui.PrintHeader(report.Meta.RunID, report.Meta.ParamHash, report.Meta.CellCount)
			ui.PrintTable(report.Cells)
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "path to stages/explain/report.json (required)")
	cmd.Flags().StringVar(&cellID, "cell", "", "print top contributors for a single cell instead of the summary table")
	cmd.MarkFlagRequired("report")

	return cmd
}

func loadExplainReport(path string) (explain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return explain.Report{}, fmt.Errorf("read report %s: %w", path, err)
	}
	var report explain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return explain.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}
	return report, nil
}
