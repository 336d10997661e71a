package ui

import (
	"fmt"

	"github.com/akerscore/aucs/internal/explain"
)

// PrintHeader prints the run banner used by the CLI's explain output.
func PrintHeader(runID, paramHash string, cellCount int) {
	fmt.Printf("AUCS EXPLAIN | Run: %s | Params: %s | Cells: %d\n", runID, paramHash, cellCount)
	fmt.Println("═════════════════════════════════════════════════════════════════════════════")
}

// PrintTable renders one row per cell: final AUCS plus unscored reasons.
func PrintTable(cells []explain.CellExplanation) {
	fmt.Printf("%-14s %-10s %-10s %s\n", "CELL", "AUCS", "UNSCORED", "REASONS")
	for _, c := range cells {
		aucs := fmt.Sprintf("%.1f", c.AUCS)
		if c.Unscored {
			aucs = "--"
		}
		fmt.Printf("%-14s %-10s %-10t %v\n", c.CellID, aucs, c.Unscored, c.Reasons)
	}
}

// PrintContributors renders one cell's top-K contributors per subscore.
func PrintContributors(cell explain.CellExplanation) {
	fmt.Printf("%s (AUCS %.1f)\n", cell.CellID, cell.AUCS)
	for _, key := range []string{"EA", "LCA", "MUHAA", "JEA", "MORR", "CTE", "SOU"} {
		sub, ok := cell.Subscores[key]
		if !ok {
			continue
		}
		fmt.Printf("  %-6s %6.2f\n", key, sub.Value)
		for rank, c := range sub.Contributors {
			fmt.Printf("    %2d. %-20s %-12s %6.2f\n", rank+1, c.AmenityID, c.Category, c.Contribution)
		}
	}
}
