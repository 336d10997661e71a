package pgexport

import (
	"math"

	"github.com/akerscore/aucs/internal/explain"
	"github.com/akerscore/aucs/internal/normalize"
	"github.com/akerscore/aucs/internal/subscores"
)

func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// AUCSRows builds one row per cell in cellOrder from the final composition
// and normalized per-subscore values.
func AUCSRows(cellOrder []string, composition map[string]normalize.Composition, normalized map[string]map[string]float64, metro, paramHash string) []AUCSRow {
	rows := make([]AUCSRow, 0, len(cellOrder))
	for _, cellID := range cellOrder {
		comp := composition[cellID]
		rows = append(rows, AUCSRow{
			CellID:    cellID,
			AUCS:      nullableFloat(comp.AUCS),
			EA:        nullableFloat(normalizedValue(normalized, "EA", cellID)),
			LCA:       nullableFloat(normalizedValue(normalized, "LCA", cellID)),
			MUHAA:     nullableFloat(normalizedValue(normalized, "MUHAA", cellID)),
			JEA:       nullableFloat(normalizedValue(normalized, "JEA", cellID)),
			MORR:      nullableFloat(normalizedValue(normalized, "MORR", cellID)),
			CTE:       nullableFloat(normalizedValue(normalized, "CTE", cellID)),
			SOU:       nullableFloat(normalizedValue(normalized, "SOU", cellID)),
			Metro:     metro,
			ParamHash: paramHash,
		})
	}
	return rows
}

func normalizedValue(normalized map[string]map[string]float64, key, cellID string) float64 {
	byCell, ok := normalized[key]
	if !ok {
		return math.NaN()
	}
	v, ok := byCell[cellID]
	if !ok {
		return math.NaN()
	}
	return v
}

// SubscoresRawRows builds one row per cell in cellOrder from the raw,
// pre-normalization subscore results.
func SubscoresRawRows(cellOrder []string, raw map[string]map[string]subscores.Result, metro string) []SubscoresRawRow {
	rows := make([]SubscoresRawRow, 0, len(cellOrder))
	for _, cellID := range cellOrder {
		rows = append(rows, SubscoresRawRow{
			CellID: cellID,
			EA:     nullableFloat(rawValue(raw, "EA", cellID)),
			LCA:    nullableFloat(rawValue(raw, "LCA", cellID)),
			MUHAA:  nullableFloat(rawValue(raw, "MUHAA", cellID)),
			JEA:    nullableFloat(rawValue(raw, "JEA", cellID)),
			MORR:   nullableFloat(rawValue(raw, "MORR", cellID)),
			CTE:    nullableFloat(rawValue(raw, "CTE", cellID)),
			SOU:    nullableFloat(rawValue(raw, "SOU", cellID)),
			Metro:  metro,
		})
	}
	return rows
}

func rawValue(raw map[string]map[string]subscores.Result, key, cellID string) float64 {
	byCell, ok := raw[key]
	if !ok {
		return math.NaN()
	}
	r, ok := byCell[cellID]
	if !ok {
		return math.NaN()
	}
	return r.Value
}

// ExplainabilityRows flattens an explainability report into ranked
// contributor rows, one per (cell, subscore, rank) — the table's natural
// grain (spec §4.10).
func ExplainabilityRows(report explain.Report) []ExplainabilityRow {
	var rows []ExplainabilityRow
	for _, cell := range report.Cells {
		for subscore, detail := range cell.Subscores {
			for i, c := range detail.Contributors {
				rows = append(rows, ExplainabilityRow{
					CellID:       cell.CellID,
					Subscore:     subscore,
					Rank:         i + 1,
					AmenityID:    nullableString(c.AmenityID),
					Category:     nullableString(c.Category),
					Mode:         nullableString(c.BestMode),
					TimeSlice:    nullableString(c.TimeSlice),
					Contribution: c.Contribution,
				})
			}
		}
	}
	return rows
}
