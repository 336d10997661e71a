package explain

import (
	"time"

	"github.com/akerscore/aucs/internal/normalize"
	"github.com/akerscore/aucs/internal/subscores"
)

// Explainer assembles per-cell explanation payloads from subscore results
// and the final composition, ranking each subscore's contributor table down
// to a fixed top-K.
type Explainer struct {
	topK int
}

// NewExplainer builds an Explainer that keeps the topK highest-contribution
// rows per subscore (topK <= 0 keeps everything).
func NewExplainer(topK int) *Explainer {
	return &Explainer{topK: topK}
}

// ExplainCell builds one cell's CellExplanation from its subscore results,
// final composition, and any subscore-specific extras (keyed by subscore
// name — e.g. "CTE" -> CorridorBasket, "MUHAA" -> HubBreakdown).
func (e *Explainer) ExplainCell(cellID string, comp normalize.Composition, results map[string]subscores.Result, extras map[string]interface{}) CellExplanation {
	subExplain := make(map[string]SubscoreExplanation, len(results))
	for name, r := range results {
		subExplain[name] = SubscoreExplanation{
			Value:        r.Value,
			Contributors: TopK(r.Contributors, e.topK),
			Extras:       extras[name],
		}
	}

	return CellExplanation{
		CellID:    cellID,
		AUCS:      comp.AUCS,
		Unscored:  comp.Unscored,
		Reasons:   comp.Reasons,
		Subscores: subExplain,
	}
}

// BuildReport assembles the top-level report for a run.
func BuildReport(runID, paramHash string, cells []CellExplanation) Report {
	return Report{
		Meta: ReportMeta{
			Timestamp: time.Now(),
			RunID:     runID,
			ParamHash: paramHash,
			CellCount: len(cells),
		},
		Cells: cells,
	}
}
