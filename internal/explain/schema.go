// Package explain builds the per-cell explainability payload (C10): top-K
// contributors per subscore, best-mode-by-amenity, and subscore-specific
// extras, emitted as JSON plus a normalized tabular form for query (spec
// §4.10).
package explain

import "time"

// Report is the top-level explainability artifact for one pipeline run.
type Report struct {
	Meta  ReportMeta       `json:"meta"`
	Cells []CellExplanation `json:"cells"`
}

// ReportMeta identifies the run and parameter snapshot this report was
// generated against, for provenance.
type ReportMeta struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	ParamHash string    `json:"param_hash"`
	CellCount int       `json:"cell_count"`
}

// CellExplanation is the explainability payload for one cell: the final
// AUCS plus every subscore's contributor table and extras.
type CellExplanation struct {
	CellID    string                         `json:"cell_id"`
	AUCS      float64                        `json:"aucs"`
	Unscored  bool                           `json:"unscored"`
	Reasons   []string                       `json:"reasons,omitempty"`
	Subscores map[string]SubscoreExplanation `json:"subscores"`
}

// Contributor is one ranked contributor to a subscore (spec §4.10: "top-K
// contributors ranked by Q_a·w_{i,a}").
type Contributor struct {
	AmenityID    string  `json:"amenity_id"`
	Category     string  `json:"category,omitempty"`
	BestMode     string  `json:"best_mode,omitempty"`
	TimeSlice    string  `json:"time_slice,omitempty"`
	Contribution float64 `json:"contribution"`
}

// SubscoreExplanation is one subscore's value plus its explainability
// detail. Extras carries subscore-specific structured detail (the corridor
// basket for CTE, the hub/airport breakdown for MUHAA) as raw JSON so the
// schema stays uniform across the seven heterogeneous subscores.
type SubscoreExplanation struct {
	Value        float64       `json:"value"`
	Contributors []Contributor `json:"contributors"`
	Extras       interface{}   `json:"extras,omitempty"`
}

// CorridorBasket is CTE's subscore-specific extra: the chosen itinerary
// fingerprint and category pair behind a scored chain (spec §4.10).
type CorridorBasket struct {
	ItineraryFingerprint string   `json:"itinerary_fingerprint"`
	SelectedPair         [2]string `json:"selected_pair"`
	DeltaMinutes         float64  `json:"delta_minutes"`
}

// HubBreakdown is MUHAA's subscore-specific extra: the hub/airport split
// behind the blended access score.
type HubBreakdown struct {
	HubAccess     float64 `json:"hub_access"`
	AirportAccess float64 `json:"airport_access"`
	HubWeight     float64 `json:"hub_weight"`
	AirWeight     float64 `json:"air_weight"`
}
