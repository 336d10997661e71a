// Package runstages wires the kernel packages (gtc, logsum, quality,
// aggregate, subscores, normalize, explain) into the ten named
// internal/pipeline stages, over a pre-materialized scenario of cells.
//
// Raw OSM/GTFS ingestion and routing-engine calls are out of this repo's
// scope (spec's data-acquisition layer); a ScenarioInput is the boundary
// this package reads instead — one JSON document holding, per cell,
// everything the kernels need: amenities and skim rows for the
// quality/GTC/logsum/aggregate chain behind EA and LCA, plus the
// specialized raw inputs MUHAA/JEA/MORR/CTE/SOU consume directly.
package runstages

import (
	"github.com/akerscore/aucs/internal/quality"
	"github.com/akerscore/aucs/internal/skim"
	"github.com/akerscore/aucs/internal/subscores"
)

// NormConstants are the region-wide normalization denominators MUHAA, JEA,
// and CTE rescale their raw access sums by. The kernels document these as
// "the region-wide max observed"; this repo takes them as configured
// scenario inputs rather than computing them from observed maxima on the
// fly, the same way params.NormalizeParams takes anchor_lo/anchor_hi as
// configured constants instead of deriving them at runtime.
type NormConstants struct {
	HubNorm        float64 `json:"hub_norm"`
	AirNorm        float64 `json:"air_norm"`
	JobsNorm       float64 `json:"jobs_norm"`
	EduNorm        float64 `json:"edu_norm"`
	CTENormConstant float64 `json:"cte_norm_constant"`
}

// CellInput bundles one cell's raw inputs across every subscore.
type CellInput struct {
	CellID string `json:"cell_id"`

	// Amenities is keyed by category name (spanning both EA's seven fixed
	// categories and LCA's categories); feeds quality.ComputeCategory and,
	// via SkimEntries, the GTC/logsum chain behind aggregate.Compute.
	Amenities map[string][]quality.Amenity `json:"amenities"`
	// AmenitySubtype maps amenity id to its diversity subtype (spec §4.7's
	// Shannon diversity over "subtype"), defaulting to its category when absent.
	AmenitySubtype map[string]string `json:"amenity_subtype"`
	// SkimEntries are every (destination amenity, mode, time-slice) row
	// reachable from this cell, across all categories above.
	SkimEntries []skim.Entry `json:"skim_entries"`
	// NoveltyZ per LCA category, keyed by category name (NoveltyNu comes from
	// the category parameters); EA categories are absent from this map since
	// EA has no novelty uplift.
	LCANoveltyZ map[string]float64 `json:"lca_novelty_z"`

	Hubs         []subscores.Hub         `json:"hubs"`
	Airports     []subscores.Airport     `json:"airports"`
	Jobs         []subscores.JobBlock    `json:"jobs"`
	Universities []subscores.University  `json:"universities"`
	MORR         subscores.MORRInputs    `json:"morr"`
	Corridors    []subscores.CorridorPair `json:"corridors"`
	ParksScore   float64                  `json:"parks_score"`
	ClimateMonths []subscores.ClimateMonth `json:"climate_months"`
	SOUContributors []subscores.Contributor `json:"sou_contributors"`
}

// ScenarioInput is the full input to one run: every cell plus the
// normalization constants shared across the run.
type ScenarioInput struct {
	Cells         []CellInput   `json:"cells"`
	NormConstants NormConstants `json:"norm_constants"`
	// Metro names the metro area all cells in this scenario belong to
	// (contract schemas carry it as a grouping key alongside cell_id).
	Metro string `json:"metro"`
}
