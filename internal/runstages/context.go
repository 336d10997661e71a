package runstages

import (
	"sort"

	"github.com/akerscore/aucs/internal/aggregate"
	"github.com/akerscore/aucs/internal/explain"
	"github.com/akerscore/aucs/internal/gtc"
	"github.com/akerscore/aucs/internal/logsum"
	"github.com/akerscore/aucs/internal/normalize"
	"github.com/akerscore/aucs/internal/params"
	"github.com/akerscore/aucs/internal/qa"
	"github.com/akerscore/aucs/internal/quality"
	"github.com/akerscore/aucs/internal/subscores"
)

// Fixed coefficients spec.md leaves as model constants rather than exposing
// through params.Snapshot (see DESIGN.md's runstages entry). Changing these
// requires a code change, not a config edit.
const (
	refWalkMode    = "walk"
	alphaAccess    = 1.0
	alphaEgress    = 1.0
	alphaWait      = 1.5
	gammaTransfers = 5.0
	rhoRel         = 0.5
	eaPMiss        = 10.0
	eaPMax         = 40.0
	lcaRhoCross    = 0.5
	jeaJobsWeight  = 0.7
	jeaEduWeight   = 0.3
)

// SubscoreKeys is the canonical order of the seven subscores, matching the
// keys of params.Snapshot.Subscores and params.Snapshot.Normalization.
var SubscoreKeys = []string{"EA", "LCA", "MUHAA", "JEA", "MORR", "CTE", "SOU"}

// RunContext holds one run's loaded parameters, scenario, and the
// intermediate results each stage leaves for the next. Stage bodies close
// over a *RunContext instead of reading/writing disk between stages within
// the same process invocation; every stage still serializes its own output
// to outDir for the manifest and for external inspection.
type RunContext struct {
	Snap     *params.Snapshot
	Scenario ScenarioInput
	OutDir   string
	RunID    string

	cellOrder []string
	kernel    *logsum.Kernel

	gtcByCell      map[string][]gtc.Result
	gtcCounters    gtc.QACounters
	weightByCell   map[string]map[string]float64 // cellID -> amenityID -> w_{i,a}
	qualityByCell  map[string]map[string][]quality.Breakdown
	categoryByCell map[string]map[string]aggregate.CategoryResult
	rawSubscore    map[string]map[string]subscores.Result // subscore key -> cellID -> Result
	normalized     map[string]map[string]float64          // subscore key -> cellID -> normalized value
	composition    map[string]normalize.Composition        // cellID -> Composition
	explainReport  explain.Report
}

// NewRunContext builds a RunContext and the fixed nested-logit kernel from
// the loaded parameters.
func NewRunContext(runID, outDir string, snap *params.Snapshot, scenario ScenarioInput) *RunContext {
	order := make([]string, 0, len(scenario.Cells))
	for _, c := range scenario.Cells {
		order = append(order, c.CellID)
	}
	sort.Strings(order)

	return &RunContext{
		Snap:           snap,
		Scenario:       scenario,
		OutDir:         outDir,
		RunID:          runID,
		cellOrder:      order,
		kernel:         logsum.NewKernel(snap.Nests, refWalkMode),
		gtcByCell:      make(map[string][]gtc.Result),
		weightByCell:   make(map[string]map[string]float64),
		qualityByCell:  make(map[string]map[string][]quality.Breakdown),
		categoryByCell: make(map[string]map[string]aggregate.CategoryResult),
		rawSubscore:    make(map[string]map[string]subscores.Result),
		normalized:     make(map[string]map[string]float64),
		composition:    make(map[string]normalize.Composition),
	}
}

func (rc *RunContext) cellByID(id string) CellInput {
	for _, c := range rc.Scenario.Cells {
		if c.CellID == id {
			return c
		}
	}
	return CellInput{}
}

func (rc *RunContext) stageDir(name string) string {
	return rc.OutDir + "/stages/" + name
}

// GTCUnreachableShare reports the share of GTC rows recorded unreachable,
// for the QA attachment (spec §7).
func (rc *RunContext) GTCUnreachableShare() float64 {
	return rc.gtcCounters.UnreachableShare()
}

// GTCSentinelCounts reports the GTC stage's row counts for the QA report.
func (rc *RunContext) GTCSentinelCounts() qa.SentinelCounts {
	return qa.SentinelCounts{TotalRows: rc.gtcCounters.Rows, Unreachable: rc.gtcCounters.Unreachable}
}

// CellOrder returns the deterministic cell ordering used across every
// stage, for callers that need to iterate cells in the same order.
func (rc *RunContext) CellOrder() []string {
	out := make([]string, len(rc.cellOrder))
	copy(out, rc.cellOrder)
	return out
}

// Metro returns the scenario's metro area name.
func (rc *RunContext) Metro() string {
	return rc.Scenario.Metro
}

// RawSubscores returns the post-aggregate, pre-normalization subscore
// results, keyed by subscore key then cell ID.
func (rc *RunContext) RawSubscores() map[string]map[string]subscores.Result {
	return rc.rawSubscore
}

// Normalized returns the normalized subscore values, keyed by subscore key
// then cell ID.
func (rc *RunContext) Normalized() map[string]map[string]float64 {
	return rc.normalized
}

// Composition returns the final per-cell AUCS composition, keyed by cell ID.
func (rc *RunContext) Composition() map[string]normalize.Composition {
	return rc.composition
}

// ExplainReport returns the report built by ExplainStage, valid once that
// stage has run.
func (rc *RunContext) ExplainReport() explain.Report {
	return rc.explainReport
}
