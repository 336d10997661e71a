// Package pipeline drives the resumable, hash-checkpointed run described in
// spec §4.11 (C11): parameter-load → skim-materialize → GTC → logsum →
// quality → per-category value → {subscores in parallel} → normalization →
// composition → explainability. The driver owns stage sequencing,
// manifest bookkeeping, and cancellation; the stage bodies themselves are
// supplied by the caller (cmd/aucs wires the concrete kernels in).
//
// Named ordered steps, per-step timing folded into a result, a logger
// emitting one structured event per step, generalized from a fixed 8-step
// sequence into a resumable, hash-addressed one; see DESIGN.md.
package pipeline

import "context"

// StageNames is the canonical ordering from spec §4.11. "subscores" fans out
// internally into the seven independent subscore computations.
var StageNames = []string{
	"parameter_load",
	"skim_materialize",
	"gtc",
	"logsum",
	"quality",
	"category_value",
	"subscores",
	"normalize",
	"compose",
	"explain",
}

// StageOutput describes what a stage wrote, for the manifest entry.
type StageOutput struct {
	OutputHash string
	Paths      []string
	TotalBytes int64
}

// StageFunc does the actual work of one stage. It must be side-effect-free
// on failure: any partial artifact it has started writing must be discarded
// before returning a non-nil error (spec §5: "no partial artifacts are
// committed").
type StageFunc func(ctx context.Context) (StageOutput, error)

// InputHashFunc computes the hash of the artifacts a stage is about to read,
// so the driver can look up a prior completed run of this stage for the
// same inputs and parameters.
type InputHashFunc func() (string, error)

// Stage is one named step in the sequence.
type Stage struct {
	Name      string
	InputHash InputHashFunc
	Run       StageFunc
}

// Task is one unit of concurrent work inside the "subscores" stage — either
// one subscore or one metro/cell-range partition of a subscore, per spec
// §4.11's "partitioning is by metro or by a balanced cell-range".
type Task struct {
	Name string
	Run  func(ctx context.Context) (StageOutput, error)
}
