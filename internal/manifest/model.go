// Package manifest tracks the artifacts written by each pipeline stage
// (C11): one entry per stage per run, hash-addressed so a restart can tell
// which stages are already complete for the current parameter/input hashes
// (spec §4.11, §5 "Locking / transaction discipline").
package manifest

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// ArtifactEntry is one stage's output record.
type ArtifactEntry struct {
	ID         string    `json:"id"` // hash-derived, stable for identical (stage, inputs)
	RunID      string    `json:"run_id"`
	Stage      string    `json:"stage"` // e.g. "gtc", "logsum", "quality"
	InputHash  string    `json:"input_hash"`  // hash of the artifacts this stage read
	OutputHash string    `json:"output_hash"` // hash of the artifact this stage wrote
	ParamHash  string    `json:"param_hash"`
	Paths      []string  `json:"paths"`
	TotalBytes int64     `json:"total_bytes"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"` // "ok", "failed"
	Error      string    `json:"error,omitempty"`
}

// Manifest is the ordered record of every stage run for one output
// directory, plus an index for fast hash-match lookups on resume.
type Manifest struct {
	Version     string          `json:"version"`
	GeneratedAt time.Time       `json:"generated_at"`
	Entries     []ArtifactEntry `json:"entries"`

	byStageAndHash map[string]*ArtifactEntry `json:"-"`
}

// New creates an empty manifest.
func New() *Manifest {
	return &Manifest{
		Version:        "1",
		GeneratedAt:    time.Now(),
		Entries:        make([]ArtifactEntry, 0),
		byStageAndHash: make(map[string]*ArtifactEntry),
	}
}

// AddEntry appends an entry, assigning its ID if unset, and updates the
// resume index.
func (m *Manifest) AddEntry(e ArtifactEntry) ArtifactEntry {
	if e.ID == "" {
		e.ID = generateID(e)
	}
	m.Entries = append(m.Entries, e)
	m.index(&m.Entries[len(m.Entries)-1])
	return e
}

func generateID(e ArtifactEntry) string {
	data := fmt.Sprintf("%s:%s:%s", e.Stage, e.InputHash, e.ParamHash)
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)[:16]
}

// BuildIndices rebuilds the resume index from Entries, called after Load.
func (m *Manifest) BuildIndices() {
	m.byStageAndHash = make(map[string]*ArtifactEntry)
	for i := range m.Entries {
		m.index(&m.Entries[i])
	}
}

func (m *Manifest) index(e *ArtifactEntry) {
	if m.byStageAndHash == nil {
		m.byStageAndHash = make(map[string]*ArtifactEntry)
	}
	key := stageKey(e.Stage, e.InputHash, e.ParamHash)
	if e.Status == "ok" {
		m.byStageAndHash[key] = e
	}
}

func stageKey(stage, inputHash, paramHash string) string {
	return stage + "|" + inputHash + "|" + paramHash
}

// CompletedStage reports a prior successful run of this stage for the same
// input and parameter hashes, if any — the basis for resumable restart
// (spec §4.11 rule 4: "restart skips completed stages whose hashes still
// match").
func (m *Manifest) CompletedStage(stage, inputHash, paramHash string) (ArtifactEntry, bool) {
	e, ok := m.byStageAndHash[stageKey(stage, inputHash, paramHash)]
	if !ok {
		return ArtifactEntry{}, false
	}
	return *e, true
}
