package manifest

import (
	"path/filepath"
	"testing"

	"github.com/akerscore/aucs/internal/contracts"
)

func TestAddEntry_StableIDForSameStageAndHashes(t *testing.T) {
	m := New()
	e1 := m.AddEntry(ArtifactEntry{Stage: "gtc", InputHash: "h1", ParamHash: "p1", Status: "ok"})
	m2 := New()
	e2 := m2.AddEntry(ArtifactEntry{Stage: "gtc", InputHash: "h1", ParamHash: "p1", Status: "ok"})
	if e1.ID != e2.ID {
		t.Fatalf("expected identical IDs for identical (stage, hashes), got %s vs %s", e1.ID, e2.ID)
	}
}

func TestCompletedStage_ResumeLookup(t *testing.T) {
	m := New()
	m.AddEntry(ArtifactEntry{Stage: "gtc", InputHash: "h1", ParamHash: "p1", Status: "ok"})

	if _, ok := m.CompletedStage("gtc", "h1", "p1"); !ok {
		t.Fatal("expected a completed stage to be found for matching hashes")
	}
	if _, ok := m.CompletedStage("gtc", "h2", "p1"); ok {
		t.Fatal("expected no match for a different input hash")
	}
}

func TestCompletedStage_FailedEntryNotResumable(t *testing.T) {
	m := New()
	m.AddEntry(ArtifactEntry{Stage: "gtc", InputHash: "h1", ParamHash: "p1", Status: "failed"})
	if _, ok := m.CompletedStage("gtc", "h1", "p1"); ok {
		t.Fatal("a failed stage entry must not be resumable")
	}
}

func TestSaveLoad_RoundTripsAndRebuildsIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	io := NewIO(path)

	m := New()
	m.AddEntry(ArtifactEntry{Stage: "gtc", InputHash: "h1", ParamHash: "p1", Status: "ok"})
	if err := io.Save(m); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := io.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(loaded.Entries))
	}
	if _, ok := loaded.CompletedStage("gtc", "h1", "p1"); !ok {
		t.Fatal("expected resume index rebuilt after load")
	}
}

func TestLoad_MissingFileReturnsEmptyManifest(t *testing.T) {
	io := NewIO(filepath.Join(t.TempDir(), "missing.json"))
	m, err := io.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Entries) != 0 {
		t.Fatalf("expected empty manifest, got %d entries", len(m.Entries))
	}
}

func TestRunLock_RejectsConcurrentAcquire(t *testing.T) {
	dir := t.TempDir()
	l1, err := Acquire(dir)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer l1.Release()

	_, err = Acquire(dir)
	if err != contracts.ErrLockConflict {
		t.Fatalf("expected ErrLockConflict, got %v", err)
	}
}

func TestRunLock_ReleaseAllowsReacquire(t *testing.T) {
	dir := t.TempDir()
	l1, err := Acquire(dir)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := l1.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	l2, err := Acquire(dir)
	if err != nil {
		t.Fatalf("expected reacquire to succeed after release, got %v", err)
	}
	l2.Release()
}
