package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/akerscore/aucs/internal/contracts"
	"github.com/akerscore/aucs/internal/manifest"
)

// Config controls driver-wide behavior (spec §4.11's "global stage timeout
// is configurable" and §5's worker/lock discipline).
type Config struct {
	RunID        string
	ParamHash    string
	OutputDir    string
	StageTimeout time.Duration // 0 disables the per-stage timeout
}

// Driver sequences stages, consulting and updating a run manifest so a
// restart with unchanged inputs skips whatever already completed (spec
// §4.11 rule 4).
type Driver struct {
	cfg  Config
	m    *manifest.Manifest
	io   *manifest.IO
	lock *manifest.RunLock
}

// Open acquires the output directory's exclusive run lock and loads (or
// creates) its manifest. Callers must call Close when the run ends.
func Open(cfg Config) (*Driver, error) {
	lock, err := manifest.Acquire(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	io := manifest.NewIO(cfg.OutputDir + "/manifest.json")
	m, err := io.Load()
	if err != nil {
		lock.Release()
		return nil, err
	}
	return &Driver{cfg: cfg, m: m, io: io, lock: lock}, nil
}

// Close releases the run lock. Safe to call once.
func (d *Driver) Close() error {
	return d.lock.Release()
}

// Manifest exposes the driver's in-memory manifest, e.g. for a `manifest`
// CLI subcommand to print it.
func (d *Driver) Manifest() *manifest.Manifest {
	return d.m
}

// RunStage executes one stage, skipping it if a prior run already completed
// it for the same input and parameter hashes. It persists the manifest after
// every attempt, success or failure, so progress is never lost.
func (d *Driver) RunStage(ctx context.Context, s Stage) (manifest.ArtifactEntry, error) {
	inputHash, err := s.InputHash()
	if err != nil {
		return manifest.ArtifactEntry{}, fmt.Errorf("pipeline: stage %s: compute input hash: %w", s.Name, err)
	}

	if entry, ok := d.m.CompletedStage(s.Name, inputHash, d.cfg.ParamHash); ok {
		log.Info().Str("stage", s.Name).Str("entry_id", entry.ID).Msg("stage already complete, skipping")
		return entry, nil
	}

	stageCtx := ctx
	var cancel context.CancelFunc
	if d.cfg.StageTimeout > 0 {
		stageCtx, cancel = context.WithTimeout(ctx, d.cfg.StageTimeout)
		defer cancel()
	}

	started := time.Now()
	log.Info().Str("stage", s.Name).Msg("stage starting")
	out, runErr := s.Run(stageCtx)
	finished := time.Now()

	entry := manifest.ArtifactEntry{
		RunID:      d.cfg.RunID,
		Stage:      s.Name,
		InputHash:  inputHash,
		ParamHash:  d.cfg.ParamHash,
		StartedAt:  started,
		FinishedAt: finished,
	}

	if runErr != nil {
		entry.Status = "failed"
		entry.Error = runErr.Error()
		d.m.AddEntry(entry)
		if saveErr := d.io.Save(d.m); saveErr != nil {
			log.Error().Err(saveErr).Str("stage", s.Name).Msg("failed to persist manifest after stage failure")
		}
		log.Error().Err(runErr).Str("stage", s.Name).Dur("duration", finished.Sub(started)).Msg("stage failed")
		return entry, fmt.Errorf("pipeline: stage %s failed: %w", s.Name, runErr)
	}

	entry.Status = "ok"
	entry.OutputHash = out.OutputHash
	entry.Paths = out.Paths
	entry.TotalBytes = out.TotalBytes
	entry = d.m.AddEntry(entry)
	if err := d.io.Save(d.m); err != nil {
		return entry, fmt.Errorf("pipeline: stage %s: persist manifest: %w", s.Name, err)
	}

	log.Info().Str("stage", s.Name).Dur("duration", finished.Sub(started)).Msg("stage completed")
	return entry, nil
}

// RunSequence executes stages in order, stopping at the first failure or at
// context cancellation. It never commits a partial artifact for the stage in
// flight when cancelled (StageFunc implementations are responsible for
// discarding their own partial writes; RunSequence only refuses to record a
// manifest entry for a stage it never ran).
func (d *Driver) RunSequence(ctx context.Context, stages []Stage) ([]manifest.ArtifactEntry, error) {
	entries := make([]manifest.ArtifactEntry, 0, len(stages))
	for _, s := range stages {
		select {
		case <-ctx.Done():
			return entries, contracts.ErrCancelled
		default:
		}

		entry, err := d.RunStage(ctx, s)
		entries = append(entries, entry)
		if err != nil {
			return entries, err
		}
	}
	return entries, nil
}
