package logging

import (
	"time"

	"github.com/rs/zerolog/log"
)

// StageProgress reports stage-by-stage timing for one pipeline run, adapted
// from internal/log/progress.go's StepLogger but stripped of its
// terminal-only spinner/progress-bar rendering — an ops process run
// non-interactively (cron, container) has no TTY to animate, so every event
// here goes through the structured logger instead of fmt.Print.
type StageProgress struct {
	runID      string
	stages     []string
	current    int
	startedAt  time.Time
	stageStart time.Time
	durations  map[string]time.Duration
}

// NewStageProgress builds a reporter for the given ordered stage names.
func NewStageProgress(runID string, stages []string) *StageProgress {
	return &StageProgress{
		runID:     runID,
		stages:    stages,
		current:   -1,
		startedAt: time.Now(),
		durations: make(map[string]time.Duration, len(stages)),
	}
}

// StartStage logs the beginning of a named stage.
func (p *StageProgress) StartStage(name string) {
	p.current++
	p.stageStart = time.Now()
	log.Info().
		Str("run_id", p.runID).
		Str("stage", name).
		Int("stage_number", p.current+1).
		Int("total_stages", len(p.stages)).
		Msg("stage starting")
}

// CompleteStage logs a stage's completion and records its duration.
func (p *StageProgress) CompleteStage(name string) {
	d := time.Since(p.stageStart)
	p.durations[name] = d
	log.Info().
		Str("run_id", p.runID).
		Str("stage", name).
		Dur("duration", d).
		Msg("stage completed")
}

// SkipStage logs a stage skipped because the manifest already has a
// completed entry for its input and parameter hashes.
func (p *StageProgress) SkipStage(name string) {
	log.Info().
		Str("run_id", p.runID).
		Str("stage", name).
		Msg("stage skipped, resumed from manifest")
}

// Fail logs a stage failure.
func (p *StageProgress) Fail(name string, err error) {
	log.Error().
		Str("run_id", p.runID).
		Str("stage", name).
		Err(err).
		Msg("stage failed")
}

// Finish logs a summary of every stage's duration once the run ends.
func (p *StageProgress) Finish() {
	total := time.Since(p.startedAt)
	log.Info().
		Str("run_id", p.runID).
		Dur("total_duration", total).
		Msg("run completed")

	for _, name := range p.stages {
		if d, ok := p.durations[name]; ok {
			log.Info().Str("stage", name).Dur("duration", d).Msg("stage timing")
		}
	}
}
