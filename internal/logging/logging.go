// Package logging configures the process-wide zerolog logger and a
// stage-progress reporter for the pipeline driver.
//
// A root logger setup (zerolog.ConsoleWriter to stderr, RFC3339 timestamps)
// paired with a StepLogger-style progress reporter (named steps, per-step
// timing collected into a summary on Finish); see DESIGN.md.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level mirrors the small set of levels spec §4.11 env-var config reads.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Configure sets the process-wide zerolog logger. human selects a
// console-formatted writer for interactive use; false emits structured JSON
// for log aggregation, matching how a long-running ops process is typically
// run versus a developer's terminal.
func Configure(level Level, human bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	zl, err := zerolog.ParseLevel(string(level))
	if err != nil {
		zl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(zl)

	if human {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
