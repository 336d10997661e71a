// Package contracts defines the tabular schemas, field-level validation
// rules, and the closed set of sentinel errors shared by every stage of the
// scoring pipeline.
package contracts

import "errors"

// Sentinel errors. Every error surfaced to the CLI boundary is checked with
// errors.Is against this set to select an exit code; stages never invent new
// top-level kinds.
var (
	ErrValidation           = errors.New("parameter validation failed")
	ErrContractViolation    = errors.New("artifact contract violation")
	ErrUnreachableThreshold = errors.New("unreachable share exceeds critical threshold")
	ErrCollaboratorOutage   = errors.New("external collaborator outage")
	ErrNumericHazard        = errors.New("numeric hazard sentinel share exceeds threshold")
	ErrLockConflict         = errors.New("output directory locked by another run")
	ErrCancelled            = errors.New("run cancelled")
	ErrResourceExhausted    = errors.New("resource exhausted")
)

// ExitCode maps a sentinel error to the process exit code from spec §6.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation), errors.Is(err, ErrContractViolation):
		return 2
	case errors.Is(err, ErrUnreachableThreshold), errors.Is(err, ErrCollaboratorOutage),
		errors.Is(err, ErrNumericHazard), errors.Is(err, ErrLockConflict):
		return 3
	case errors.Is(err, ErrCancelled):
		return 4
	case errors.Is(err, ErrResourceExhausted):
		return 5
	default:
		return 3
	}
}
