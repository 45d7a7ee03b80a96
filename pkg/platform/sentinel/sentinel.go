package sentinel

import "errors"

// Sentinel errors for the outcomes of registry, sieve, and persistence
// operations. Lower layers return these (optionally wrapped) so callers can
// branch with errors.Is and the CLIs can pick an exit code.
//
// These are status outcomes, not panics:
// - ErrOverflow: the fixed-width integer domain is exhausted, or a value is
//   smaller than the registry's known maximum
// - ErrResourceExhausted: a registry or result could not grow
// - ErrStorageExhausted: persisting or publishing a value failed
// - ErrInvalidCandidate: the sieve computed a candidate that breaks its own
//   invariants (even value, empty registry)
// - ErrInvalidInput: the caller asked for something the engine does not define
var (
	ErrOverflow          = errors.New("value overflow")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrStorageExhausted  = errors.New("storage exhausted")
	ErrInvalidCandidate  = errors.New("invalid candidate")
	ErrInvalidInput      = errors.New("invalid input")
)

// Exit codes used by the command line tools. They mirror the order of the
// status outcomes above; overflow never reaches the shell because running
// out of representable values is a successful end of enumeration.
const (
	ExitOK                = 0
	ExitUsage             = 1
	ExitResourceExhausted = 2
	ExitStorageExhausted  = 3
	ExitInvalidData       = 4
)

// ExitCode maps an error returned by the engine to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, ErrOverflow):
		return ExitOK
	case errors.Is(err, ErrResourceExhausted):
		return ExitResourceExhausted
	case errors.Is(err, ErrStorageExhausted):
		return ExitStorageExhausted
	case errors.Is(err, ErrInvalidCandidate):
		return ExitInvalidData
	default:
		return ExitUsage
	}
}

// Describe returns the short human message the CLIs print for an outcome.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOverflow):
		return "Maximum value reached"
	case errors.Is(err, ErrResourceExhausted):
		return "Out of memory"
	case errors.Is(err, ErrStorageExhausted):
		return "Out of disk space"
	case errors.Is(err, ErrInvalidCandidate):
		return "Invalid data encountered"
	default:
		return err.Error()
	}
}

// Status returns a stable snake_case label for an outcome, for metrics and
// structured logs.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrResourceExhausted):
		return "resource_exhausted"
	case errors.Is(err, ErrStorageExhausted):
		return "storage_exhausted"
	case errors.Is(err, ErrInvalidCandidate):
		return "invalid_candidate"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
