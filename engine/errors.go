/*
errors.go - Centralized error types for the wage engine

PURPOSE:
  All engine error types in one place. Surrounding layers (contract
  service, API) wrap these with their own context.

ERROR CATEGORIES:
  1. Schedule errors - lookup failures and unusable configuration
  2. Input errors - roster/engagement values the engine cannot price

USAGE:
  Callers branch on category, not message:

    if engine.IsScheduleMissing(err) {
        // surface as a configuration problem, not a zero-pay contract
    }

SEE ALSO:
  - book.go: Returns these from Lookup
  - calculator.go: Propagates them with zeroed totals
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrScheduleMissing is returned when no rate schedule is registered
	// for the requested (jurisdiction, scale key) pair.
	ErrScheduleMissing = errors.New("rate schedule missing")

	// ErrScheduleInvalid is returned when a schedule exists but cannot be
	// used: a non-positive performance base rate is configuration damage,
	// not a zero-pay agreement.
	ErrScheduleInvalid = errors.New("rate schedule invalid")

	// ErrEmptyRoster is returned when a calculation is asked to run with
	// nobody on the contract.
	ErrEmptyRoster = errors.New("roster is empty")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ScheduleMissingError identifies which lookup failed.
type ScheduleMissingError struct {
	Jurisdiction string
	ScaleKey     string
}

func (e *ScheduleMissingError) Error() string {
	return fmt.Sprintf("no rate schedule for %s/%s", e.Jurisdiction, e.ScaleKey)
}

func (e *ScheduleMissingError) Unwrap() error {
	return ErrScheduleMissing
}

// ScheduleInvalidError identifies an unusable schedule and why.
type ScheduleInvalidError struct {
	Jurisdiction string
	ScaleKey     string
	Reason       string
}

func (e *ScheduleInvalidError) Error() string {
	return fmt.Sprintf("rate schedule %s/%s unusable: %s", e.Jurisdiction, e.ScaleKey, e.Reason)
}

func (e *ScheduleInvalidError) Unwrap() error {
	return ErrScheduleInvalid
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsScheduleMissing returns true when the failure was an unknown
// (jurisdiction, scale key) pair.
func IsScheduleMissing(err error) bool {
	return errors.Is(err, ErrScheduleMissing)
}

// IsScheduleInvalid returns true when the schedule exists but is unusable.
func IsScheduleInvalid(err error) bool {
	return errors.Is(err, ErrScheduleInvalid)
}

// IsScheduleError returns true for either schedule failure. Callers that
// only care about "calculation could not run" branch on this.
func IsScheduleError(err error) bool {
	return IsScheduleMissing(err) || IsScheduleInvalid(err)
}
