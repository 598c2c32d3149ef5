/*
errors.go - Contract error types

PURPOSE:
  Centralizes the errors the contract service returns so HTTP handlers
  can map them to status codes without string matching.

ERROR CATEGORIES:
  Not found:   ErrNotFound (also covers contracts owned by someone else)
  Validation:  ValidationError wrapping ErrValidation, names the field
  Transition:  ErrCompleted (edit on a completed contract),
               ErrInvalidTransition (finalize/reopen from the wrong state)

USAGE:
  if contract.IsValidation(err) {
      // 400: tell the user which field to fix
  }
  if errors.Is(err, contract.ErrNotFound) {
      // 404
  }
*/
package contract

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNotFound means the contract does not exist for this user.
	ErrNotFound = errors.New("contract not found")

	// ErrValidation is the base error all field validation failures wrap.
	ErrValidation = errors.New("validation failed")

	// ErrCompleted means the contract is completed and must be reopened
	// before it accepts edits.
	ErrCompleted = errors.New("contract is completed; reopen it to edit")

	// ErrInvalidTransition means the requested status change is not
	// allowed from the contract's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	From   Status
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s contract", e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// =============================================================================
// ERROR PREDICATES
// =============================================================================

// IsNotFound returns true if the error means the contract doesn't exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation returns true if the error is a rejected input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflict returns true for errors caused by the contract's status.
func IsConflict(err error) bool {
	return errors.Is(err, ErrCompleted) || errors.Is(err, ErrInvalidTransition)
}
