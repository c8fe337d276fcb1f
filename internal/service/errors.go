package service

import (
	"errors"
	"fmt"
)

// Workflow-level sentinel errors.  Repository-level errors (not
// found, conflict, unavailable dates, insufficient units/balance)
// live in the repository package; these cover the rules the workflow
// itself enforces.
var (
	// ErrValidation is the sentinel wrapped by ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyCancelled rejects cancelling a booking twice.  The
	// first cancellation already refunded and restored inventory;
	// repeating it must not repeat the side effects.
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrInvalidStateTransition rejects a lifecycle step the booking
	// state machine does not permit, e.g. cancelling a completed
	// stay or confirming a booking that is not pending.
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// ValidationError reports a malformed or unsatisfiable stay request
// before any row is touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
