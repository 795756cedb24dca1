package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientBalance means the requested amount exceeds the
	// role's currently available balance. The caller may retry with a
	// smaller amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidTransition means a status change was attempted on a
	// withdrawal not in the expected prior state. The caller should
	// re-fetch and inspect the current state.
	ErrInvalidTransition = errors.New("invalid withdrawal state transition")

	// ErrConcurrencyConflict means the per-role critical section could
	// not be entered. The whole request is safe to retry.
	ErrConcurrencyConflict = errors.New("concurrent settlement operation in progress")

	// ErrNotFound means the referenced record does not exist in the
	// caller's organization.
	ErrNotFound = errors.New("record not found")
)

// ValidationError reports malformed input. It is never retried
// automatically and is surfaced verbatim to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ExternalPayoutError reports a failed payout processor call.
// Indeterminate is set when the true outcome is unknown (timeout or
// transport failure); such calls must be retried with the same
// idempotency key and never marked FAILED.
type ExternalPayoutError struct {
	Message       string
	StatusCode    int
	Indeterminate bool
}

func (e *ExternalPayoutError) Error() string {
	if e.Indeterminate {
		return fmt.Sprintf("payout outcome indeterminate: %s", e.Message)
	}
	return fmt.Sprintf("payout rejected: %s", e.Message)
}
