package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrFetchUnavailable   = errors.New("rate provider unavailable")
	ErrProviderRejected   = errors.New("rate provider rejected request")
	ErrInvalidResponse    = errors.New("invalid rate provider response")
	ErrPersistenceFailure = errors.New("persistence failure")

	ErrCycleInProgress         = errors.New("rate sync cycle already running")
	ErrSchedulerStopped        = errors.New("rate sync scheduler is shutting down")
	ErrRecalculationInProgress = errors.New("recalculation already running for quotation")
)

// ValidationError describes bad input. It matches ErrValidationFailed.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// PersistenceError wraps a database fault. Message is shown to API clients as is.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string { return e.Message }

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistenceFailure }

// NotFoundError names the missing entity. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
