package models

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. Handlers map these onto HTTP statuses; everything
// else is wrapped with fmt.Errorf("...: %w", err) and surfaces as a 500.
var (
	// ErrValidation is returned for malformed or missing input. Non-retryable;
	// the caller must fix the request.
	ErrValidation = errors.New("validation failed")

	// ErrImmutableRecord is returned when a mutation targets a reconciled
	// transaction or a paid invoice. Non-retryable.
	ErrImmutableRecord = errors.New("record is immutable")

	// ErrInsufficientStock is returned when a movement or invoice line would
	// drive an item's quantity negative. Nothing is persisted.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrClassifierUnavailable is returned when the external categorization
	// dependency fails. Retryable: the batch is idempotent.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrTenantScope is returned on any attempt to operate without, or across,
	// an organization scope. Indicates a caller bug and is never swallowed.
	ErrTenantScope = errors.New("tenant scope violation")

	// ErrNotFound is returned when the addressed record does not exist within
	// the caller's organization.
	ErrNotFound = errors.New("record not found")
)

// ValidationError carries the offending field alongside ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Retryable reports whether the caller may safely retry the failed operation.
// Only the idempotent categorization batch qualifies.
func Retryable(err error) bool {
	return errors.Is(err, ErrClassifierUnavailable)
}
