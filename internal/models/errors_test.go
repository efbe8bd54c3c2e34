package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorUnwrapsToErrValidation(t *testing.T) {
	err := NewValidationError("amount", "must be positive")
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should match ErrValidation")
	}
	want := "validation failed: amount: must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"classifier unavailable", ErrClassifierUnavailable, true},
		{"wrapped classifier error", fmt.Errorf("%w: timeout", ErrClassifierUnavailable), true},
		{"validation", ErrValidation, false},
		{"not found", ErrNotFound, false},
		{"immutable", ErrImmutableRecord, false},
		{"insufficient stock", ErrInsufficientStock, false},
		{"tenant scope", ErrTenantScope, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
