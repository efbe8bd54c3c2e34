package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-backend/internal/models"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", models.NewValidationError("amount", "must be positive"), http.StatusBadRequest},
		{"not found", fmt.Errorf("transaction 9: %w", models.ErrNotFound), http.StatusNotFound},
		{"tenant scope", models.ErrTenantScope, http.StatusForbidden},
		{"immutable", models.ErrImmutableRecord, http.StatusConflict},
		{"insufficient stock", models.ErrInsufficientStock, http.StatusConflict},
		{"classifier down", models.ErrClassifierUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("pg connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestWriteErrorRetryableFlag(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("%w: upstream timeout", models.ErrClassifierUnavailable))

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["retryable"] != true {
		t.Errorf("retryable = %v, want true", body["retryable"])
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("password=hunter2 dial failed"))

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("error = %q, internal detail must not leak", body["error"])
	}
}
