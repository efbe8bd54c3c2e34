package services

import (
	"context"
	"errors"
	"testing"

	"finance-backend/internal/models"
)

// Validation runs before any repository access, so a zero-value service is
// enough to exercise the rejection paths.
func TestRecordTransactionValidation(t *testing.T) {
	s := &LedgerService{}
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.CreateTransactionRequest
	}{
		{"zero amount", models.CreateTransactionRequest{
			Amount: 0, Type: models.TransactionTypeCredit, Description: "x", Date: "2025-01-15",
		}},
		{"negative amount", models.CreateTransactionRequest{
			Amount: -10, Type: models.TransactionTypeDebit, Description: "x", Date: "2025-01-15",
		}},
		{"bad type", models.CreateTransactionRequest{
			Amount: 10, Type: "transfer", Description: "x", Date: "2025-01-15",
		}},
		{"missing description", models.CreateTransactionRequest{
			Amount: 10, Type: models.TransactionTypeCredit, Date: "2025-01-15",
		}},
		{"bad date", models.CreateTransactionRequest{
			Amount: 10, Type: models.TransactionTypeCredit, Description: "x", Date: "15/01/2025",
		}},
		{"missing date", models.CreateTransactionRequest{
			Amount: 10, Type: models.TransactionTypeCredit, Description: "x",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RecordTransaction(ctx, 1, &tt.req)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("date", "2025-06-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != 6 || got.Day() != 30 {
		t.Errorf("parsed %v, want 2025-06-30", got)
	}

	if _, err := parseDate("date", "June 30"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}
