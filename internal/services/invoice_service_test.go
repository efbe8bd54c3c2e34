package services

import (
	"context"
	"errors"
	"testing"

	"finance-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCreateInvoiceValidation(t *testing.T) {
	s := &InvoiceService{}
	ctx := context.Background()

	line := models.InvoiceLineRequest{Description: "Consulting", Quantity: 1, UnitPrice: 100}

	tests := []struct {
		name string
		req  models.CreateInvoiceRequest
	}{
		{"missing client name", models.CreateInvoiceRequest{
			IssueDate: "2025-01-10", Items: []models.InvoiceLineRequest{line},
		}},
		{"no line items", models.CreateInvoiceRequest{
			ClientName: "Acme", IssueDate: "2025-01-10",
		}},
		{"invalid initial status", models.CreateInvoiceRequest{
			ClientName: "Acme", IssueDate: "2025-01-10", Status: models.InvoiceStatusPaid,
			Items: []models.InvoiceLineRequest{line},
		}},
		{"bad issue date", models.CreateInvoiceRequest{
			ClientName: "Acme", IssueDate: "Jan 10", Items: []models.InvoiceLineRequest{line},
		}},
		{"due before issue", models.CreateInvoiceRequest{
			ClientName: "Acme", IssueDate: "2025-01-10", DueDate: strPtr("2025-01-01"),
			Items: []models.InvoiceLineRequest{line},
		}},
		{"zero quantity", models.CreateInvoiceRequest{
			ClientName: "Acme", IssueDate: "2025-01-10",
			Items: []models.InvoiceLineRequest{{Description: "Consulting", Quantity: 0, UnitPrice: 100}},
		}},
		{"negative unit price", models.CreateInvoiceRequest{
			ClientName: "Acme", IssueDate: "2025-01-10",
			Items: []models.InvoiceLineRequest{{Description: "Consulting", Quantity: 1, UnitPrice: -5}},
		}},
		{"negative gst rate", models.CreateInvoiceRequest{
			ClientName: "Acme", IssueDate: "2025-01-10",
			Items: []models.InvoiceLineRequest{{Description: "Consulting", Quantity: 1, UnitPrice: 100, CGSTRate: -9}},
		}},
		{"no description and no item binding", models.CreateInvoiceRequest{
			ClientName: "Acme", IssueDate: "2025-01-10",
			Items: []models.InvoiceLineRequest{{Quantity: 1, UnitPrice: 100}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateInvoice(ctx, 1, &tt.req)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestApplyPaymentValidation(t *testing.T) {
	s := &InvoiceService{}
	ctx := context.Background()

	_, err := s.ApplyPayment(ctx, 1, 1, &models.ApplyPaymentRequest{Amount: 0})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("zero amount: got %v, want ErrValidation", err)
	}
	_, err = s.ApplyPayment(ctx, 1, 1, &models.ApplyPaymentRequest{Amount: 100, PaidOn: "yesterday"})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad paid_on: got %v, want ErrValidation", err)
	}
}

func TestRecordContractorPayableValidation(t *testing.T) {
	s := &InvoiceService{}
	_, err := s.RecordContractorPayable(context.Background(), 1, 7, -50, "", "cash", "")
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}
