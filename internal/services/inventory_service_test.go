package services

import (
	"context"
	"errors"
	"testing"

	"finance-backend/internal/models"
)

func TestCreateItemValidation(t *testing.T) {
	s := &InventoryService{}
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.CreateItemRequest
	}{
		{"missing sku", models.CreateItemRequest{Name: "Widget"}},
		{"missing name", models.CreateItemRequest{SKU: "W-1"}},
		{"negative cost price", models.CreateItemRequest{SKU: "W-1", Name: "Widget", CostPrice: -1}},
		{"negative sale price", models.CreateItemRequest{SKU: "W-1", Name: "Widget", SalePrice: -1}},
		{"negative gst rate", models.CreateItemRequest{SKU: "W-1", Name: "Widget", CGSTRate: -9}},
		{"negative opening stock", models.CreateItemRequest{SKU: "W-1", Name: "Widget", OpeningStock: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateItem(ctx, 1, &tt.req)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestRecordMovementSignRules(t *testing.T) {
	s := &InventoryService{}
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.RecordMovementRequest
	}{
		{"zero quantity", models.RecordMovementRequest{
			ItemID: 1, Type: models.MovementTypeAdjustment, Quantity: 0, Date: "2025-01-15",
		}},
		{"negative purchase", models.RecordMovementRequest{
			ItemID: 1, Type: models.MovementTypePurchase, Quantity: -5, Date: "2025-01-15",
		}},
		{"negative opening", models.RecordMovementRequest{
			ItemID: 1, Type: models.MovementTypeOpening, Quantity: -5, Date: "2025-01-15",
		}},
		{"positive sale", models.RecordMovementRequest{
			ItemID: 1, Type: models.MovementTypeSale, Quantity: 5, Date: "2025-01-15",
		}},
		{"unknown type", models.RecordMovementRequest{
			ItemID: 1, Type: "transfer", Quantity: 5, Date: "2025-01-15",
		}},
		{"bad date", models.RecordMovementRequest{
			ItemID: 1, Type: models.MovementTypeAdjustment, Quantity: 5, Date: "15 Jan",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RecordMovement(ctx, 1, &tt.req)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}
