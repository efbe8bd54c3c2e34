package repositories

import (
	"errors"
	"testing"

	"finance-backend/internal/models"
)

func itemRef(id int64) *int64 { return &id }

func TestCheckStockDemand(t *testing.T) {
	tests := []struct {
		name      string
		items     []models.InvoiceLineItem
		available map[int64]float64
		wantErr   bool
	}{
		{
			name: "single line within stock",
			items: []models.InvoiceLineItem{
				{ItemID: itemRef(7), Quantity: 3},
			},
			available: map[int64]float64{7: 5},
		},
		{
			name: "exact match allowed",
			items: []models.InvoiceLineItem{
				{ItemID: itemRef(7), Quantity: 5},
			},
			available: map[int64]float64{7: 5},
		},
		{
			name: "single line exceeds stock",
			items: []models.InvoiceLineItem{
				{ItemID: itemRef(7), Quantity: 6},
			},
			available: map[int64]float64{7: 5},
			wantErr:   true,
		},
		{
			// Two lines of the same item must be demanded together, not
			// checked one by one against the full available quantity.
			name: "shared item folds across lines",
			items: []models.InvoiceLineItem{
				{ItemID: itemRef(7), Quantity: 1},
				{ItemID: itemRef(7), Quantity: 1},
			},
			available: map[int64]float64{7: 1.5},
			wantErr:   true,
		},
		{
			name: "shared item within stock",
			items: []models.InvoiceLineItem{
				{ItemID: itemRef(7), Quantity: 1},
				{ItemID: itemRef(7), Quantity: 1},
			},
			available: map[int64]float64{7: 2},
		},
		{
			name: "unbound lines ignored",
			items: []models.InvoiceLineItem{
				{Quantity: 100},
				{ItemID: itemRef(3), Quantity: 1},
			},
			available: map[int64]float64{3: 1},
		},
		{
			name: "unknown item has zero stock",
			items: []models.InvoiceLineItem{
				{ItemID: itemRef(9), Quantity: 0.001},
			},
			available: map[int64]float64{},
			wantErr:   true,
		},
		{
			name: "no items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStockDemand(tt.items, tt.available)
			if tt.wantErr {
				if !errors.Is(err, models.ErrInsufficientStock) {
					t.Fatalf("checkStockDemand() error = %v, want ErrInsufficientStock", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("checkStockDemand() unexpected error: %v", err)
			}
		})
	}
}
