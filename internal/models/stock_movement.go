package models

import "time"

// MovementType classifies a stock movement. Only "adjustment" may force the
// running quantity to an explicit value, including a negative correction.
type MovementType string

const (
	MovementTypeOpening    MovementType = "opening"
	MovementTypeAdjustment MovementType = "adjustment"
	MovementTypePurchase   MovementType = "purchase"
	MovementTypeSale       MovementType = "sale"
)

// StockMovement is one signed quantity change for an item. Movements are
// append-only: the sole source of truth for current stock.
type StockMovement struct {
	ID             int64        `json:"id"`
	OrganizationID int64        `json:"organization_id"`
	ItemID         int64        `json:"item_id"`
	Type           MovementType `json:"type"`
	Quantity       float64      `json:"quantity"`
	Date           time.Time    `json:"date"`
	Note           string       `json:"note"`
	InvoiceID      *int64       `json:"invoice_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// RecordMovementRequest is the payload for appending a stock movement.
type RecordMovementRequest struct {
	ItemID   int64        `json:"item_id"`
	Type     MovementType `json:"type"`
	Quantity float64      `json:"quantity"`
	Date     string       `json:"date"` // YYYY-MM-DD
	Note     string       `json:"note"`
}
