package models

import "time"

// Payment is an append-only settlement applied toward an invoice or owed to a
// contractor. An invoice's paid amount is always the sum of its payments.
type Payment struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	InvoiceID      *int64    `json:"invoice_id"`
	ContractorID   *int64    `json:"contractor_id"`
	Amount         float64   `json:"amount"`
	PaidOn         time.Time `json:"paid_on"`
	Method         string    `json:"method"`
	Reference      string    `json:"reference"`
	CreatedAt      time.Time `json:"created_at"`
}

// OnlinePaymentOrder tracks a gateway order raised for an invoice. PaymentID
// is the gateway's capture id and guards webhook replays.
type OnlinePaymentOrder struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	InvoiceID      int64     `json:"invoice_id"`
	OrderID        string    `json:"order_id"`
	PaymentID      *string   `json:"payment_id"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
