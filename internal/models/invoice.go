package models

import "time"

// InvoiceStatus is the invoice lifecycle: draft → sent → partial → paid,
// or void (only from draft/sent).
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// Invoice is an invoice header. TotalAmount is a pure function of the line
// items and is recomputed and checked on every read.
type Invoice struct {
	ID             int64         `json:"id"`
	OrganizationID int64         `json:"organization_id"`
	InvoiceNumber  string        `json:"invoice_number"`
	ClientName     string        `json:"client_name"`
	ClientEmail    string        `json:"client_email"`
	IssueDate      time.Time     `json:"issue_date"`
	DueDate        *time.Time    `json:"due_date"`
	Status         InvoiceStatus `json:"status"`
	Notes          string        `json:"notes"`
	TotalAmount    float64       `json:"total_amount"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// InvoiceLineItem is one billed line. ItemID, when set, binds the line to an
// inventory item and a sale stock movement.
type InvoiceLineItem struct {
	ID          int64   `json:"id"`
	InvoiceID   int64   `json:"invoice_id"`
	Position    int     `json:"position"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	CGSTRate    float64 `json:"cgst_rate"`
	SGSTRate    float64 `json:"sgst_rate"`
	IGSTRate    float64 `json:"igst_rate"`
	ItemID      *int64  `json:"item_id,omitempty"`
	LineTotal   float64 `json:"line_total"`
}

// InvoiceWithDetails is the full read model: header, lines, and the derived
// payment picture.
type InvoiceWithDetails struct {
	Invoice
	Items       []InvoiceLineItem `json:"items"`
	PaidAmount  float64           `json:"paid_amount"`
	Outstanding float64           `json:"outstanding"`
}

// InvoiceLineRequest is one line in an invoice creation request.
type InvoiceLineRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	CGSTRate    float64 `json:"cgst_rate"`
	SGSTRate    float64 `json:"sgst_rate"`
	IGSTRate    float64 `json:"igst_rate"`
	ItemID      *int64  `json:"item_id"`
}

// CreateInvoiceRequest is the payload for creating an invoice.
type CreateInvoiceRequest struct {
	ClientName  string               `json:"client_name"`
	ClientEmail string               `json:"client_email"`
	IssueDate   string               `json:"issue_date"` // YYYY-MM-DD
	DueDate     *string              `json:"due_date"`
	Status      InvoiceStatus        `json:"status"` // draft or sent
	Notes       string               `json:"notes"`
	Items       []InvoiceLineRequest `json:"items"`
}

// ApplyPaymentRequest is the payload for settling (part of) an invoice.
type ApplyPaymentRequest struct {
	Amount    float64 `json:"amount"`
	PaidOn    string  `json:"paid_on"` // YYYY-MM-DD, defaults to today
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}
