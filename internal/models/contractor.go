package models

import "time"

// Contractor is a vendor/partner record referenced by transactions and
// payments. It never owns them.
type Contractor struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	PaymentMode    string    `json:"payment_mode"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateContractorRequest is the payload for adding a contractor.
type CreateContractorRequest struct {
	Name        string `json:"name"`
	PaymentMode string `json:"payment_mode"`
}
