package models

import "time"

// Account is a bank or cash account owned by an organization.
// Accounts are soft-deactivated, never deleted once they have transactions.
type Account struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Currency       string    `json:"currency"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// AccountBalance pairs an account with its derived balance
// (credits minus debits over its transaction history).
type AccountBalance struct {
	Account
	Balance float64 `json:"balance"`
}

// CreateAccountRequest is the payload for creating an account.
type CreateAccountRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}
