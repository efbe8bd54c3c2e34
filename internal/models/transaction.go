package models

import "time"

// TransactionType encodes the direction of a ledger transaction.
// Amount is always positive; direction lives here, not in the sign.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit" // money in
	TransactionTypeDebit  TransactionType = "debit"  // money out
)

// Transaction is a single entry in the tenant's money ledger.
// Once reconciled, every field except Category is frozen.
type Transaction struct {
	ID             int64           `json:"id"`
	OrganizationID int64           `json:"organization_id"`
	AccountID      *int64          `json:"account_id"`
	Date           time.Time       `json:"date"`
	Amount         float64         `json:"amount"`
	Type           TransactionType `json:"type"`
	Description    string          `json:"description"`
	CategoryID     *int64          `json:"category_id"`
	CategoryName   string          `json:"category_name,omitempty"`
	ContractorID   *int64          `json:"contractor_id"`
	TaskRef        string          `json:"task_ref,omitempty"`
	EventRef       string          `json:"event_ref,omitempty"`
	Reconciled     bool            `json:"reconciled"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateTransactionRequest is the payload for recording a ledger entry.
type CreateTransactionRequest struct {
	AccountID   *int64          `json:"account_id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id"`
}

// UpdateTransactionRequest carries a partial edit. Only Category survives
// reconciliation; the rest is rejected once the row is reconciled.
type UpdateTransactionRequest struct {
	Date        *string          `json:"date"`
	Amount      *float64         `json:"amount"`
	Type        *TransactionType `json:"type"`
	Description *string          `json:"description"`
	AccountID   *int64           `json:"account_id"`
	CategoryID  *int64           `json:"category_id"`
}

// LinkTransactionRequest attaches optional external relations to a transaction.
type LinkTransactionRequest struct {
	ContractorID *int64  `json:"contractor_id"`
	TaskRef      *string `json:"task_ref"`
	EventRef     *string `json:"event_ref"`
}

// TransactionFilter is used for listing ledger entries.
type TransactionFilter struct {
	AccountID     *int64
	CategoryID    *int64
	Type          TransactionType
	Reconciled    *bool
	StartDate     *time.Time
	EndDate       *time.Time
	Uncategorized bool
	Limit         int
	Offset        int
}
