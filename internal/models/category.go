package models

import "time"

// CategoryType splits the tenant's category vocabulary for P&L grouping.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category is a tenant-defined classification label, unique per
// (organization, name).
type Category struct {
	ID             int64        `json:"id"`
	OrganizationID int64        `json:"organization_id"`
	Name           string       `json:"name"`
	Type           CategoryType `json:"type"`
	IsDirect       bool         `json:"is_direct"` // counts toward gross profit
	CreatedAt      time.Time    `json:"created_at"`
}

// CreateCategoryRequest is the payload for adding a category.
type CreateCategoryRequest struct {
	Name     string       `json:"name"`
	Type     CategoryType `json:"type"`
	IsDirect bool         `json:"is_direct"`
}

// CategorizeBatchRequest drives the idempotent batch categorization run.
// TransactionIDs is optional; empty means "all uncategorized".
type CategorizeBatchRequest struct {
	CategoryNames  []string `json:"category_names"`
	TransactionIDs []int64  `json:"transaction_ids"`
}

// CategorizeBatchResult reports what a batch run assigned.
type CategorizeBatchResult struct {
	Considered int              `json:"considered"`
	Assigned   int              `json:"assigned"`
	Skipped    int              `json:"skipped"`
	Assignments map[int64]string `json:"assignments"`
}
