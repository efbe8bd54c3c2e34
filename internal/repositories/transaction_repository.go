package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	DB *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

const txnColumns = `t.id, t.organization_id, t.account_id, t.txn_date, t.amount, t.txn_type,
	t.description, t.category_id, COALESCE(c.name, '') as category_name,
	t.contractor_id, COALESCE(t.task_ref, '') as task_ref, COALESCE(t.event_ref, '') as event_ref,
	t.reconciled, t.created_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.OrganizationID, &t.AccountID, &t.Date, &t.Amount, &t.Type,
		&t.Description, &t.CategoryID, &t.CategoryName,
		&t.ContractorID, &t.TaskRef, &t.EventRef,
		&t.Reconciled, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new ledger transaction.
func (r *TransactionRepository) Create(ctx context.Context, orgID int64, t *models.Transaction) (*models.Transaction, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	err := r.DB.QueryRow(ctx, `
		INSERT INTO transactions (
			organization_id, account_id, txn_date, amount, txn_type,
			description, category_id, contractor_id, task_ref, event_ref
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		orgID, t.AccountID, t.Date, t.Amount, t.Type,
		t.Description, t.CategoryID, t.ContractorID,
		nullIfEmpty(t.TaskRef), nullIfEmpty(t.EventRef),
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	t.OrganizationID = orgID
	return t, nil
}

// Get returns one transaction within the organization.
func (r *TransactionRepository) Get(ctx context.Context, orgID, id int64) (*models.Transaction, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	row := r.DB.QueryRow(ctx, `
		SELECT `+txnColumns+`
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.id = $1 AND t.organization_id = $2`, id, orgID)

	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns a stable, date-ordered view of the organization's ledger.
func (r *TransactionRepository) List(ctx context.Context, orgID int64, filter *models.TransactionFilter) ([]models.Transaction, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	conditions := []string{"t.organization_id = $1"}
	args := []interface{}{orgID}
	argNum := 2

	if filter.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("t.account_id = $%d", argNum))
		args = append(args, *filter.AccountID)
		argNum++
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("t.category_id = $%d", argNum))
		args = append(args, *filter.CategoryID)
		argNum++
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("t.txn_type = $%d", argNum))
		args = append(args, filter.Type)
		argNum++
	}
	if filter.Reconciled != nil {
		conditions = append(conditions, fmt.Sprintf("t.reconciled = $%d", argNum))
		args = append(args, *filter.Reconciled)
		argNum++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("t.txn_date >= $%d", argNum))
		args = append(args, *filter.StartDate)
		argNum++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("t.txn_date <= $%d", argNum))
		args = append(args, *filter.EndDate)
		argNum++
	}
	if filter.Uncategorized {
		conditions = append(conditions, "t.category_id IS NULL")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}

	query := fmt.Sprintf(`
		SELECT `+txnColumns+`
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE %s
		ORDER BY t.txn_date, t.id
		LIMIT $%d OFFSET $%d`,
		strings.Join(conditions, " AND "), argNum, argNum+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

// ListByIDs returns the named transactions, skipping ids outside the org.
func (r *TransactionRepository) ListByIDs(ctx context.Context, orgID int64, ids []int64) ([]models.Transaction, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.DB.Query(ctx, `
		SELECT `+txnColumns+`
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.organization_id = $1 AND t.id = ANY($2)
		ORDER BY t.txn_date, t.id`, orgID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

// Update applies a partial edit to an unreconciled transaction. The caller
// (service layer) enforces the reconciled-immutability rule before calling.
func (r *TransactionRepository) Update(ctx context.Context, orgID int64, t *models.Transaction) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	tag, err := r.DB.Exec(ctx, `
		UPDATE transactions
		SET txn_date = $1, amount = $2, txn_type = $3, description = $4,
		    account_id = $5, category_id = $6
		WHERE id = $7 AND organization_id = $8`,
		t.Date, t.Amount, t.Type, t.Description, t.AccountID, t.CategoryID,
		t.ID, orgID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetCategory assigns a category. Allowed regardless of reconciled state.
func (r *TransactionRepository) SetCategory(ctx context.Context, orgID, txID int64, categoryID *int64) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	tag, err := r.DB.Exec(ctx, `
		UPDATE transactions SET category_id = $1
		WHERE id = $2 AND organization_id = $3`,
		categoryID, txID, orgID)
	if err != nil {
		return fmt.Errorf("failed to set category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetCategoriesBatch assigns categories to many transactions in one database
// transaction. Either every assignment commits or none do.
func (r *TransactionRepository) SetCategoriesBatch(ctx context.Context, orgID int64, assignments map[int64]int64) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}
	if len(assignments) == 0 {
		return nil
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for txID, categoryID := range assignments {
		tag, err := tx.Exec(ctx, `
			UPDATE transactions SET category_id = $1
			WHERE id = $2 AND organization_id = $3`,
			categoryID, txID, orgID)
		if err != nil {
			return fmt.Errorf("failed to assign category to transaction %d: %w", txID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("transaction %d: %w", txID, models.ErrNotFound)
		}
	}
	return tx.Commit(ctx)
}

// SetLinks sets the optional contractor/task/event relations.
func (r *TransactionRepository) SetLinks(ctx context.Context, orgID, txID int64, contractorID *int64, taskRef, eventRef *string) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	tag, err := r.DB.Exec(ctx, `
		UPDATE transactions
		SET contractor_id = COALESCE($1, contractor_id),
		    task_ref = COALESCE($2, task_ref),
		    event_ref = COALESCE($3, event_ref)
		WHERE id = $4 AND organization_id = $5`,
		contractorID, taskRef, eventRef, txID, orgID)
	if err != nil {
		return fmt.Errorf("failed to link transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkReconciled flags the transaction as matched to bank records.
// Idempotent: re-marking an already-reconciled row is a no-op.
func (r *TransactionRepository) MarkReconciled(ctx context.Context, orgID, txID int64) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1 AND organization_id = $2)`,
		txID, orgID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrNotFound
	}

	_, err = r.DB.Exec(ctx, `
		UPDATE transactions SET reconciled = TRUE
		WHERE id = $1 AND organization_id = $2 AND reconciled = FALSE`,
		txID, orgID)
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
