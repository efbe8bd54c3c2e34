package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	DB *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{DB: db}
}

// Create adds a bank/cash account for the organization.
func (r *AccountRepository) Create(ctx context.Context, orgID int64, name, currency string) (*models.Account, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "INR"
	}

	a := &models.Account{OrganizationID: orgID, Name: name, Currency: currency, IsActive: true}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO accounts (organization_id, name, currency)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		orgID, name, currency).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

// Get returns one account within the organization.
func (r *AccountRepository) Get(ctx context.Context, orgID, id int64) (*models.Account, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	var a models.Account
	err := r.DB.QueryRow(ctx, `
		SELECT id, organization_id, name, currency, is_active, created_at
		FROM accounts WHERE id = $1 AND organization_id = $2`,
		id, orgID).Scan(&a.ID, &a.OrganizationID, &a.Name, &a.Currency, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns the organization's accounts.
func (r *AccountRepository) List(ctx context.Context, orgID int64) ([]models.Account, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, organization_id, name, currency, is_active, created_at
		FROM accounts WHERE organization_id = $1
		ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.OrganizationID, &a.Name, &a.Currency, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Deactivate soft-deactivates an account. Accounts with transactions are
// never hard-deleted, so this is the only removal path.
func (r *AccountRepository) Deactivate(ctx context.Context, orgID, id int64) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	tag, err := r.DB.Exec(ctx, `
		UPDATE accounts SET is_active = FALSE
		WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Balances derives every account's balance as of a date: the fold
// SUM(credit) - SUM(debit) over its transactions, never a stored counter.
func (r *AccountRepository) Balances(ctx context.Context, orgID int64, asOf time.Time) ([]models.AccountBalance, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT a.id, a.organization_id, a.name, a.currency, a.is_active, a.created_at,
			COALESCE(SUM(
				CASE WHEN t.txn_type = 'credit' THEN t.amount
				     WHEN t.txn_type = 'debit' THEN -t.amount
				     ELSE 0 END
			), 0) as balance
		FROM accounts a
		LEFT JOIN transactions t
			ON t.account_id = a.id AND t.organization_id = a.organization_id AND t.txn_date <= $2
		WHERE a.organization_id = $1
		GROUP BY a.id
		ORDER BY a.name`, orgID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []models.AccountBalance
	for rows.Next() {
		var b models.AccountBalance
		if err := rows.Scan(&b.ID, &b.OrganizationID, &b.Name, &b.Currency, &b.IsActive, &b.CreatedAt, &b.Balance); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
