package repositories

import (
	"context"
	"time"

	"finance-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatementRepository holds the read-only aggregate queries the statement
// compiler is built on. It never writes.
type StatementRepository struct {
	DB *pgxpool.Pool
}

func NewStatementRepository(db *pgxpool.Pool) *StatementRepository {
	return &StatementRepository{DB: db}
}

// CategoryTotals sums transaction amounts per category for one year, split by
// category type. Transactions without a category come back under id 0.
func (r *StatementRepository) CategoryTotals(ctx context.Context, orgID int64, year int) ([]models.CategoryTotal, map[int64]models.CategoryType, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT COALESCE(c.id, 0), COALESCE(c.name, ''), COALESCE(c.category_type, ''),
		       COALESCE(c.is_direct, FALSE), COALESCE(SUM(t.amount), 0)
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.organization_id = $1
		  AND EXTRACT(YEAR FROM t.txn_date) = $2
		GROUP BY c.id, c.name, c.category_type, c.is_direct
		ORDER BY COALESCE(c.name, '')`, orgID, year)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	types := make(map[int64]models.CategoryType)
	for rows.Next() {
		var ct models.CategoryTotal
		var ctype string
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ctype, &ct.IsDirect, &ct.Total); err != nil {
			return nil, nil, err
		}
		types[ct.CategoryID] = models.CategoryType(ctype)
		totals = append(totals, ct)
	}
	return totals, types, rows.Err()
}

// MonthlyTotals sums income (credits) and expense (debits) per month for one
// year. Months with no activity are present with zeros.
func (r *StatementRepository) MonthlyTotals(ctx context.Context, orgID int64, year int) ([]models.MonthlyTrend, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT EXTRACT(MONTH FROM txn_date)::int as month,
		       COALESCE(SUM(CASE WHEN txn_type = 'credit' THEN amount ELSE 0 END), 0) as income,
		       COALESCE(SUM(CASE WHEN txn_type = 'debit' THEN amount ELSE 0 END), 0) as expense
		FROM transactions
		WHERE organization_id = $1 AND EXTRACT(YEAR FROM txn_date) = $2
		GROUP BY month`, orgID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMonth := make(map[int]models.MonthlyTrend)
	for rows.Next() {
		var m models.MonthlyTrend
		if err := rows.Scan(&m.Month, &m.Income, &m.Expense); err != nil {
			return nil, err
		}
		m.Year = year
		m.Net = models.Round2(m.Income - m.Expense)
		byMonth[m.Month] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trends := make([]models.MonthlyTrend, 0, 12)
	for month := 1; month <= 12; month++ {
		if m, ok := byMonth[month]; ok {
			trends = append(trends, m)
		} else {
			trends = append(trends, models.MonthlyTrend{Year: year, Month: month})
		}
	}
	return trends, nil
}

// TransactionsWithCategory returns all categorized transactions for a year,
// the raw input for anomaly detection.
func (r *StatementRepository) TransactionsWithCategory(ctx context.Context, orgID int64, year int) ([]models.Transaction, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT `+txnColumns+`
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.organization_id = $1 AND EXTRACT(YEAR FROM t.txn_date) = $2
		ORDER BY t.txn_date, t.id`, orgID, year)
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

// OutstandingInvoices returns sent/partial invoices issued on or before asOf
// with their derived outstanding amounts. Used for receivables and aging.
func (r *StatementRepository) OutstandingInvoices(ctx context.Context, orgID int64, asOf time.Time) ([]models.AgedInvoice, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT i.id, i.invoice_number, i.client_name, i.due_date,
		       i.total_amount - COALESCE((
		           SELECT SUM(p.amount) FROM payments p
		           WHERE p.invoice_id = i.id AND p.paid_on <= $2
		       ), 0) as outstanding
		FROM invoices i
		WHERE i.organization_id = $1
		  AND i.status IN ('sent', 'partial')
		  AND i.issue_date <= $2
		ORDER BY i.due_date NULLS LAST, i.id`, orgID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.AgedInvoice
	for rows.Next() {
		var inv models.AgedInvoice
		var due *time.Time
		if err := rows.Scan(&inv.InvoiceID, &inv.InvoiceNumber, &inv.ClientName, &due, &inv.Outstanding); err != nil {
			return nil, err
		}
		if due != nil {
			inv.DueDate = *due
		}
		if inv.Outstanding <= 0 {
			continue
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// ContractorPayables derives what is still owed per contractor as of a date:
// obligations recorded in the payments ledger minus contractor-linked debit
// transactions that settled them. Clamped at zero per contractor.
func (r *StatementRepository) ContractorPayables(ctx context.Context, orgID int64, asOf time.Time) (float64, error) {
	if err := requireOrg(orgID); err != nil {
		return 0, err
	}

	var payables float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(GREATEST(owed - settled, 0)), 0) FROM (
			SELECT c.id,
				COALESCE((SELECT SUM(p.amount) FROM payments p
					WHERE p.contractor_id = c.id AND p.invoice_id IS NULL AND p.paid_on <= $2), 0) as owed,
				COALESCE((SELECT SUM(t.amount) FROM transactions t
					WHERE t.contractor_id = c.id AND t.txn_type = 'debit' AND t.txn_date <= $2), 0) as settled
			FROM contractors c
			WHERE c.organization_id = $1
		) dues`, orgID, asOf).Scan(&payables)
	return payables, err
}
