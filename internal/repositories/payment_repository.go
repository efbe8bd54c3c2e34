package repositories

import (
	"context"
	"fmt"

	"finance-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// CreateContractorPayable appends an obligation toward a contractor.
// Settlement happens through contractor-linked debit transactions.
func (r *PaymentRepository) CreateContractorPayable(ctx context.Context, orgID int64, p *models.Payment) (*models.Payment, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	if p.ContractorID == nil {
		return nil, models.NewValidationError("contractor_id", "required")
	}

	err := r.DB.QueryRow(ctx, `
		INSERT INTO payments (organization_id, contractor_id, amount, paid_on, method, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		orgID, p.ContractorID, p.Amount, p.PaidOn, p.Method, p.Reference,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contractor payable: %w", err)
	}
	p.OrganizationID = orgID
	return p, nil
}

// ListForInvoice returns an invoice's payments, oldest first.
func (r *PaymentRepository) ListForInvoice(ctx context.Context, orgID, invoiceID int64) ([]models.Payment, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, organization_id, invoice_id, contractor_id, amount, paid_on,
		       method, COALESCE(reference, ''), created_at
		FROM payments
		WHERE invoice_id = $1 AND organization_id = $2
		ORDER BY paid_on, id`, invoiceID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.InvoiceID, &p.ContractorID,
			&p.Amount, &p.PaidOn, &p.Method, &p.Reference, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// CreateOnlineOrder records a gateway order raised for an invoice.
func (r *PaymentRepository) CreateOnlineOrder(ctx context.Context, orgID int64, o *models.OnlinePaymentOrder) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	err := r.DB.QueryRow(ctx, `
		INSERT INTO online_payment_orders (organization_id, invoice_id, order_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		orgID, o.InvoiceID, o.OrderID, o.Amount,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create online payment order: %w", err)
	}
	o.OrganizationID = orgID
	o.Status = "created"
	return nil
}

// Capture settlement lives in InvoiceRepository.SettleGatewayCapture, which
// marks the order and applies the payment in one transaction.
