package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"finance-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// checkStockDemand folds the demanded quantity per bound item across invoice
// lines and fails on the first line that would take an item below zero.
func checkStockDemand(items []models.InvoiceLineItem, available map[int64]float64) error {
	demanded := make(map[int64]float64)
	for _, item := range items {
		if item.ItemID == nil {
			continue
		}
		id := *item.ItemID
		demanded[id] += item.Quantity
		if demanded[id] > available[id] {
			return fmt.Errorf("item %d: have %.3f, invoice needs %.3f: %w",
				id, available[id], demanded[id], models.ErrInsufficientStock)
		}
	}
	return nil
}

// nextInvoiceNumber bumps the organization's own sequence under its row lock,
// so numbers are monotonic per tenant even under concurrent creates.
func nextInvoiceNumber(ctx context.Context, tx pgx.Tx, orgID int64) (string, error) {
	var seq int64
	err := tx.QueryRow(ctx, `
		UPDATE organizations SET invoice_seq = invoice_seq + 1
		WHERE id = $1
		RETURNING invoice_seq`, orgID).Scan(&seq)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("organization %d: %w", orgID, models.ErrTenantScope)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", seq), nil
}

// Create persists an invoice, its lines, and one sale movement per
// inventory-bound line in a single transaction. If any bound item's quantity
// would go negative the whole creation fails and nothing is persisted.
func (r *InvoiceRepository) Create(ctx context.Context, orgID int64, inv *models.Invoice, items []models.InvoiceLineItem) (*models.InvoiceWithDetails, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Check stock first: lock each bound item once, then fold the demanded
	// quantity across lines that share an item.
	available := make(map[int64]float64)
	for _, item := range items {
		if item.ItemID == nil {
			continue
		}
		id := *item.ItemID
		if _, seen := available[id]; !seen {
			qty, err := lockItemQuantity(ctx, tx, orgID, id)
			if err != nil {
				return nil, err
			}
			available[id] = qty
		}
	}
	if err := checkStockDemand(items, available); err != nil {
		return nil, err
	}

	inv.InvoiceNumber, err = nextInvoiceNumber(ctx, tx, orgID)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (
			organization_id, invoice_number, client_name, client_email,
			issue_date, due_date, status, notes, total_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		orgID, inv.InvoiceNumber, inv.ClientName, inv.ClientEmail,
		inv.IssueDate, inv.DueDate, inv.Status, inv.Notes, inv.TotalAmount,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	inv.OrganizationID = orgID

	for i := range items {
		item := &items[i]
		item.InvoiceID = inv.ID
		item.Position = i + 1
		err = tx.QueryRow(ctx, `
			INSERT INTO invoice_line_items (
				invoice_id, organization_id, position, description, quantity,
				unit_price, cgst_rate, sgst_rate, igst_rate, item_id, line_total
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id`,
			inv.ID, orgID, item.Position, item.Description, item.Quantity,
			item.UnitPrice, item.CGSTRate, item.SGSTRate, item.IGSTRate,
			item.ItemID, item.LineTotal,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create invoice line %d: %w", i+1, err)
		}

		if item.ItemID != nil {
			_, err = tx.Exec(ctx, `
				INSERT INTO stock_movements (organization_id, item_id, movement_type, quantity, movement_date, note, invoice_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				orgID, *item.ItemID, models.MovementTypeSale, -item.Quantity,
				inv.IssueDate, "invoice "+inv.InvoiceNumber, inv.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to record sale movement: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.InvoiceWithDetails{
		Invoice:     *inv,
		Items:       items,
		PaidAmount:  0,
		Outstanding: inv.TotalAmount,
	}, nil
}

// Get returns the full invoice read model. The stored total is checked
// against a recomputation from the lines; drift means corruption and is an
// error, never silently served.
func (r *InvoiceRepository) Get(ctx context.Context, orgID, id int64) (*models.InvoiceWithDetails, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	var inv models.Invoice
	err := r.DB.QueryRow(ctx, `
		SELECT id, organization_id, invoice_number, client_name, client_email,
		       issue_date, due_date, status, notes, total_amount, created_at, updated_at
		FROM invoices WHERE id = $1 AND organization_id = $2`,
		id, orgID).Scan(
		&inv.ID, &inv.OrganizationID, &inv.InvoiceNumber, &inv.ClientName, &inv.ClientEmail,
		&inv.IssueDate, &inv.DueDate, &inv.Status, &inv.Notes, &inv.TotalAmount,
		&inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listLines(ctx, orgID, inv.ID)
	if err != nil {
		return nil, err
	}

	computed := models.InvoiceTotal(items)
	if math.Abs(computed-inv.TotalAmount) > 0.005 {
		return nil, fmt.Errorf("invoice %s: stored total %.2f does not match line items %.2f",
			inv.InvoiceNumber, inv.TotalAmount, computed)
	}

	paid, err := r.PaidAmount(ctx, orgID, inv.ID)
	if err != nil {
		return nil, err
	}

	return &models.InvoiceWithDetails{
		Invoice:     inv,
		Items:       items,
		PaidAmount:  paid,
		Outstanding: models.Round2(inv.TotalAmount - paid),
	}, nil
}

func (r *InvoiceRepository) listLines(ctx context.Context, orgID, invoiceID int64) ([]models.InvoiceLineItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, invoice_id, position, description, quantity, unit_price,
		       cgst_rate, sgst_rate, igst_rate, item_id, line_total
		FROM invoice_line_items
		WHERE invoice_id = $1 AND organization_id = $2
		ORDER BY position`, invoiceID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InvoiceLineItem
	for rows.Next() {
		var it models.InvoiceLineItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.CGSTRate, &it.SGSTRate, &it.IGSTRate,
			&it.ItemID, &it.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List returns invoice headers, newest first, optionally filtered by status.
func (r *InvoiceRepository) List(ctx context.Context, orgID int64, status models.InvoiceStatus) ([]models.Invoice, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, organization_id, invoice_number, client_name, client_email,
		       issue_date, due_date, status, notes, total_amount, created_at, updated_at
		FROM invoices WHERE organization_id = $1`
	args := []interface{}{orgID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY issue_date DESC, id DESC"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.OrganizationID, &inv.InvoiceNumber, &inv.ClientName, &inv.ClientEmail,
			&inv.IssueDate, &inv.DueDate, &inv.Status, &inv.Notes, &inv.TotalAmount,
			&inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// PaidAmount is the sum of the invoice's payments, never a stored counter.
func (r *InvoiceRepository) PaidAmount(ctx context.Context, orgID, invoiceID int64) (float64, error) {
	var paid float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE invoice_id = $1 AND organization_id = $2`,
		invoiceID, orgID).Scan(&paid)
	return paid, err
}

// ApplyPayment appends a payment under the invoice row lock, rejects
// overpayment, and advances the status to partial or paid.
func (r *InvoiceRepository) ApplyPayment(ctx context.Context, orgID, invoiceID int64, p *models.Payment) (*models.InvoiceWithDetails, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := applyPaymentTx(ctx, tx, orgID, invoiceID, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.Get(ctx, orgID, invoiceID)
}

// applyPaymentTx records a payment inside the caller's transaction: it takes
// the invoice row lock, rejects overpayment, inserts the payment row, and
// advances the status to partial or paid.
func applyPaymentTx(ctx context.Context, tx pgx.Tx, orgID, invoiceID int64, p *models.Payment) error {
	var status models.InvoiceStatus
	var total float64
	err := tx.QueryRow(ctx, `
		SELECT status, total_amount FROM invoices
		WHERE id = $1 AND organization_id = $2
		FOR UPDATE`, invoiceID, orgID).Scan(&status, &total)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}

	if status == models.InvoiceStatusVoid {
		return fmt.Errorf("invoice is void: %w", models.ErrValidation)
	}
	if status == models.InvoiceStatusPaid {
		return fmt.Errorf("invoice is already paid: %w", models.ErrImmutableRecord)
	}

	var paid float64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE invoice_id = $1 AND organization_id = $2`,
		invoiceID, orgID).Scan(&paid)
	if err != nil {
		return err
	}

	newPaid := models.Round2(paid + p.Amount)
	if newPaid > total+0.005 {
		return fmt.Errorf("payment %.2f exceeds outstanding %.2f: %w",
			p.Amount, total-paid, models.ErrValidation)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO payments (organization_id, invoice_id, amount, paid_on, method, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		orgID, invoiceID, p.Amount, p.PaidOn, p.Method, p.Reference,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	newStatus := models.InvoiceStatusPartial
	if newPaid >= total-0.005 {
		newStatus = models.InvoiceStatusPaid
	}
	_, err = tx.Exec(ctx, `
		UPDATE invoices SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND organization_id = $3`,
		newStatus, invoiceID, orgID)
	return err
}

// SettleGatewayCapture marks a gateway order captured and applies its payment
// to the invoice in one transaction, so a capture either settles fully or not
// at all. Returns applied=false without error when the payment id was already
// recorded, which makes webhook replays no-ops. When the payment cannot be
// applied the capture mark rolls back too, so the gateway's retry re-attempts
// the whole settlement instead of finding the order already consumed.
func (r *InvoiceRepository) SettleGatewayCapture(ctx context.Context, orderID, paymentID string, paidOn time.Time) (*models.OnlinePaymentOrder, bool, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	var o models.OnlinePaymentOrder
	err = tx.QueryRow(ctx, `
		UPDATE online_payment_orders
		SET payment_id = $2, status = 'captured', updated_at = CURRENT_TIMESTAMP
		WHERE order_id = $1 AND payment_id IS NULL
		RETURNING id, organization_id, invoice_id, amount`,
		orderID, paymentID,
	).Scan(&o.ID, &o.OrganizationID, &o.InvoiceID, &o.Amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	o.OrderID = orderID
	o.PaymentID = &paymentID
	o.Status = "captured"

	err = applyPaymentTx(ctx, tx, o.OrganizationID, o.InvoiceID, &models.Payment{
		Amount:    o.Amount,
		PaidOn:    paidOn,
		Method:    "razorpay",
		Reference: paymentID,
	})
	if err != nil {
		return nil, false, fmt.Errorf("apply gateway payment to invoice %d: %w", o.InvoiceID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return &o, true, nil
}

// Void marks a draft or sent invoice void and writes one compensating
// adjustment movement per inventory-bound line, restoring the quantity the
// sale removed. Paid or partially paid invoices cannot be voided.
func (r *InvoiceRepository) Void(ctx context.Context, orgID, invoiceID int64, asOf time.Time) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var status models.InvoiceStatus
	var number string
	err = tx.QueryRow(ctx, `
		SELECT status, invoice_number FROM invoices
		WHERE id = $1 AND organization_id = $2
		FOR UPDATE`, invoiceID, orgID).Scan(&status, &number)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}

	if status != models.InvoiceStatusDraft && status != models.InvoiceStatusSent {
		return fmt.Errorf("cannot void invoice in status %q: %w", status, models.ErrImmutableRecord)
	}

	// Reverse the sale movements this invoice created.
	rows, err := tx.Query(ctx, `
		SELECT item_id, quantity FROM stock_movements
		WHERE invoice_id = $1 AND organization_id = $2 AND movement_type = 'sale'`,
		invoiceID, orgID)
	if err != nil {
		return err
	}
	type reversal struct {
		itemID int64
		qty    float64
	}
	var reversals []reversal
	for rows.Next() {
		var rv reversal
		if err := rows.Scan(&rv.itemID, &rv.qty); err != nil {
			rows.Close()
			return err
		}
		reversals = append(reversals, rv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, rv := range reversals {
		_, err = tx.Exec(ctx, `
			INSERT INTO stock_movements (organization_id, item_id, movement_type, quantity, movement_date, note, invoice_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			orgID, rv.itemID, models.MovementTypeAdjustment, -rv.qty,
			asOf, "void "+number, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to reverse stock for item %d: %w", rv.itemID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE invoices SET status = 'void', updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND organization_id = $2`, invoiceID, orgID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MarkSent moves a draft invoice to sent.
func (r *InvoiceRepository) MarkSent(ctx context.Context, orgID, invoiceID int64) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	tag, err := r.DB.Exec(ctx, `
		UPDATE invoices SET status = 'sent', updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND organization_id = $2 AND status = 'draft'`,
		invoiceID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice is not a draft: %w", models.ErrValidation)
	}
	return nil
}
