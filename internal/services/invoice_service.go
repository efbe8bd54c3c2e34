package services

import (
	"context"

	"finance-backend/internal/cache"
	"finance-backend/internal/metrics"
	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
	"finance-backend/internal/timeutil"
)

// InvoiceService owns the invoice lifecycle: create with stock binding, send,
// settle, void.
type InvoiceService struct {
	InvoiceRepo   *repositories.InvoiceRepository
	InventoryRepo *repositories.InventoryRepository
	PaymentRepo   *repositories.PaymentRepository
}

func NewInvoiceService(invoiceRepo *repositories.InvoiceRepository, inventoryRepo *repositories.InventoryRepository, paymentRepo *repositories.PaymentRepository) *InvoiceService {
	return &InvoiceService{
		InvoiceRepo:   invoiceRepo,
		InventoryRepo: inventoryRepo,
		PaymentRepo:   paymentRepo,
	}
}

// CreateInvoice validates the request, resolves item-bound line defaults, and
// creates the invoice together with its sale stock movements in one
// transaction. A line bound to an inventory item inherits the item's sale
// price and GST rates when the request leaves them zero.
func (s *InvoiceService) CreateInvoice(ctx context.Context, orgID int64, req *models.CreateInvoiceRequest) (*models.InvoiceWithDetails, error) {
	if req.ClientName == "" {
		return nil, models.NewValidationError("client_name", "is required")
	}
	if len(req.Items) == 0 {
		return nil, models.NewValidationError("items", "at least one line item is required")
	}
	status := req.Status
	if status == "" {
		status = models.InvoiceStatusDraft
	}
	if status != models.InvoiceStatusDraft && status != models.InvoiceStatusSent {
		return nil, models.NewValidationError("status", "new invoices must be draft or sent")
	}
	issueDate, err := parseDate("issue_date", req.IssueDate)
	if err != nil {
		return nil, err
	}
	inv := &models.Invoice{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		IssueDate:   issueDate,
		Status:      status,
		Notes:       req.Notes,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := parseDate("due_date", *req.DueDate)
		if err != nil {
			return nil, err
		}
		if dueDate.Before(issueDate) {
			return nil, models.NewValidationError("due_date", "must not be before issue_date")
		}
		inv.DueDate = &dueDate
	}

	lines := make([]models.InvoiceLineItem, 0, len(req.Items))
	for i, lr := range req.Items {
		if lr.Quantity <= 0 {
			return nil, models.NewValidationError("items.quantity", "must be positive")
		}
		if lr.UnitPrice < 0 || lr.CGSTRate < 0 || lr.SGSTRate < 0 || lr.IGSTRate < 0 {
			return nil, models.NewValidationError("items", "prices and rates must not be negative")
		}
		line := models.InvoiceLineItem{
			Position:    i + 1,
			Description: lr.Description,
			Quantity:    lr.Quantity,
			UnitPrice:   lr.UnitPrice,
			CGSTRate:    lr.CGSTRate,
			SGSTRate:    lr.SGSTRate,
			IGSTRate:    lr.IGSTRate,
			ItemID:      lr.ItemID,
		}
		if lr.ItemID != nil {
			item, err := s.InventoryRepo.GetItem(ctx, orgID, *lr.ItemID)
			if err != nil {
				return nil, err
			}
			if line.Description == "" {
				line.Description = item.Name
			}
			if line.UnitPrice == 0 {
				line.UnitPrice = item.SalePrice
			}
			if line.CGSTRate == 0 && line.SGSTRate == 0 && line.IGSTRate == 0 {
				line.CGSTRate = item.CGSTRate
				line.SGSTRate = item.SGSTRate
				line.IGSTRate = item.IGSTRate
			}
		}
		if line.Description == "" {
			return nil, models.NewValidationError("items.description", "is required")
		}
		line.LineTotal = models.LineTotal(line.Quantity, line.UnitPrice, line.CGSTRate, line.SGSTRate, line.IGSTRate)
		lines = append(lines, line)
	}
	inv.TotalAmount = models.InvoiceTotal(lines)

	created, err := s.InvoiceRepo.Create(ctx, orgID, inv, lines)
	if err != nil {
		return nil, err
	}

	metrics.InvoicesIssued.Inc()
	cache.InvalidateOrg(ctx, orgID)
	return created, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, orgID, id int64) (*models.InvoiceWithDetails, error) {
	return s.InvoiceRepo.Get(ctx, orgID, id)
}

func (s *InvoiceService) ListInvoices(ctx context.Context, orgID int64, status models.InvoiceStatus) ([]models.Invoice, error) {
	return s.InvoiceRepo.List(ctx, orgID, status)
}

// SendInvoice moves a draft to sent.
func (s *InvoiceService) SendInvoice(ctx context.Context, orgID, id int64) (*models.InvoiceWithDetails, error) {
	if err := s.InvoiceRepo.MarkSent(ctx, orgID, id); err != nil {
		return nil, err
	}
	cache.InvalidateOrg(ctx, orgID)
	return s.InvoiceRepo.Get(ctx, orgID, id)
}

// ApplyPayment records a settlement and advances the invoice status. The
// paid amount is always derived from the payment rows, never stored.
func (s *InvoiceService) ApplyPayment(ctx context.Context, orgID, id int64, req *models.ApplyPaymentRequest) (*models.InvoiceWithDetails, error) {
	if req.Amount <= 0 {
		return nil, models.NewValidationError("amount", "must be positive")
	}
	paidOn := timeutil.Now()
	if req.PaidOn != "" {
		var err error
		paidOn, err = parseDate("paid_on", req.PaidOn)
		if err != nil {
			return nil, err
		}
	}

	inv, err := s.InvoiceRepo.ApplyPayment(ctx, orgID, id, &models.Payment{
		Amount:    models.Round2(req.Amount),
		PaidOn:    paidOn,
		Method:    req.Method,
		Reference: req.Reference,
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateOrg(ctx, orgID)
	return inv, nil
}

// VoidInvoice cancels a draft or sent invoice and returns its reserved stock
// via compensating adjustment movements.
func (s *InvoiceService) VoidInvoice(ctx context.Context, orgID, id int64) (*models.InvoiceWithDetails, error) {
	if err := s.InvoiceRepo.Void(ctx, orgID, id, timeutil.Now()); err != nil {
		return nil, err
	}
	cache.InvalidateOrg(ctx, orgID)
	return s.InvoiceRepo.Get(ctx, orgID, id)
}

func (s *InvoiceService) ListPayments(ctx context.Context, orgID, invoiceID int64) ([]models.Payment, error) {
	return s.PaymentRepo.ListForInvoice(ctx, orgID, invoiceID)
}

// RecordContractorPayable appends an obligation owed to a contractor. It is
// settled later by contractor-linked debit transactions in the ledger.
func (s *InvoiceService) RecordContractorPayable(ctx context.Context, orgID int64, contractorID int64, amount float64, paidOn, method, reference string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, models.NewValidationError("amount", "must be positive")
	}
	on := timeutil.Now()
	if paidOn != "" {
		var err error
		on, err = parseDate("paid_on", paidOn)
		if err != nil {
			return nil, err
		}
	}
	p, err := s.PaymentRepo.CreateContractorPayable(ctx, orgID, &models.Payment{
		ContractorID: &contractorID,
		Amount:       models.Round2(amount),
		PaidOn:       on,
		Method:       method,
		Reference:    reference,
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateOrg(ctx, orgID)
	return p, nil
}
