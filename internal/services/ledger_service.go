package services

import (
	"context"
	"time"

	"finance-backend/internal/cache"
	"finance-backend/internal/metrics"
	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
	"finance-backend/internal/timeutil"
)

// LedgerService owns the money ledger: append, edit-until-reconciled,
// categorize, link, reconcile.
type LedgerService struct {
	TxnRepo      *repositories.TransactionRepository
	AccountRepo  *repositories.AccountRepository
	CategoryRepo *repositories.CategoryRepository
}

func NewLedgerService(txnRepo *repositories.TransactionRepository, accountRepo *repositories.AccountRepository, categoryRepo *repositories.CategoryRepository) *LedgerService {
	return &LedgerService{TxnRepo: txnRepo, AccountRepo: accountRepo, CategoryRepo: categoryRepo}
}

// parseDate parses a YYYY-MM-DD request field in IST.
func parseDate(field, value string) (time.Time, error) {
	t, err := timeutil.ParseInIST("2006-01-02", value)
	if err != nil {
		return time.Time{}, models.NewValidationError(field, "must be YYYY-MM-DD")
	}
	return t, nil
}

func (s *LedgerService) RecordTransaction(ctx context.Context, orgID int64, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, models.NewValidationError("amount", "must be positive")
	}
	if req.Type != models.TransactionTypeCredit && req.Type != models.TransactionTypeDebit {
		return nil, models.NewValidationError("type", "must be credit or debit")
	}
	if req.Description == "" {
		return nil, models.NewValidationError("description", "is required")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if req.AccountID != nil {
		if _, err := s.AccountRepo.Get(ctx, orgID, *req.AccountID); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.CategoryRepo.Get(ctx, orgID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	txn, err := s.TxnRepo.Create(ctx, orgID, &models.Transaction{
		AccountID:   req.AccountID,
		Date:        date,
		Amount:      models.Round2(req.Amount),
		Type:        req.Type,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return nil, err
	}

	metrics.TransactionsRecorded.WithLabelValues(string(txn.Type)).Inc()
	cache.InvalidateOrg(ctx, orgID)
	return txn, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, orgID, id int64) (*models.Transaction, error) {
	return s.TxnRepo.Get(ctx, orgID, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context, orgID int64, filter *models.TransactionFilter) ([]models.Transaction, error) {
	return s.TxnRepo.List(ctx, orgID, filter)
}

// UpdateTransaction applies a partial edit. Reconciled rows accept a category
// change and nothing else.
func (s *LedgerService) UpdateTransaction(ctx context.Context, orgID, id int64, req *models.UpdateTransactionRequest) (*models.Transaction, error) {
	txn, err := s.TxnRepo.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	wantsFieldEdit := req.Date != nil || req.Amount != nil || req.Type != nil ||
		req.Description != nil || req.AccountID != nil
	if txn.Reconciled && wantsFieldEdit {
		return nil, models.ErrImmutableRecord
	}

	if req.CategoryID != nil {
		if _, err := s.CategoryRepo.Get(ctx, orgID, *req.CategoryID); err != nil {
			return nil, err
		}
		txn.CategoryID = req.CategoryID
	}
	if txn.Reconciled {
		// Category is the only mutable field after reconciliation.
		if err := s.TxnRepo.SetCategory(ctx, orgID, id, txn.CategoryID); err != nil {
			return nil, err
		}
		cache.InvalidateOrg(ctx, orgID)
		return s.TxnRepo.Get(ctx, orgID, id)
	}

	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			return nil, err
		}
		txn.Date = date
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, models.NewValidationError("amount", "must be positive")
		}
		txn.Amount = models.Round2(*req.Amount)
	}
	if req.Type != nil {
		if *req.Type != models.TransactionTypeCredit && *req.Type != models.TransactionTypeDebit {
			return nil, models.NewValidationError("type", "must be credit or debit")
		}
		txn.Type = *req.Type
	}
	if req.Description != nil {
		if *req.Description == "" {
			return nil, models.NewValidationError("description", "is required")
		}
		txn.Description = *req.Description
	}
	if req.AccountID != nil {
		if _, err := s.AccountRepo.Get(ctx, orgID, *req.AccountID); err != nil {
			return nil, err
		}
		txn.AccountID = req.AccountID
	}

	if err := s.TxnRepo.Update(ctx, orgID, txn); err != nil {
		return nil, err
	}
	cache.InvalidateOrg(ctx, orgID)
	return s.TxnRepo.Get(ctx, orgID, id)
}

// LinkTransaction attaches contractor/task/event references. Links on a
// reconciled row are rejected like any other field edit.
func (s *LedgerService) LinkTransaction(ctx context.Context, orgID, id int64, req *models.LinkTransactionRequest) (*models.Transaction, error) {
	txn, err := s.TxnRepo.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if txn.Reconciled {
		return nil, models.ErrImmutableRecord
	}
	if err := s.TxnRepo.SetLinks(ctx, orgID, id, req.ContractorID, req.TaskRef, req.EventRef); err != nil {
		return nil, err
	}
	return s.TxnRepo.Get(ctx, orgID, id)
}

// ReconcileTransaction freezes a row. Reconciling twice is a no-op.
func (s *LedgerService) ReconcileTransaction(ctx context.Context, orgID, id int64) (*models.Transaction, error) {
	if err := s.TxnRepo.MarkReconciled(ctx, orgID, id); err != nil {
		return nil, err
	}
	return s.TxnRepo.Get(ctx, orgID, id)
}

// CategorizeTransaction sets or clears a single row's category.
func (s *LedgerService) CategorizeTransaction(ctx context.Context, orgID, id int64, categoryID *int64) (*models.Transaction, error) {
	if categoryID != nil {
		if _, err := s.CategoryRepo.Get(ctx, orgID, *categoryID); err != nil {
			return nil, err
		}
	}
	if err := s.TxnRepo.SetCategory(ctx, orgID, id, categoryID); err != nil {
		return nil, err
	}
	cache.InvalidateOrg(ctx, orgID)
	return s.TxnRepo.Get(ctx, orgID, id)
}
