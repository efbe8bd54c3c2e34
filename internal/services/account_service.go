package services

import (
	"context"
	"time"

	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
)

type AccountService struct {
	Repo *repositories.AccountRepository
}

func NewAccountService(repo *repositories.AccountRepository) *AccountService {
	return &AccountService{Repo: repo}
}

func (s *AccountService) CreateAccount(ctx context.Context, orgID int64, req *models.CreateAccountRequest) (*models.Account, error) {
	if req.Name == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	return s.Repo.Create(ctx, orgID, req.Name, currency)
}

func (s *AccountService) GetAccount(ctx context.Context, orgID, id int64) (*models.Account, error) {
	return s.Repo.Get(ctx, orgID, id)
}

func (s *AccountService) ListAccounts(ctx context.Context, orgID int64) ([]models.Account, error) {
	return s.Repo.List(ctx, orgID)
}

func (s *AccountService) DeactivateAccount(ctx context.Context, orgID, id int64) error {
	return s.Repo.Deactivate(ctx, orgID, id)
}

func (s *AccountService) AccountBalances(ctx context.Context, orgID int64, asOf time.Time) ([]models.AccountBalance, error) {
	return s.Repo.Balances(ctx, orgID, asOf)
}
