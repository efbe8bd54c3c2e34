package services

import (
	"context"

	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
)

type ContractorService struct {
	Repo *repositories.ContractorRepository
}

func NewContractorService(repo *repositories.ContractorRepository) *ContractorService {
	return &ContractorService{Repo: repo}
}

func (s *ContractorService) CreateContractor(ctx context.Context, orgID int64, req *models.CreateContractorRequest) (*models.Contractor, error) {
	if req.Name == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	return s.Repo.Create(ctx, orgID, req)
}

func (s *ContractorService) GetContractor(ctx context.Context, orgID, id int64) (*models.Contractor, error) {
	return s.Repo.Get(ctx, orgID, id)
}

func (s *ContractorService) ListContractors(ctx context.Context, orgID int64) ([]models.Contractor, error) {
	return s.Repo.List(ctx, orgID)
}
