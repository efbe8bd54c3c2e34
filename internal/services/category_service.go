package services

import (
	"context"

	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
)

type CategoryService struct {
	Repo *repositories.CategoryRepository
}

func NewCategoryService(repo *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{Repo: repo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, orgID int64, req *models.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	if req.Type != models.CategoryTypeIncome && req.Type != models.CategoryTypeExpense {
		return nil, models.NewValidationError("type", "must be income or expense")
	}
	return s.Repo.Create(ctx, orgID, req)
}

func (s *CategoryService) GetCategory(ctx context.Context, orgID, id int64) (*models.Category, error) {
	return s.Repo.Get(ctx, orgID, id)
}

func (s *CategoryService) ListCategories(ctx context.Context, orgID int64) ([]models.Category, error) {
	return s.Repo.List(ctx, orgID)
}
