package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// Create adds a category. (organization, name) is unique.
func (r *CategoryRepository) Create(ctx context.Context, orgID int64, req *models.CreateCategoryRequest) (*models.Category, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	c := &models.Category{
		OrganizationID: orgID,
		Name:           req.Name,
		Type:           req.Type,
		IsDirect:       req.IsDirect,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO categories (organization_id, name, category_type, is_direct)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		orgID, req.Name, req.Type, req.IsDirect).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

// Get returns one category within the organization.
func (r *CategoryRepository) Get(ctx context.Context, orgID, id int64) (*models.Category, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	var c models.Category
	err := r.DB.QueryRow(ctx, `
		SELECT id, organization_id, name, category_type, is_direct, created_at
		FROM categories WHERE id = $1 AND organization_id = $2`,
		id, orgID).Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Type, &c.IsDirect, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns the organization's category vocabulary.
func (r *CategoryRepository) List(ctx context.Context, orgID int64) ([]models.Category, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, organization_id, name, category_type, is_direct, created_at
		FROM categories WHERE organization_id = $1
		ORDER BY category_type, name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Type, &c.IsDirect, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByNames resolves category names to records within the organization.
// Missing names are simply absent from the result map.
func (r *CategoryRepository) GetByNames(ctx context.Context, orgID int64, names []string) (map[string]models.Category, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return map[string]models.Category{}, nil
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, organization_id, name, category_type, is_direct, created_at
		FROM categories WHERE organization_id = $1 AND name = ANY($2)`,
		orgID, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]models.Category, len(names))
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Type, &c.IsDirect, &c.CreatedAt); err != nil {
			return nil, err
		}
		result[c.Name] = c
	}
	return result, rows.Err()
}
