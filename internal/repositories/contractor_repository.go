package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContractorRepository struct {
	DB *pgxpool.Pool
}

func NewContractorRepository(db *pgxpool.Pool) *ContractorRepository {
	return &ContractorRepository{DB: db}
}

// Create adds a contractor record.
func (r *ContractorRepository) Create(ctx context.Context, orgID int64, req *models.CreateContractorRequest) (*models.Contractor, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	mode := req.PaymentMode
	if mode == "" {
		mode = "bank_transfer"
	}

	c := &models.Contractor{OrganizationID: orgID, Name: req.Name, PaymentMode: mode, IsActive: true}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO contractors (organization_id, name, payment_mode)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		orgID, req.Name, mode).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contractor: %w", err)
	}
	return c, nil
}

// Get returns one contractor within the organization.
func (r *ContractorRepository) Get(ctx context.Context, orgID, id int64) (*models.Contractor, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	var c models.Contractor
	err := r.DB.QueryRow(ctx, `
		SELECT id, organization_id, name, payment_mode, is_active, created_at
		FROM contractors WHERE id = $1 AND organization_id = $2`,
		id, orgID).Scan(&c.ID, &c.OrganizationID, &c.Name, &c.PaymentMode, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns the organization's contractors.
func (r *ContractorRepository) List(ctx context.Context, orgID int64) ([]models.Contractor, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, organization_id, name, payment_mode, is_active, created_at
		FROM contractors WHERE organization_id = $1
		ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contractors []models.Contractor
	for rows.Next() {
		var c models.Contractor
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.PaymentMode, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		contractors = append(contractors, c)
	}
	return contractors, rows.Err()
}
