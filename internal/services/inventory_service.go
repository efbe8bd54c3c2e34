package services

import (
	"context"

	"finance-backend/internal/cache"
	"finance-backend/internal/metrics"
	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
	"finance-backend/internal/timeutil"
)

// InventoryService owns items and their append-only movement ledger.
type InventoryService struct {
	Repo *repositories.InventoryRepository
}

func NewInventoryService(repo *repositories.InventoryRepository) *InventoryService {
	return &InventoryService{Repo: repo}
}

func (s *InventoryService) CreateItem(ctx context.Context, orgID int64, req *models.CreateItemRequest) (*models.InventoryItem, error) {
	if req.SKU == "" {
		return nil, models.NewValidationError("sku", "is required")
	}
	if req.Name == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	if req.CostPrice < 0 || req.SalePrice < 0 {
		return nil, models.NewValidationError("price", "must not be negative")
	}
	if req.CGSTRate < 0 || req.SGSTRate < 0 || req.IGSTRate < 0 {
		return nil, models.NewValidationError("gst_rate", "must not be negative")
	}
	if req.OpeningStock < 0 {
		return nil, models.NewValidationError("opening_stock", "must not be negative")
	}

	item, err := s.Repo.CreateItem(ctx, orgID, req, timeutil.Now())
	if err != nil {
		return nil, err
	}
	if req.OpeningStock > 0 {
		metrics.StockMovements.WithLabelValues(string(models.MovementTypeOpening)).Inc()
	}
	return item, nil
}

func (s *InventoryService) GetItem(ctx context.Context, orgID, id int64) (*models.ItemWithQuantity, error) {
	item, err := s.Repo.GetItem(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	qty, err := s.Repo.CurrentQuantity(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return &models.ItemWithQuantity{InventoryItem: *item, CurrentQuantity: qty}, nil
}

func (s *InventoryService) ListItems(ctx context.Context, orgID int64, activeOnly bool) ([]models.ItemWithQuantity, error) {
	return s.Repo.ListItems(ctx, orgID, activeOnly)
}

// RecordMovement appends one signed quantity change. Purchases must be
// positive, sales negative; adjustments take any sign and are the only type
// exempt from the non-negative stock check.
func (s *InventoryService) RecordMovement(ctx context.Context, orgID int64, req *models.RecordMovementRequest) (*models.StockMovement, error) {
	if req.Quantity == 0 {
		return nil, models.NewValidationError("quantity", "must not be zero")
	}
	switch req.Type {
	case models.MovementTypePurchase, models.MovementTypeOpening:
		if req.Quantity < 0 {
			return nil, models.NewValidationError("quantity", "must be positive for "+string(req.Type))
		}
	case models.MovementTypeSale:
		if req.Quantity > 0 {
			return nil, models.NewValidationError("quantity", "must be negative for sale")
		}
	case models.MovementTypeAdjustment:
	default:
		return nil, models.NewValidationError("type", "unknown movement type")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	m, err := s.Repo.RecordMovement(ctx, orgID, &models.StockMovement{
		ItemID:   req.ItemID,
		Type:     req.Type,
		Quantity: req.Quantity,
		Date:     date,
		Note:     req.Note,
	})
	if err != nil {
		return nil, err
	}

	metrics.StockMovements.WithLabelValues(string(m.Type)).Inc()
	cache.InvalidateOrg(ctx, orgID)
	return m, nil
}

func (s *InventoryService) ListMovements(ctx context.Context, orgID, itemID int64) ([]models.StockMovement, error) {
	return s.Repo.ListMovements(ctx, orgID, itemID)
}

func (s *InventoryService) LowStock(ctx context.Context, orgID int64) ([]models.ItemWithQuantity, error) {
	return s.Repo.LowStock(ctx, orgID)
}

func (s *InventoryService) SalesSummary(ctx context.Context, orgID int64) ([]models.ItemSalesSummary, error) {
	return s.Repo.SalesSummary(ctx, orgID)
}
