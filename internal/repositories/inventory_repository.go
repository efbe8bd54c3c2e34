package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository struct {
	DB *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{DB: db}
}

// CreateItem registers an inventory item; when openingStock > 0 an opening
// movement is written in the same transaction so quantity history starts
// consistent.
func (r *InventoryRepository) CreateItem(ctx context.Context, orgID int64, req *models.CreateItemRequest, openingDate time.Time) (*models.InventoryItem, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	item := &models.InventoryItem{
		OrganizationID: orgID,
		SKU:            req.SKU,
		Name:           req.Name,
		Unit:           req.Unit,
		CostPrice:      req.CostPrice,
		SalePrice:      req.SalePrice,
		CGSTRate:       req.CGSTRate,
		SGSTRate:       req.SGSTRate,
		IGSTRate:       req.IGSTRate,
		ReorderLevel:   req.ReorderLevel,
		IsActive:       true,
	}
	if item.Unit == "" {
		item.Unit = "pcs"
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO inventory_items (
			organization_id, sku, name, unit, cost_price, sale_price,
			cgst_rate, sgst_rate, igst_rate, reorder_level
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		orgID, item.SKU, item.Name, item.Unit, item.CostPrice, item.SalePrice,
		item.CGSTRate, item.SGSTRate, item.IGSTRate, item.ReorderLevel,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	if req.OpeningStock > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO stock_movements (organization_id, item_id, movement_type, quantity, movement_date, note)
			VALUES ($1, $2, $3, $4, $5, 'opening stock')`,
			orgID, item.ID, models.MovementTypeOpening, req.OpeningStock, openingDate)
		if err != nil {
			return nil, fmt.Errorf("failed to record opening stock: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns one item within the organization.
func (r *InventoryRepository) GetItem(ctx context.Context, orgID, id int64) (*models.InventoryItem, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	var item models.InventoryItem
	err := r.DB.QueryRow(ctx, `
		SELECT id, organization_id, sku, name, unit, cost_price, sale_price,
		       cgst_rate, sgst_rate, igst_rate, reorder_level, is_active, created_at
		FROM inventory_items WHERE id = $1 AND organization_id = $2`,
		id, orgID).Scan(
		&item.ID, &item.OrganizationID, &item.SKU, &item.Name, &item.Unit,
		&item.CostPrice, &item.SalePrice, &item.CGSTRate, &item.SGSTRate,
		&item.IGSTRate, &item.ReorderLevel, &item.IsActive, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns every item with its derived current quantity. Quantity is
// the SUM over stock_movements, computed fresh on every call.
func (r *InventoryRepository) ListItems(ctx context.Context, orgID int64, activeOnly bool) ([]models.ItemWithQuantity, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT i.id, i.organization_id, i.sku, i.name, i.unit, i.cost_price, i.sale_price,
		       i.cgst_rate, i.sgst_rate, i.igst_rate, i.reorder_level, i.is_active, i.created_at,
		       COALESCE(SUM(m.quantity), 0) as current_quantity
		FROM inventory_items i
		LEFT JOIN stock_movements m ON m.item_id = i.id
		WHERE i.organization_id = $1`
	if activeOnly {
		query += " AND i.is_active = TRUE"
	}
	query += `
		GROUP BY i.id
		ORDER BY i.sku`

	rows, err := r.DB.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ItemWithQuantity
	for rows.Next() {
		var it models.ItemWithQuantity
		if err := rows.Scan(
			&it.ID, &it.OrganizationID, &it.SKU, &it.Name, &it.Unit,
			&it.CostPrice, &it.SalePrice, &it.CGSTRate, &it.SGSTRate,
			&it.IGSTRate, &it.ReorderLevel, &it.IsActive, &it.CreatedAt,
			&it.CurrentQuantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CurrentQuantity folds the item's movement history. There is no stored
// counter to drift from it.
func (r *InventoryRepository) CurrentQuantity(ctx context.Context, orgID, itemID int64) (float64, error) {
	if err := requireOrg(orgID); err != nil {
		return 0, err
	}

	var qty float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE item_id = $1 AND organization_id = $2`,
		itemID, orgID).Scan(&qty)
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// RecordMovement appends a stock movement. For every type except adjustment
// the check-then-write runs under a row lock on the item, so two concurrent
// withdrawals cannot both pass the quantity check.
func (r *InventoryRepository) RecordMovement(ctx context.Context, orgID int64, m *models.StockMovement) (*models.StockMovement, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := lockItemQuantity(ctx, tx, orgID, m.ItemID)
	if err != nil {
		return nil, err
	}

	if m.Type != models.MovementTypeAdjustment && current+m.Quantity < 0 {
		return nil, fmt.Errorf("item %d: have %.3f, delta %.3f: %w",
			m.ItemID, current, m.Quantity, models.ErrInsufficientStock)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO stock_movements (organization_id, item_id, movement_type, quantity, movement_date, note, invoice_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		orgID, m.ItemID, m.Type, m.Quantity, m.Date, m.Note, m.InvoiceID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	m.OrganizationID = orgID
	return m, nil
}

// lockItemQuantity locks the item row and returns its current quantity inside
// the caller's transaction. Shared with invoice creation, which needs the same
// check-then-write against several items at once.
func lockItemQuantity(ctx context.Context, tx pgx.Tx, orgID, itemID int64) (float64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		SELECT id FROM inventory_items
		WHERE id = $1 AND organization_id = $2
		FOR UPDATE`, itemID, orgID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("item %d: %w", itemID, models.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}

	var qty float64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE item_id = $1 AND organization_id = $2`,
		itemID, orgID).Scan(&qty)
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// ListMovements returns an item's full movement history, oldest first.
func (r *InventoryRepository) ListMovements(ctx context.Context, orgID, itemID int64) ([]models.StockMovement, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, organization_id, item_id, movement_type, quantity, movement_date,
		       COALESCE(note, ''), invoice_id, created_at
		FROM stock_movements
		WHERE item_id = $1 AND organization_id = $2
		ORDER BY movement_date, id`, itemID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []models.StockMovement
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.ItemID, &m.Type, &m.Quantity,
			&m.Date, &m.Note, &m.InvoiceID, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// LowStock returns active items whose derived quantity is at or below their
// reorder level.
func (r *InventoryRepository) LowStock(ctx context.Context, orgID int64) ([]models.ItemWithQuantity, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT i.id, i.organization_id, i.sku, i.name, i.unit, i.cost_price, i.sale_price,
		       i.cgst_rate, i.sgst_rate, i.igst_rate, i.reorder_level, i.is_active, i.created_at,
		       COALESCE(SUM(m.quantity), 0) as current_quantity
		FROM inventory_items i
		LEFT JOIN stock_movements m ON m.item_id = i.id
		WHERE i.organization_id = $1 AND i.is_active = TRUE
		GROUP BY i.id
		HAVING COALESCE(SUM(m.quantity), 0) <= i.reorder_level
		ORDER BY i.sku`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ItemWithQuantity
	for rows.Next() {
		var it models.ItemWithQuantity
		if err := rows.Scan(
			&it.ID, &it.OrganizationID, &it.SKU, &it.Name, &it.Unit,
			&it.CostPrice, &it.SalePrice, &it.CGSTRate, &it.SGSTRate,
			&it.IGSTRate, &it.ReorderLevel, &it.IsActive, &it.CreatedAt,
			&it.CurrentQuantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// SalesSummary aggregates sale movements and invoice lines per item for the
// sold quantity and value. Movements and lines are aggregated separately: an
// invoice with several lines bound to the same item writes one movement per
// line, so joining the two sets row to row would multiply both sums.
func (r *InventoryRepository) SalesSummary(ctx context.Context, orgID int64) ([]models.ItemSalesSummary, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT i.id, i.sku, i.name,
		       m.quantity_sold,
		       COALESCE(l.sales_value, 0) as sales_value
		FROM inventory_items i
		JOIN (
			SELECT item_id, SUM(-quantity) as quantity_sold
			FROM stock_movements
			WHERE organization_id = $1 AND movement_type = 'sale'
			GROUP BY item_id
		) m ON m.item_id = i.id
		LEFT JOIN (
			SELECT item_id, SUM(line_total) as sales_value
			FROM invoice_line_items
			WHERE organization_id = $1 AND item_id IS NOT NULL
			GROUP BY item_id
		) l ON l.item_id = i.id
		WHERE i.organization_id = $1
		ORDER BY sales_value DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.ItemSalesSummary
	for rows.Next() {
		var s models.ItemSalesSummary
		if err := rows.Scan(&s.ItemID, &s.SKU, &s.Name, &s.QuantitySold, &s.SalesValue); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
