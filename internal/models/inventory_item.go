package models

import "time"

// InventoryItem is a stock-tracked product. Its current quantity is never
// stored here; it is always the fold over its stock movements.
type InventoryItem struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit"`
	CostPrice      float64   `json:"cost_price"`
	SalePrice      float64   `json:"sale_price"`
	CGSTRate       float64   `json:"cgst_rate"`
	SGSTRate       float64   `json:"sgst_rate"`
	IGSTRate       float64   `json:"igst_rate"`
	ReorderLevel   float64   `json:"reorder_level"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// ItemWithQuantity pairs an item with its derived current quantity.
type ItemWithQuantity struct {
	InventoryItem
	CurrentQuantity float64 `json:"current_quantity"`
}

// CreateItemRequest is the payload for registering an inventory item.
type CreateItemRequest struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	CostPrice    float64 `json:"cost_price"`
	SalePrice    float64 `json:"sale_price"`
	CGSTRate     float64 `json:"cgst_rate"`
	SGSTRate     float64 `json:"sgst_rate"`
	IGSTRate     float64 `json:"igst_rate"`
	ReorderLevel float64 `json:"reorder_level"`
	OpeningStock float64 `json:"opening_stock"`
}

// ItemSalesSummary aggregates sale movements for one item, joined to the
// invoice lines that produced them.
type ItemSalesSummary struct {
	ItemID       int64   `json:"item_id"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	QuantitySold float64 `json:"quantity_sold"`
	SalesValue   float64 `json:"sales_value"`
}
