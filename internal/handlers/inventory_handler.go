package handlers

import (
	"encoding/json"
	"net/http"

	"finance-backend/internal/models"
	"finance-backend/internal/services"
)

type InventoryHandler struct {
	Service *services.InventoryService
}

func NewInventoryHandler(s *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{Service: s}
}

func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	item, err := h.Service.CreateItem(r.Context(), orgID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}
	item, err := h.Service.GetItem(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"
	items, err := h.Service.ListItems(r.Context(), orgID, activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.ItemWithQuantity{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}
	var req models.RecordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.ItemID = itemID
	movement, err := h.Service.RecordMovement(r.Context(), orgID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, movement)
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}
	movements, err := h.Service.ListMovements(r.Context(), orgID, itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	if movements == nil {
		movements = []models.StockMovement{}
	}
	writeJSON(w, http.StatusOK, movements)
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	items, err := h.Service.LowStock(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.ItemWithQuantity{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	summary, err := h.Service.SalesSummary(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	if summary == nil {
		summary = []models.ItemSalesSummary{}
	}
	writeJSON(w, http.StatusOK, summary)
}
