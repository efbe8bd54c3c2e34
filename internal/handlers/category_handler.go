package handlers

import (
	"encoding/json"
	"net/http"

	"finance-backend/internal/models"
	"finance-backend/internal/services"
)

type CategoryHandler struct {
	Service *services.CategoryService
}

func NewCategoryHandler(s *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{Service: s}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	category, err := h.Service.CreateCategory(r.Context(), orgID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	categories, err := h.Service.ListCategories(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}
