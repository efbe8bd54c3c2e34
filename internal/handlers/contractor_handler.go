package handlers

import (
	"encoding/json"
	"net/http"

	"finance-backend/internal/models"
	"finance-backend/internal/services"
)

type ContractorHandler struct {
	Service  *services.ContractorService
	Invoices *services.InvoiceService
}

func NewContractorHandler(s *services.ContractorService, invoices *services.InvoiceService) *ContractorHandler {
	return &ContractorHandler{Service: s, Invoices: invoices}
}

func (h *ContractorHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	var req models.CreateContractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	contractor, err := h.Service.CreateContractor(r.Context(), orgID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contractor)
}

func (h *ContractorHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	contractors, err := h.Service.ListContractors(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	if contractors == nil {
		contractors = []models.Contractor{}
	}
	writeJSON(w, http.StatusOK, contractors)
}

// RecordPayable appends an obligation owed to a contractor.
func (h *ContractorHandler) RecordPayable(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid contractor ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Amount    float64 `json:"amount"`
		PaidOn    string  `json:"paid_on"`
		Method    string  `json:"method"`
		Reference string  `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := h.Service.GetContractor(r.Context(), orgID, id); err != nil {
		writeError(w, err)
		return
	}
	payable, err := h.Invoices.RecordContractorPayable(r.Context(), orgID, id, req.Amount, req.PaidOn, req.Method, req.Reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payable)
}
