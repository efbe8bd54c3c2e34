package handlers

import (
	"encoding/json"
	"net/http"

	"finance-backend/internal/models"
	"finance-backend/internal/services"
	"finance-backend/internal/timeutil"
)

type AccountHandler struct {
	Service *services.AccountService
}

func NewAccountHandler(s *services.AccountService) *AccountHandler {
	return &AccountHandler{Service: s}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	account, err := h.Service.CreateAccount(r.Context(), orgID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}
	account, err := h.Service.GetAccount(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	accounts, err := h.Service.ListAccounts(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.DeactivateAccount(r.Context(), orgID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// Balances returns derived per-account balances as of an optional date.
func (h *AccountHandler) Balances(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	asOf := timeutil.Now()
	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := timeutil.ParseInIST("2006-01-02", v)
		if err != nil {
			writeError(w, models.NewValidationError("as_of", "must be YYYY-MM-DD"))
			return
		}
		asOf = timeutil.EndOfDay(t)
	}
	balances, err := h.Service.AccountBalances(r.Context(), orgID, asOf)
	if err != nil {
		writeError(w, err)
		return
	}
	if balances == nil {
		balances = []models.AccountBalance{}
	}
	writeJSON(w, http.StatusOK, balances)
}
