package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"finance-backend/internal/models"
	"finance-backend/internal/services"
	"finance-backend/internal/timeutil"
)

type TransactionHandler struct {
	Ledger         *services.LedgerService
	Categorization *services.CategorizationService
}

func NewTransactionHandler(ledger *services.LedgerService, categorization *services.CategorizationService) *TransactionHandler {
	return &TransactionHandler{Ledger: ledger, Categorization: categorization}
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	txn, err := h.Ledger.RecordTransaction(r.Context(), orgID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}
	txn, err := h.Ledger.GetTransaction(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	filter, err := transactionFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	txns, err := h.Ledger.ListTransactions(r.Context(), orgID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}
	var req models.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	txn, err := h.Ledger.UpdateTransaction(r.Context(), orgID, id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (h *TransactionHandler) Link(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}
	var req models.LinkTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	txn, err := h.Ledger.LinkTransaction(r.Context(), orgID, id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (h *TransactionHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}
	txn, err := h.Ledger.ReconcileTransaction(r.Context(), orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (h *TransactionHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}
	var req struct {
		CategoryID *int64 `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	txn, err := h.Ledger.CategorizeTransaction(r.Context(), orgID, id, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// CategorizeBatch runs the idempotent AI batch classification.
func (h *TransactionHandler) CategorizeBatch(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	var req models.CategorizeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.Categorization.RunBatch(r.Context(), orgID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func transactionFilterFromQuery(r *http.Request) (*models.TransactionFilter, error) {
	q := r.URL.Query()
	filter := &models.TransactionFilter{}

	if v := q.Get("account_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, models.NewValidationError("account_id", "must be an integer")
		}
		filter.AccountID = &id
	}
	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, models.NewValidationError("category_id", "must be an integer")
		}
		filter.CategoryID = &id
	}
	if v := q.Get("type"); v != "" {
		filter.Type = models.TransactionType(v)
	}
	if v := q.Get("reconciled"); v != "" {
		b := v == "true"
		filter.Reconciled = &b
	}
	if v := q.Get("start_date"); v != "" {
		t, err := timeutil.ParseInIST("2006-01-02", v)
		if err != nil {
			return nil, models.NewValidationError("start_date", "must be YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := timeutil.ParseInIST("2006-01-02", v)
		if err != nil {
			return nil, models.NewValidationError("end_date", "must be YYYY-MM-DD")
		}
		filter.EndDate = &t
	}
	if q.Get("uncategorized") == "true" {
		filter.Uncategorized = true
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, models.NewValidationError("limit", "must be a non-negative integer")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, models.NewValidationError("offset", "must be a non-negative integer")
		}
		filter.Offset = n
	}
	return filter, nil
}
