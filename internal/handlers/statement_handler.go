package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"finance-backend/internal/models"
	"finance-backend/internal/services"
	"finance-backend/internal/timeutil"
)

type StatementHandler struct {
	Statements *services.StatementService
	Exports    *services.ExportService
}

func NewStatementHandler(statements *services.StatementService, exports *services.ExportService) *StatementHandler {
	return &StatementHandler{Statements: statements, Exports: exports}
}

func yearFromQuery(r *http.Request) (int, error) {
	v := r.URL.Query().Get("year")
	if v == "" {
		return timeutil.Now().Year(), nil
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < 1900 || year > 3000 {
		return 0, models.NewValidationError("year", "must be a four digit year")
	}
	return year, nil
}

func (h *StatementHandler) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	year, err := yearFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	pnl, err := h.Statements.ProfitAndLoss(r.Context(), orgID, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pnl)
}

func (h *StatementHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
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
	bs, err := h.Statements.BalanceSheet(r.Context(), orgID, asOf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *StatementHandler) Aging(w http.ResponseWriter, r *http.Request) {
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
	report, err := h.Statements.Aging(r.Context(), orgID, asOf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *StatementHandler) Trends(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	year, err := yearFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	trends, err := h.Statements.Trends(r.Context(), orgID, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (h *StatementHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	year, err := yearFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	months := 3
	if v := r.URL.Query().Get("months"); v != "" {
		months, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, models.NewValidationError("months", "must be an integer"))
			return
		}
	}
	points, err := h.Statements.Forecast(r.Context(), orgID, year, months)
	if err != nil {
		writeError(w, err)
		return
	}
	if points == nil {
		points = []models.ForecastPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *StatementHandler) Anomalies(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	year, err := yearFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	threshold := services.DefaultAnomalyThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		threshold, err = strconv.ParseFloat(v, 64)
		if err != nil || threshold <= 0 {
			writeError(w, models.NewValidationError("threshold", "must be a positive number"))
			return
		}
	}
	anomalies, err := h.Statements.Anomalies(r.Context(), orgID, year, threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	if anomalies == nil {
		anomalies = []models.Anomaly{}
	}
	writeJSON(w, http.StatusOK, anomalies)
}

func (h *StatementHandler) Insights(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	year, err := yearFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	insights, err := h.Statements.Insights(r.Context(), orgID, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// ExportXLSX streams a workbook with the year's statements.
func (h *StatementHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFrom(w, r)
	if !ok {
		return
	}
	year, err := yearFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	buf, err := h.Exports.StatementWorkbook(r.Context(), orgID, year, timeutil.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="statements_%d.xlsx"`, year))
	w.Write(buf.Bytes())
}
