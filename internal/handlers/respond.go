package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"finance-backend/internal/middleware"
	"finance-backend/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the engine error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500 and gets logged, not leaked.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrTenantScope):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrImmutableRecord), errors.Is(err, models.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, models.ErrClassifierUnavailable):
		status = http.StatusServiceUnavailable
	default:
		log.Printf("[HTTP] internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "internal server error",
		})
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"error":     err.Error(),
		"retryable": models.Retryable(err),
	})
}

// orgFrom pulls the tenant scope set by the auth middleware. A missing scope
// means the route was wired outside the middleware; reject rather than guess.
func orgFrom(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orgID, ok := middleware.GetOrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return orgID, true
}
