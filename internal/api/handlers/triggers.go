package handlers

import (
	"net/http"
	"strconv"

	"github.com/fikrisyahid/adzanid/internal/api/middleware"
)

const (
	defaultTriggerLimit = 50
	maxTriggerLimit     = 500
)

// ListTriggers returns recently fired triggers, newest first.
func ListTriggers(triggers TriggerLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultTriggerLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxTriggerLimit {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "limit must be between 1 and 500")
				return
			}
			limit = n
		}

		records, err := triggers.ListRecent(r.Context(), limit)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query triggers")
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}
