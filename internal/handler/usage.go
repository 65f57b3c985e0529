package handler

import (
	"log/slog"
	"net/http"

	"cumulus/internal/domain/services"
	"cumulus/internal/httputil"
)

// UsageHandler reports the caller's quota snapshot
type UsageHandler struct {
	quota  services.QuotaTracker
	logger *slog.Logger
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(quota services.QuotaTracker, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{quota: quota, logger: logger}
}

// Get returns the caller's current storage usage
// GET /api/usage
func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)

	usage, err := h.quota.Usage(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, usage)
}
