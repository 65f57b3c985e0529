package handler

import (
	"errors"
	"net/http"

	"cumulus/internal/domain"
	"cumulus/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidHierarchy):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrQuotaExceeded):
		httputil.RespondError(w, http.StatusInsufficientStorage, err.Error())
	case errors.Is(err, domain.ErrBackendUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, "storage backend unavailable")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
