package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cumulus/internal/domain/services"
	"cumulus/internal/httputil"
)

// ShareLinkHandler handles share link HTTP requests, including the public
// token-resolution endpoint.
type ShareLinkHandler struct {
	shareService services.ShareLinkService
	fileService  services.FileService
	logger       *slog.Logger
}

// NewShareLinkHandler creates a new share link handler
func NewShareLinkHandler(shareService services.ShareLinkService, fileService services.FileService, logger *slog.Logger) *ShareLinkHandler {
	return &ShareLinkHandler{
		shareService: shareService,
		fileService:  fileService,
		logger:       logger,
	}
}

type issueShareLinkBody struct {
	FileID        string     `json:"file_id"`
	ExpiresAt     *time.Time `json:"expires_at"`
	IsPublic      bool       `json:"is_public"`
	AllowedEmails []string   `json:"allowed_emails"`
}

// Issue creates a share link for a file the caller owns
// POST /api/shares
func (h *ShareLinkHandler) Issue(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)

	var body issueShareLinkBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := h.shareService.Issue(r.Context(), &services.IssueShareLinkRequest{
		OwnerID:       ownerID,
		FileID:        body.FileID,
		ExpiresAt:     body.ExpiresAt,
		IsPublic:      body.IsPublic,
		AllowedEmails: body.AllowedEmails,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, link)
}

// Revoke removes a share link
// DELETE /api/shares/{id}
func (h *ShareLinkHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	if err := h.shareService.Revoke(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Resolve serves a shared file by token
// GET /s/{token}
//
// The route itself is public. Public links serve anyone holding the token;
// restricted links additionally require an authenticated caller whose email
// is on the allow list. Expired and never-issued tokens both answer 404 so
// the endpoint cannot be used to probe which tokens exist.
func (h *ShareLinkHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	link, err := h.shareService.Resolve(r.Context(), token)
	if err != nil {
		handleError(w, err)
		return
	}

	if !link.IsPublic {
		email := httputil.GetEmail(r)
		if !link.AllowsEmail(email) {
			httputil.RespondError(w, http.StatusForbidden, "this link is restricted")
			return
		}
	}

	// Download on behalf of the link's issuer, not the caller
	file, data, err := h.fileService.Download(r.Context(), link.OwnerID, link.FileID)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}
