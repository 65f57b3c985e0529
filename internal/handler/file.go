package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"cumulus/internal/config"
	"cumulus/internal/domain"
	"cumulus/internal/domain/services"
	"cumulus/internal/httputil"
)

// FileHandler handles file HTTP requests
type FileHandler struct {
	fileService services.FileService
	quota       services.QuotaTracker
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, quota services.QuotaTracker, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		quota:       quota,
		logger:      logger,
	}
}

// Upload stores a new file from a multipart form
// POST /api/files
// Form fields: file (required), name (optional, defaults to the upload
// filename), parent_folder_id (optional, absent = root level)
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)

	// Bound the body before touching the form; the slack covers multipart
	// framing around a maximum-size payload
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSizeBytes+(1<<20))

	part, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	req := &services.UploadFileRequest{
		OwnerID:  ownerID,
		Name:     name,
		MimeType: mimeType,
		Data:     data,
	}
	if parentID := r.FormValue("parent_folder_id"); parentID != "" {
		req.ParentFolderID = &parentID
	}

	file, err := h.fileService.Upload(r.Context(), req)
	if err != nil {
		// A quota rejection carries the usage snapshot so clients can
		// show how full the account is
		if errors.Is(err, domain.ErrQuotaExceeded) {
			extras := map[string]interface{}{}
			if usage, uerr := h.quota.Usage(r.Context(), ownerID); uerr == nil {
				extras["usage"] = usage
			}
			httputil.RespondErrorWithExtras(w, http.StatusInsufficientStorage, err.Error(), extras)
			return
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// Get retrieves file metadata
// GET /api/files/{id}
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	file, err := h.fileService.Get(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// Download streams the stored payload
// GET /api/files/{id}/content
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	file, data, err := h.fileService.Download(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}

// updateFileBody is the PATCH wire shape. ParentFolderID distinguishes
// absent (keep), null (move to root) and a value (move into that folder).
type updateFileBody struct {
	Name           *string                 `json:"name"`
	ParentFolderID httputil.OptionalString `json:"parent_folder_id"`
}

// Update renames and/or moves a file
// PATCH /api/files/{id}
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	var body updateFileBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := h.fileService.Update(r.Context(), id, &services.UpdateFileRequest{
		OwnerID:        ownerID,
		Name:           body.Name,
		ParentFolderID: body.ParentFolderID,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// Delete removes a file, its share links and its quota charge
// DELETE /api/files/{id}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	if err := h.fileService.Delete(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint
func (h *FileHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
