package handler

import (
	"log/slog"
	"net/http"

	"cumulus/internal/domain/services"
	"cumulus/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

type createFolderBody struct {
	Name           string  `json:"name"`
	ParentFolderID *string `json:"parent_folder_id"`
}

// Create creates a folder
// POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)

	var body createFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folderService.Create(r.Context(), &services.CreateFolderRequest{
		OwnerID:        ownerID,
		Name:           body.Name,
		ParentFolderID: body.ParentFolderID,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// Get retrieves a folder
// GET /api/folders/{id}
func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	folder, err := h.folderService.Get(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

type updateFolderBody struct {
	Name           *string                 `json:"name"`
	ParentFolderID httputil.OptionalString `json:"parent_folder_id"`
}

// Update renames and/or moves a folder
// PATCH /api/folders/{id}
// A move that would make the folder its own ancestor is rejected with 409
func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	var body updateFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folderService.Update(r.Context(), id, &services.UpdateFolderRequest{
		OwnerID:        ownerID,
		Name:           body.Name,
		ParentFolderID: body.ParentFolderID,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// Delete removes a folder and everything transitively inside it
// DELETE /api/folders/{id}
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)
	id := r.PathValue("id")

	if err := h.folderService.Delete(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists the direct children of a folder, or of the root level when
// no parent_id is given
// GET /api/list?parent_id=&page=&page_size=&sort=&order=
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetOwnerID(r)

	contents, err := h.folderService.ListContents(r.Context(), ownerID, parentFolderID(r), parseListOptions(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}
