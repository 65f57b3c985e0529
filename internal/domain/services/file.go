package services

import (
	"context"

	"cumulus/internal/domain/models"
	"cumulus/internal/domain/repositories"
	"cumulus/internal/httputil"
)

// UploadFileRequest carries everything the upload layer hands over: raw
// bytes, declared content type and the authenticated owner. The payload has
// already been bounded by the maximum accepted upload size upstream; the
// service re-checks regardless.
type UploadFileRequest struct {
	OwnerID        string
	Name           string
	MimeType       string
	ParentFolderID *string
	Data           []byte
}

// UpdateFileRequest renames and/or moves a file. ParentFolderID is
// tri-state: absent = keep, null = move to root, value = move to folder.
type UpdateFileRequest struct {
	OwnerID        string
	Name           *string
	ParentFolderID httputil.OptionalString
}

// FileService manages file metadata and the stored payloads behind it
type FileService interface {
	// Upload stores the payload, creates the metadata record and commits
	// quota. A failed store leaves quota and namespace untouched.
	Upload(ctx context.Context, req *UploadFileRequest) (*models.File, error)

	// Get retrieves file metadata
	Get(ctx context.Context, ownerID, id string) (*models.File, error)

	// Download retrieves metadata plus the stored payload
	Download(ctx context.Context, ownerID, id string) (*models.File, []byte, error)

	// Update renames and/or moves a file
	Update(ctx context.Context, id string, req *UpdateFileRequest) (*models.File, error)

	// Delete removes the file, its share links, its quota charge and,
	// best-effort, its stored payload
	Delete(ctx context.Context, ownerID, id string) error

	// List lists files directly inside a folder (nil = root level)
	List(ctx context.Context, ownerID string, folderID *string, opts repositories.ListOptions) ([]models.File, error)
}
