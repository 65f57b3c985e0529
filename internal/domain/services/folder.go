package services

import (
	"context"

	"cumulus/internal/domain/models"
	"cumulus/internal/domain/repositories"
	"cumulus/internal/httputil"
)

// CreateFolderRequest creates a folder under a parent (nil = root level)
type CreateFolderRequest struct {
	OwnerID        string
	Name           string
	ParentFolderID *string
}

// UpdateFolderRequest renames and/or moves a folder. ParentFolderID is
// tri-state: absent = keep, null = move to root, value = move to folder.
type UpdateFolderRequest struct {
	OwnerID        string
	Name           *string
	ParentFolderID httputil.OptionalString
}

// FolderContents is one folder's direct children, both kinds
type FolderContents struct {
	Folder  *models.Folder  `json:"folder,omitempty"` // nil when listing the root level
	Folders []models.Folder `json:"folders"`
	Files   []models.File   `json:"files"`
}

// FolderService manages the namespace tree
type FolderService interface {
	// Create creates a folder; a non-nil absent parent is NotFound
	Create(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// Get retrieves a folder
	Get(ctx context.Context, ownerID, id string) (*models.Folder, error)

	// Update renames and/or moves a folder, rejecting moves that would
	// make a folder its own ancestor
	Update(ctx context.Context, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// Delete removes the folder and everything transitively inside it:
	// descendant folders, their files, the files' share links and quota
	Delete(ctx context.Context, ownerID, id string) error

	// ListContents lists a folder's direct children (nil = root level)
	ListContents(ctx context.Context, ownerID string, folderID *string, opts repositories.ListOptions) (*FolderContents, error)
}
