package repositories

import (
	"context"

	"cumulus/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a new folder, assigning its ID
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder scoped to its owner
	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// Update persists name, parent and updated-at changes
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder record
	Delete(ctx context.Context, id, ownerID string) error

	// ListChildren lists immediate child folders (nil = root level)
	ListChildren(ctx context.Context, ownerID string, parentID *string, opts ListOptions) ([]models.Folder, error)
}
