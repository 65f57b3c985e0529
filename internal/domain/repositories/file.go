package repositories

import (
	"context"

	"cumulus/internal/domain/models"
)

// FileRepository defines data access operations for file metadata
type FileRepository interface {
	// Create inserts a new file record, assigning its ID
	Create(ctx context.Context, file *models.File) error

	// GetByID retrieves a file scoped to its owner
	GetByID(ctx context.Context, id, ownerID string) (*models.File, error)

	// Update persists name, parent and updated-at changes
	Update(ctx context.Context, file *models.File) error

	// Delete removes a file record
	Delete(ctx context.Context, id, ownerID string) error

	// ListByFolder lists files directly inside a folder (nil = root level)
	ListByFolder(ctx context.Context, ownerID string, folderID *string, opts ListOptions) ([]models.File, error)
}
