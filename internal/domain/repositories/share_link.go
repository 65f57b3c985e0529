package repositories

import (
	"context"

	"cumulus/internal/domain/models"
)

// ShareLinkRepository defines data access operations for share links
type ShareLinkRepository interface {
	// Create inserts a new share link, assigning its ID.
	// Token uniqueness is enforced here.
	Create(ctx context.Context, link *models.ShareLink) error

	// GetByToken retrieves a link by its token, expired or not
	GetByToken(ctx context.Context, token string) (*models.ShareLink, error)

	// Delete removes a link scoped to its owner
	Delete(ctx context.Context, id, ownerID string) error

	// DeleteByFile removes every link bound to a file
	DeleteByFile(ctx context.Context, fileID string) error
}
