package services

import (
	"context"

	"cumulus/internal/domain/models"
)

// SearchIndexer is the out-of-band search collaborator, notified on create,
// rename and delete of files and folders. Notification is best-effort:
// implementations swallow their own failures and must never fail the
// primary operation, so these methods return nothing.
type SearchIndexer interface {
	IndexFile(ctx context.Context, file *models.File)
	RemoveFile(ctx context.Context, fileID string)
	IndexFolder(ctx context.Context, folder *models.Folder)
	RemoveFolder(ctx context.Context, folderID string)
}
