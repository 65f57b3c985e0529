// Package search is the boundary to the full-text indexing collaborator.
// The core only emits notifications; the actual engine wiring lives outside
// this system. Notifications are best-effort by contract - an unreachable
// indexer must never fail an upload, rename or delete.
package search

import (
	"context"
	"log/slog"

	"cumulus/internal/domain/models"
	"cumulus/internal/domain/services"
)

// Notifier records index events through structured logging, where an
// out-of-band consumer picks them up. It satisfies the best-effort contract
// trivially: logging cannot fail the caller.
type Notifier struct {
	logger *slog.Logger
}

// NewNotifier creates a logging notifier
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

func (n *Notifier) IndexFile(ctx context.Context, file *models.File) {
	n.logger.Debug("index file",
		"id", file.ID,
		"name", file.Name,
		"mime_type", file.MimeType,
	)
}

func (n *Notifier) RemoveFile(ctx context.Context, fileID string) {
	n.logger.Debug("unindex file", "id", fileID)
}

func (n *Notifier) IndexFolder(ctx context.Context, folder *models.Folder) {
	n.logger.Debug("index folder",
		"id", folder.ID,
		"name", folder.Name,
	)
}

func (n *Notifier) RemoveFolder(ctx context.Context, folderID string) {
	n.logger.Debug("unindex folder", "id", folderID)
}

var _ services.SearchIndexer = (*Notifier)(nil)
