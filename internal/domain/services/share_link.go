package services

import (
	"context"
	"time"

	"cumulus/internal/domain/models"
)

// IssueShareLinkRequest issues a share link for one file
type IssueShareLinkRequest struct {
	OwnerID       string
	FileID        string
	ExpiresAt     *time.Time // nil = never expires
	IsPublic      bool
	AllowedEmails []string
}

// ShareLinkService issues, resolves and revokes per-file access tokens
type ShareLinkService interface {
	// Issue creates a link with an unguessable token
	Issue(ctx context.Context, req *IssueShareLinkRequest) (*models.ShareLink, error)

	// Resolve returns the link behind a token. Expired and never-issued
	// tokens both come back NotFound, deliberately indistinguishable.
	Resolve(ctx context.Context, token string) (*models.ShareLink, error)

	// Revoke removes a link; absent or not-owned is NotFound
	Revoke(ctx context.Context, ownerID, id string) error
}
