package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"cumulus/internal/domain"
	"cumulus/internal/domain/models"
	"cumulus/internal/domain/repositories"
	"cumulus/internal/domain/services"
)

// tokenBytes sizes the random token; 32 bytes gives 256 bits of entropy.
const tokenBytes = 32

type shareLinkService struct {
	shareRepo repositories.ShareLinkRepository
	fileRepo  repositories.FileRepository
	locks     *OwnerLocker
	logger    *slog.Logger
}

// NewShareLinkService creates a new share link service
func NewShareLinkService(
	shareRepo repositories.ShareLinkRepository,
	fileRepo repositories.FileRepository,
	locks *OwnerLocker,
	logger *slog.Logger,
) services.ShareLinkService {
	return &shareLinkService{
		shareRepo: shareRepo,
		fileRepo:  fileRepo,
		locks:     locks,
		logger:    logger,
	}
}

// Issue creates a link for a file the caller owns. It runs under the owner
// lock so a link can never be issued against a file mid-deletion.
func (s *shareLinkService) Issue(ctx context.Context, req *services.IssueShareLinkRequest) (*models.ShareLink, error) {
	if err := s.validateIssueRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	unlock := s.locks.Lock(req.OwnerID)
	defer unlock()

	if _, err := s.fileRepo.GetByID(ctx, req.FileID, req.OwnerID); err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate share token: %w", err)
	}

	link := &models.ShareLink{
		FileID:        req.FileID,
		OwnerID:       req.OwnerID,
		Token:         token,
		ExpiresAt:     req.ExpiresAt,
		IsPublic:      req.IsPublic,
		AllowedEmails: req.AllowedEmails,
		CreatedAt:     time.Now(),
	}

	if err := s.shareRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("share link issued",
		"id", link.ID,
		"file_id", link.FileID,
		"owner_id", link.OwnerID,
		"is_public", link.IsPublic,
		"expires_at", link.ExpiresAt,
	)
	return link, nil
}

// Resolve returns the link behind a token. Expiry is checked lazily here;
// expired links are never purged. Expired and never-issued tokens resolve
// identically so callers cannot probe for a token's existence.
func (s *shareLinkService) Resolve(ctx context.Context, token string) (*models.ShareLink, error) {
	link, err := s.shareRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if link.Expired(time.Now()) {
		return nil, fmt.Errorf("share link: %w", domain.ErrNotFound)
	}
	return link, nil
}

// Revoke removes a link; absent or not-owned is NotFound
func (s *shareLinkService) Revoke(ctx context.Context, ownerID, id string) error {
	if err := s.shareRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("share link revoked", "id", id, "owner_id", ownerID)
	return nil
}

// newToken draws from a cryptographically strong random source. Tokens are
// url-safe so they can ride in a path segment.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *shareLinkService) validateIssueRequest(req *services.IssueShareLinkRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.FileID, validation.Required),
		validation.Field(&req.AllowedEmails, validation.Each(is.EmailFormat)),
	)
}
