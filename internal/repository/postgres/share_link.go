package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cumulus/internal/domain"
	"cumulus/internal/domain/models"
	"cumulus/internal/domain/repositories"
)

// PostgresShareLinkRepository implements the ShareLinkRepository interface
type PostgresShareLinkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewShareLinkRepository creates a new share link repository
func NewShareLinkRepository(config *RepositoryConfig) repositories.ShareLinkRepository {
	return &PostgresShareLinkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new share link. The token column carries a unique
// constraint; a collision of two 256-bit random tokens is not a case worth
// retrying.
func (r *PostgresShareLinkRepository) Create(ctx context.Context, link *models.ShareLink) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, file_id, owner_id, token, expires_at, is_public, allowed_emails, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.ShareLinks)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		link.ID,
		link.FileID,
		link.OwnerID,
		link.Token,
		link.ExpiresAt,
		link.IsPublic,
		link.AllowedEmails,
		link.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("share link token collision: %w", err)
		}
		return fmt.Errorf("create share link: %w", err)
	}
	return nil
}

// GetByToken retrieves a link by its token, expired or not
func (r *PostgresShareLinkRepository) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	query := fmt.Sprintf(`
		SELECT id, file_id, owner_id, token, expires_at, is_public, allowed_emails, created_at
		FROM %s
		WHERE token = $1
	`, r.tables.ShareLinks)

	var link models.ShareLink
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, token).Scan(
		&link.ID,
		&link.FileID,
		&link.OwnerID,
		&link.Token,
		&link.ExpiresAt,
		&link.IsPublic,
		&link.AllowedEmails,
		&link.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("share link: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get share link: %w", err)
	}
	return &link, nil
}

// Delete removes a link scoped to its owner
func (r *PostgresShareLinkRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.ShareLinks)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete share link: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("share link %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteByFile removes every link bound to a file. Zero rows is fine: most
// files never get shared.
func (r *PostgresShareLinkRepository) DeleteByFile(ctx context.Context, fileID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE file_id = $1
	`, r.tables.ShareLinks)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query, fileID)
	if err != nil {
		return fmt.Errorf("delete share links for file: %w", err)
	}
	return nil
}
