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

var fileSortColumns = map[string]string{
	repositories.SortByName:      "name",
	repositories.SortBySize:      "size_bytes",
	repositories.SortByCreatedAt: "created_at",
	repositories.SortByUpdatedAt: "updated_at",
}

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, name, size_bytes, mime_type, storage_key, parent_folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Files)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		file.ID,
		file.OwnerID,
		file.Name,
		file.SizeBytes,
		file.MimeType,
		file.StorageKey,
		file.ParentFolderID,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

// GetByID retrieves a file scoped to its owner
func (r *PostgresFileRepository) GetByID(ctx context.Context, id, ownerID string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, name, size_bytes, mime_type, storage_key, parent_folder_id, created_at, updated_at
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Files)

	var file models.File
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID).Scan(
		&file.ID,
		&file.OwnerID,
		&file.Name,
		&file.SizeBytes,
		&file.MimeType,
		&file.StorageKey,
		&file.ParentFolderID,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return &file, nil
}

// Update persists name, parent and updated-at changes.
// OwnerID, StorageKey and SizeBytes are immutable and never written here.
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_folder_id = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		file.Name,
		file.ParentFolderID,
		file.UpdatedAt,
		file.ID,
		file.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a file record
func (r *PostgresFileRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByFolder lists files directly inside a folder (nil = root level)
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, ownerID string, folderID *string, opts repositories.ListOptions) ([]models.File, error) {
	opts = opts.Normalize()

	var where string
	args := []interface{}{ownerID}
	if folderID == nil {
		where = "owner_id = $1 AND parent_folder_id IS NULL"
	} else {
		where = "owner_id = $1 AND parent_folder_id = $2"
		args = append(args, *folderID)
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, name, size_bytes, mime_type, storage_key, parent_folder_id, created_at, updated_at
		FROM %s
		WHERE %s
		%s %s
	`, r.tables.Files, where, orderClause(opts, fileSortColumns), limitClause(opts))

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.OwnerID,
			&file.Name,
			&file.SizeBytes,
			&file.MimeType,
			&file.StorageKey,
			&file.ParentFolderID,
			&file.CreatedAt,
			&file.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}
