package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cumulus/internal/domain/repositories"
)

// PostgresQuotaRepository implements the QuotaRepository interface
type PostgresQuotaRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewQuotaRepository creates a new quota repository
func NewQuotaRepository(config *RepositoryConfig) repositories.QuotaRepository {
	return &PostgresQuotaRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// UsedBytes returns the owner's counter; owners never written read as zero
func (r *PostgresQuotaRepository) UsedBytes(ctx context.Context, ownerID string) (int64, error) {
	query := fmt.Sprintf(`
		SELECT used_bytes
		FROM %s
		WHERE owner_id = $1
	`, r.tables.Quota)

	var used int64
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, ownerID).Scan(&used)
	if err != nil {
		if isPgNoRowsError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get used bytes: %w", err)
	}
	return used, nil
}

// Add adjusts the counter by delta, clamped at zero, via an atomic upsert
func (r *PostgresQuotaRepository) Add(ctx context.Context, ownerID string, delta int64) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, used_bytes)
		VALUES ($1, GREATEST(0, $2::bigint))
		ON CONFLICT (owner_id)
		DO UPDATE SET used_bytes = GREATEST(0, %s.used_bytes + $2)
		RETURNING used_bytes
	`, r.tables.Quota, r.tables.Quota)

	var used int64
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, ownerID, delta).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("adjust used bytes: %w", err)
	}
	return used, nil
}
