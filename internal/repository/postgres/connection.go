package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"cumulus/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Files      string
	Folders    string
	ShareLinks string
	Quota      string
}

// NewTableNames creates table names with the given prefix.
// The prefix separates dev/test/prod data inside one database; interpolating
// it with fmt.Sprintf is safe because it never contains user input.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Files:      fmt.Sprintf("%sfiles", prefix),
		Folders:    fmt.Sprintf("%sfolders", prefix),
		ShareLinks: fmt.Sprintf("%sshare_links", prefix),
		Quota:      fmt.Sprintf("%squota_usage", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool and verifies it with a
// ping before returning.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction from the context when one is present,
// otherwise the pool. Repositories thereby participate in transactions
// automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
