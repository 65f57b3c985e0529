package service

import (
	"context"
	"fmt"
	"log/slog"

	"cumulus/internal/domain"
	"cumulus/internal/domain/models"
	"cumulus/internal/domain/repositories"
	"cumulus/internal/domain/services"
)

type quotaTracker struct {
	repo       repositories.QuotaRepository
	totalBytes int64
	logger     *slog.Logger
}

// NewQuotaTracker creates a quota tracker with a fixed per-account budget.
// Check is a lock-free read; callers racing a mutation must re-check under
// the owner lock before committing.
func NewQuotaTracker(repo repositories.QuotaRepository, totalBytes int64, logger *slog.Logger) services.QuotaTracker {
	return &quotaTracker{
		repo:       repo,
		totalBytes: totalBytes,
		logger:     logger,
	}
}

// Check returns the owner's usage, failing when incomingBytes would
// overshoot the budget. An upload exactly filling the budget passes.
func (t *quotaTracker) Check(ctx context.Context, ownerID string, incomingBytes int64) (*models.Usage, error) {
	used, err := t.repo.UsedBytes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("read quota: %w", err)
	}

	usage := models.NewUsage(used, t.totalBytes)
	if used+incomingBytes > t.totalBytes {
		return usage, fmt.Errorf("owner %s: %d + %d over %d bytes: %w",
			ownerID, used, incomingBytes, t.totalBytes, domain.ErrQuotaExceeded)
	}
	return usage, nil
}

// Commit adjusts usedBytes by delta, clamped to a floor of zero
func (t *quotaTracker) Commit(ctx context.Context, ownerID string, delta int64) error {
	used, err := t.repo.Add(ctx, ownerID, delta)
	if err != nil {
		return fmt.Errorf("commit quota: %w", err)
	}

	t.logger.Debug("quota committed",
		"owner_id", ownerID,
		"delta", delta,
		"used_bytes", used,
	)
	return nil
}

// Usage returns the owner's current usage snapshot
func (t *quotaTracker) Usage(ctx context.Context, ownerID string) (*models.Usage, error) {
	used, err := t.repo.UsedBytes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("read quota: %w", err)
	}
	return models.NewUsage(used, t.totalBytes), nil
}
