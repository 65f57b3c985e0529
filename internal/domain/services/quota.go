package services

import (
	"context"

	"cumulus/internal/domain/models"
)

// QuotaTracker accounts per-owner stored bytes against a fixed budget.
// Check and Commit form a check/act pair: callers that mutate storage must
// re-check under the owner's critical section before committing.
type QuotaTracker interface {
	// Check returns the owner's usage and fails with ErrQuotaExceeded when
	// usedBytes + incomingBytes would overshoot the budget. The caller must
	// treat that as a hard stop.
	Check(ctx context.Context, ownerID string, incomingBytes int64) (*models.Usage, error)

	// Commit adjusts usedBytes by delta (positive for new storage,
	// negative for freed storage), clamped to a floor of zero.
	Commit(ctx context.Context, ownerID string, delta int64) error

	// Usage returns the owner's current usage snapshot
	Usage(ctx context.Context, ownerID string) (*models.Usage, error)
}
