package repositories

import "context"

// QuotaRepository persists per-owner used-byte counters. Only usedBytes is
// stored; the total budget is a fixed per-account constant held by the
// quota tracker.
type QuotaRepository interface {
	// UsedBytes returns the owner's current counter (zero if never written)
	UsedBytes(ctx context.Context, ownerID string) (int64, error)

	// Add adjusts the counter by delta, clamped to a floor of zero, and
	// returns the resulting value. The clamp tolerates accounting drift
	// from partial failures.
	Add(ctx context.Context, ownerID string, delta int64) (int64, error)
}
