package memory

import (
	"context"
	"sync"

	"cumulus/internal/domain/repositories"
)

// QuotaRepository is the in-memory QuotaRepository implementation
type QuotaRepository struct {
	mu   sync.Mutex
	used map[string]int64
}

// NewQuotaRepository creates an empty in-memory quota repository
func NewQuotaRepository() *QuotaRepository {
	return &QuotaRepository{used: make(map[string]int64)}
}

// UsedBytes returns the owner's counter; unknown owners read as zero
func (r *QuotaRepository) UsedBytes(ctx context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used[ownerID], nil
}

// Add adjusts the counter by delta, clamped to a floor of zero
func (r *QuotaRepository) Add(ctx context.Context, ownerID string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.used[ownerID] + delta
	if next < 0 {
		next = 0
	}
	r.used[ownerID] = next
	return next, nil
}

var _ repositories.QuotaRepository = (*QuotaRepository)(nil)
