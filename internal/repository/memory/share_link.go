package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"cumulus/internal/domain"
	"cumulus/internal/domain/models"
	"cumulus/internal/domain/repositories"
)

// ShareLinkRepository is the in-memory ShareLinkRepository implementation
type ShareLinkRepository struct {
	mu      sync.RWMutex
	links   map[string]models.ShareLink
	byToken map[string]string              // token → link id
	byFile  map[string]map[string]struct{} // file id → link ids
}

// NewShareLinkRepository creates an empty in-memory share link repository
func NewShareLinkRepository() *ShareLinkRepository {
	return &ShareLinkRepository{
		links:   make(map[string]models.ShareLink),
		byToken: make(map[string]string),
		byFile:  make(map[string]map[string]struct{}),
	}
}

// Create inserts a new share link, enforcing token uniqueness
func (r *ShareLinkRepository) Create(ctx context.Context, link *models.ShareLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if _, exists := r.byToken[link.Token]; exists {
		return fmt.Errorf("share link token collision")
	}

	r.links[link.ID] = *link
	r.byToken[link.Token] = link.ID
	set, ok := r.byFile[link.FileID]
	if !ok {
		set = make(map[string]struct{})
		r.byFile[link.FileID] = set
	}
	set[link.ID] = struct{}{}
	return nil
}

// GetByToken retrieves a link by its token, expired or not
func (r *ShareLinkRepository) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return nil, fmt.Errorf("share link: %w", domain.ErrNotFound)
	}
	link := r.links[id]
	out := link
	return &out, nil
}

// Delete removes a link scoped to its owner
func (r *ShareLinkRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[id]
	if !ok || link.OwnerID != ownerID {
		return fmt.Errorf("share link %s: %w", id, domain.ErrNotFound)
	}

	r.remove(link)
	return nil
}

// DeleteByFile removes every link bound to a file
func (r *ShareLinkRepository) DeleteByFile(ctx context.Context, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.byFile[fileID] {
		r.remove(r.links[id])
	}
	return nil
}

// remove must be called with the write lock held
func (r *ShareLinkRepository) remove(link models.ShareLink) {
	delete(r.links, link.ID)
	delete(r.byToken, link.Token)
	if set, ok := r.byFile[link.FileID]; ok {
		delete(set, link.ID)
		if len(set) == 0 {
			delete(r.byFile, link.FileID)
		}
	}
}

var _ repositories.ShareLinkRepository = (*ShareLinkRepository)(nil)
