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

// FolderRepository is the in-memory FolderRepository implementation
type FolderRepository struct {
	mu       sync.RWMutex
	folders  map[string]models.Folder
	children map[string]map[string]struct{} // (owner, parent) → folder ids
}

// NewFolderRepository creates an empty in-memory folder repository
func NewFolderRepository() *FolderRepository {
	return &FolderRepository{
		folders:  make(map[string]models.Folder),
		children: make(map[string]map[string]struct{}),
	}
}

func (r *FolderRepository) index(ownerID string, parentID *string, id string) {
	key := childKey(ownerID, parentID)
	set, ok := r.children[key]
	if !ok {
		set = make(map[string]struct{})
		r.children[key] = set
	}
	set[id] = struct{}{}
}

func (r *FolderRepository) unindex(ownerID string, parentID *string, id string) {
	key := childKey(ownerID, parentID)
	if set, ok := r.children[key]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(r.children, key)
		}
	}
}

// Create inserts a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	if _, exists := r.folders[folder.ID]; exists {
		return fmt.Errorf("folder %s already exists", folder.ID)
	}

	r.folders[folder.ID] = *folder
	r.index(folder.OwnerID, folder.ParentFolderID, folder.ID)
	return nil
}

// GetByID retrieves a folder scoped to its owner
func (r *FolderRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	folder, ok := r.folders[id]
	if !ok || folder.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	out := folder
	return &out, nil
}

// Update persists name, parent and updated-at changes
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.folders[folder.ID]
	if !ok || current.OwnerID != folder.OwnerID {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	r.unindex(current.OwnerID, current.ParentFolderID, current.ID)
	current.Name = folder.Name
	current.ParentFolderID = folder.ParentFolderID
	current.UpdatedAt = folder.UpdatedAt
	r.folders[current.ID] = current
	r.index(current.OwnerID, current.ParentFolderID, current.ID)
	return nil
}

// Delete removes a folder record
func (r *FolderRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.folders[id]
	if !ok || folder.OwnerID != ownerID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	delete(r.folders, id)
	r.unindex(folder.OwnerID, folder.ParentFolderID, id)
	return nil
}

// ListChildren lists immediate child folders (nil = root level)
func (r *FolderRepository) ListChildren(ctx context.Context, ownerID string, parentID *string, opts repositories.ListOptions) ([]models.Folder, error) {
	opts = opts.Normalize()

	r.mu.RLock()
	var folders []models.Folder
	for id := range r.children[childKey(ownerID, parentID)] {
		folders = append(folders, r.folders[id])
	}
	r.mu.RUnlock()

	sortFolders(folders, opts)
	lo, hi := pageBounds(len(folders), opts)
	return folders[lo:hi], nil
}

var _ repositories.FolderRepository = (*FolderRepository)(nil)
