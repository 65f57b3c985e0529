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

// FileRepository is the in-memory FileRepository implementation
type FileRepository struct {
	mu       sync.RWMutex
	files    map[string]models.File
	children map[string]map[string]struct{} // (owner, parent) → file ids
}

// NewFileRepository creates an empty in-memory file repository
func NewFileRepository() *FileRepository {
	return &FileRepository{
		files:    make(map[string]models.File),
		children: make(map[string]map[string]struct{}),
	}
}

func (r *FileRepository) index(ownerID string, parentID *string, id string) {
	key := childKey(ownerID, parentID)
	set, ok := r.children[key]
	if !ok {
		set = make(map[string]struct{})
		r.children[key] = set
	}
	set[id] = struct{}{}
}

func (r *FileRepository) unindex(ownerID string, parentID *string, id string) {
	key := childKey(ownerID, parentID)
	if set, ok := r.children[key]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(r.children, key)
		}
	}
}

// Create inserts a new file record
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	if _, exists := r.files[file.ID]; exists {
		return fmt.Errorf("file %s already exists", file.ID)
	}

	r.files[file.ID] = *file
	r.index(file.OwnerID, file.ParentFolderID, file.ID)
	return nil
}

// GetByID retrieves a file scoped to its owner
func (r *FileRepository) GetByID(ctx context.Context, id, ownerID string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file, ok := r.files[id]
	if !ok || file.OwnerID != ownerID {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	out := file
	return &out, nil
}

// Update persists name, parent and updated-at changes
func (r *FileRepository) Update(ctx context.Context, file *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.files[file.ID]
	if !ok || current.OwnerID != file.OwnerID {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}

	r.unindex(current.OwnerID, current.ParentFolderID, current.ID)
	current.Name = file.Name
	current.ParentFolderID = file.ParentFolderID
	current.UpdatedAt = file.UpdatedAt
	r.files[current.ID] = current
	r.index(current.OwnerID, current.ParentFolderID, current.ID)
	return nil
}

// Delete removes a file record
func (r *FileRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok || file.OwnerID != ownerID {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	delete(r.files, id)
	r.unindex(file.OwnerID, file.ParentFolderID, id)
	return nil
}

// ListByFolder lists files directly inside a folder (nil = root level)
func (r *FileRepository) ListByFolder(ctx context.Context, ownerID string, folderID *string, opts repositories.ListOptions) ([]models.File, error) {
	opts = opts.Normalize()

	r.mu.RLock()
	var files []models.File
	for id := range r.children[childKey(ownerID, folderID)] {
		files = append(files, r.files[id])
	}
	r.mu.RUnlock()

	sortFiles(files, opts)
	lo, hi := pageBounds(len(files), opts)
	return files[lo:hi], nil
}

var _ repositories.FileRepository = (*FileRepository)(nil)
