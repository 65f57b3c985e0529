package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"cumulus/internal/domain"
	"cumulus/internal/domain/models"
	"cumulus/internal/domain/repositories"
	"cumulus/internal/domain/services"
	"cumulus/internal/repository/memory"
	"cumulus/internal/storage"
)

// ============================================================================
// TEST FIXTURES - shared across the service test files
// ============================================================================

// mapBackend is an in-memory storage backend for tests
type mapBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMapBackend() *mapBackend {
	return &mapBackend{objects: make(map[string][]byte)}
}

func (b *mapBackend) Put(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = append([]byte(nil), data...)
	return nil
}

func (b *mapBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (b *mapBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *mapBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

// failingBackend refuses every operation
type failingBackend struct{}

func (failingBackend) Put(ctx context.Context, key string, data []byte) error {
	return fmt.Errorf("put %s: %w", key, domain.ErrBackendUnavailable)
}

func (failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("get %s: %w", key, domain.ErrBackendUnavailable)
}

func (failingBackend) Delete(ctx context.Context, key string) error {
	return fmt.Errorf("delete %s: %w", key, domain.ErrBackendUnavailable)
}

// recordingIndexer records notifications for assertions
type recordingIndexer struct {
	mu             sync.Mutex
	removedFiles   []string
	removedFolders []string
}

func (i *recordingIndexer) IndexFile(ctx context.Context, file *models.File)       {}
func (i *recordingIndexer) IndexFolder(ctx context.Context, folder *models.Folder) {}

func (i *recordingIndexer) RemoveFile(ctx context.Context, fileID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.removedFiles = append(i.removedFiles, fileID)
}

func (i *recordingIndexer) RemoveFolder(ctx context.Context, folderID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.removedFolders = append(i.removedFolders, folderID)
}

// env wires the full service stack over in-memory repositories
type env struct {
	fileRepo  *memory.FileRepository
	quotaRepo *memory.QuotaRepository
	backend   *mapBackend
	indexer   *recordingIndexer

	tracker services.QuotaTracker
	files   services.FileService
	folders services.FolderService
	shares  services.ShareLinkService
}

func newEnv(t *testing.T, quotaBytes int64) *env {
	t.Helper()
	return buildEnv(t, quotaBytes, nil, nil)
}

// newEnvWithBackend substitutes the storage backend
func newEnvWithBackend(t *testing.T, quotaBytes int64, override storage.Backend) *env {
	t.Helper()
	return buildEnv(t, quotaBytes, override, nil)
}

// newEnvWithFolderRepo wraps the folder repository, e.g. to inject faults
// or record call order
func newEnvWithFolderRepo(t *testing.T, quotaBytes int64, wrap func(repositories.FolderRepository) repositories.FolderRepository) *env {
	t.Helper()
	return buildEnv(t, quotaBytes, nil, wrap)
}

func buildEnv(t *testing.T, quotaBytes int64, backendOverride storage.Backend, wrapFolders func(repositories.FolderRepository) repositories.FolderRepository) *env {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fileRepo := memory.NewFileRepository()
	shareRepo := memory.NewShareLinkRepository()
	quotaRepo := memory.NewQuotaRepository()
	txManager := memory.NewTransactionManager()

	var folderRepo repositories.FolderRepository = memory.NewFolderRepository()
	if wrapFolders != nil {
		folderRepo = wrapFolders(folderRepo)
	}

	mapb := newMapBackend()
	var backend storage.Backend = mapb
	if backendOverride != nil {
		backend = backendOverride
	}

	indexer := &recordingIndexer{}
	locks := NewOwnerLocker()
	tracker := NewQuotaTracker(quotaRepo, quotaBytes, logger)

	return &env{
		fileRepo:  fileRepo,
		quotaRepo: quotaRepo,
		backend:   mapb,
		indexer:   indexer,
		tracker:   tracker,
		files:     NewFileService(fileRepo, folderRepo, shareRepo, tracker, backend, indexer, locks, txManager, logger),
		folders:   NewFolderService(folderRepo, fileRepo, shareRepo, tracker, backend, indexer, locks, txManager, logger),
		shares:    NewShareLinkService(shareRepo, fileRepo, locks, logger),
	}
}

// upload is a shorthand for storing n bytes as a root-level file
func (e *env) upload(t *testing.T, owner, name string, n int) *models.File {
	t.Helper()
	file, err := e.files.Upload(context.Background(), &services.UploadFileRequest{
		OwnerID:  owner,
		Name:     name,
		MimeType: "application/octet-stream",
		Data:     make([]byte, n),
	})
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}
	return file
}

// mkdir is a shorthand for creating a folder
func (e *env) mkdir(t *testing.T, owner, name string, parentID *string) *models.Folder {
	t.Helper()
	folder, err := e.folders.Create(context.Background(), &services.CreateFolderRequest{
		OwnerID:        owner,
		Name:           name,
		ParentFolderID: parentID,
	})
	if err != nil {
		t.Fatalf("create folder %s: %v", name, err)
	}
	return folder
}

// outageFolderRepo fails GetByID for one folder id, simulating a transient
// store fault on that row; everything else passes through
type outageFolderRepo struct {
	repositories.FolderRepository
	failID string
	err    error
}

func (r *outageFolderRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	if id == r.failID {
		return nil, r.err
	}
	return r.FolderRepository.GetByID(ctx, id, ownerID)
}

// deleteOrderFolderRepo records the order folder deletes arrive in
type deleteOrderFolderRepo struct {
	repositories.FolderRepository
	mu      sync.Mutex
	deleted []string
}

func (r *deleteOrderFolderRepo) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	r.deleted = append(r.deleted, id)
	r.mu.Unlock()
	return r.FolderRepository.Delete(ctx, id, ownerID)
}

// listAll is the unpaged, default-ordered listing
func listAll() repositories.ListOptions {
	return repositories.ListOptions{}
}

func (e *env) usedBytes(t *testing.T, owner string) int64 {
	t.Helper()
	usage, err := e.tracker.Usage(context.Background(), owner)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	return usage.UsedBytes
}
