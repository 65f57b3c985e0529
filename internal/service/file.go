package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cumulus/internal/config"
	"cumulus/internal/domain"
	"cumulus/internal/domain/models"
	"cumulus/internal/domain/repositories"
	"cumulus/internal/domain/services"
	"cumulus/internal/storage"
)

var nameNoSlash = regexp.MustCompile(`^[^/]+$`)

type fileService struct {
	fileRepo   repositories.FileRepository
	folderRepo repositories.FolderRepository
	shareRepo  repositories.ShareLinkRepository
	quota      services.QuotaTracker
	backend    storage.Backend
	indexer    services.SearchIndexer
	locks      *OwnerLocker
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	folderRepo repositories.FolderRepository,
	shareRepo repositories.ShareLinkRepository,
	quota services.QuotaTracker,
	backend storage.Backend,
	indexer services.SearchIndexer,
	locks *OwnerLocker,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		shareRepo:  shareRepo,
		quota:      quota,
		backend:    backend,
		indexer:    indexer,
		locks:      locks,
		txManager:  txManager,
		logger:     logger,
	}
}

// Upload stores the payload, then creates metadata and commits quota.
//
// Backend I/O dominates latency, so it happens outside the owner lock: a
// preliminary quota check fails fast, the payload is stored, and only then
// is the lock taken to re-check quota, insert metadata and commit. The
// re-check closes the check/act race: of two concurrent uploads that both
// passed the preliminary check, exactly one commits; the loser's stored
// object is removed again. A failed put leaves quota and namespace
// untouched.
func (s *fileService) Upload(ctx context.Context, req *services.UploadFileRequest) (*models.File, error) {
	if err := s.validateUploadRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level files
	if req.ParentFolderID != nil && *req.ParentFolderID == "" {
		req.ParentFolderID = nil
	}

	// If a parent folder is specified, verify it exists and is owned
	if req.ParentFolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentFolderID, req.OwnerID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	size := int64(len(req.Data))

	// Fail fast before paying for backend I/O
	if _, err := s.quota.Check(ctx, req.OwnerID, size); err != nil {
		return nil, err
	}

	key := storage.NewKey(req.OwnerID)
	if err := s.backend.Put(ctx, key, req.Data); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.OwnerID)
	defer unlock()

	// Re-check under the lock: a concurrent upload may have won the budget
	if _, err := s.quota.Check(ctx, req.OwnerID, size); err != nil {
		s.discard(ctx, key)
		return nil, err
	}

	now := time.Now()
	file := &models.File{
		OwnerID:        req.OwnerID,
		Name:           req.Name,
		SizeBytes:      size,
		MimeType:       req.MimeType,
		StorageKey:     key,
		ParentFolderID: req.ParentFolderID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.fileRepo.Create(ctx, file); err != nil {
			return err
		}
		return s.quota.Commit(ctx, req.OwnerID, size)
	})
	if err != nil {
		s.discard(ctx, key)
		return nil, err
	}

	s.indexer.IndexFile(ctx, file)

	s.logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"owner_id", file.OwnerID,
		"size_bytes", file.SizeBytes,
	)
	return file, nil
}

// Get retrieves file metadata
func (s *fileService) Get(ctx context.Context, ownerID, id string) (*models.File, error) {
	return s.fileRepo.GetByID(ctx, id, ownerID)
}

// Download retrieves metadata plus the stored payload
func (s *fileService) Download(ctx context.Context, ownerID, id string) (*models.File, []byte, error) {
	file, err := s.fileRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.backend.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return file, data, nil
}

// Update renames and/or moves a file
func (s *fileService) Update(ctx context.Context, id string, req *services.UpdateFileRequest) (*models.File, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	unlock := s.locks.Lock(req.OwnerID)
	defer unlock()

	file, err := s.fileRepo.GetByID(ctx, id, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		file.Name = strings.TrimSpace(*req.Name)
	}

	// Tri-state: only touch the parent when the field was present
	if req.ParentFolderID.Present {
		if req.ParentFolderID.Value != nil {
			parent, err := s.folderRepo.GetByID(ctx, *req.ParentFolderID.Value, req.OwnerID)
			if err != nil {
				// Only an absent target is a hierarchy violation;
				// store failures propagate as themselves
				if errors.Is(err, domain.ErrNotFound) {
					return nil, fmt.Errorf("parent folder %s: %w", *req.ParentFolderID.Value, domain.ErrInvalidHierarchy)
				}
				return nil, err
			}
			file.ParentFolderID = &parent.ID
		} else {
			// null = move to root
			file.ParentFolderID = nil
		}
	}

	file.UpdatedAt = time.Now()
	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}

	s.indexer.IndexFile(ctx, file)

	s.logger.Info("file updated",
		"id", file.ID,
		"name", file.Name,
		"parent_folder_id", file.ParentFolderID,
	)
	return file, nil
}

// Delete removes the file record, its share links and its quota charge
// atomically, then deletes the stored payload best-effort. The metadata
// record is authoritative: an unreachable backend leaves an orphaned
// object for later reconciliation, never a half-deleted file.
func (s *fileService) Delete(ctx context.Context, ownerID, id string) error {
	unlock := s.locks.Lock(ownerID)
	defer unlock()

	file, err := s.fileRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.shareRepo.DeleteByFile(ctx, file.ID); err != nil {
			return err
		}
		if err := s.fileRepo.Delete(ctx, file.ID, ownerID); err != nil {
			return err
		}
		return s.quota.Commit(ctx, ownerID, -file.SizeBytes)
	})
	if err != nil {
		return err
	}

	s.discard(ctx, file.StorageKey)
	s.indexer.RemoveFile(ctx, file.ID)

	s.logger.Info("file deleted",
		"id", file.ID,
		"name", file.Name,
		"owner_id", ownerID,
		"size_bytes", file.SizeBytes,
	)
	return nil
}

// List lists files directly inside a folder (nil = root level)
func (s *fileService) List(ctx context.Context, ownerID string, folderID *string, opts repositories.ListOptions) ([]models.File, error) {
	return s.fileRepo.ListByFolder(ctx, ownerID, folderID, opts)
}

// discard deletes a stored object best-effort, logging the orphan when the
// backend is unreachable.
func (s *fileService) discard(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Warn("orphaned storage object", "key", key, "error", err)
	}
}

func (s *fileService) validateUploadRequest(req *services.UploadFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
			validation.Match(nameNoSlash).Error("file name cannot contain slashes"),
		),
		validation.Field(&req.Data,
			validation.Length(0, config.MaxUploadSizeBytes).Error("payload exceeds maximum upload size"),
		),
	)
}

func (s *fileService) validateUpdateRequest(req *services.UpdateFileRequest) error {
	if req.Name == nil && !req.ParentFolderID.Present {
		return fmt.Errorf("at least one field must be provided")
	}

	rules := []*validation.FieldRules{
		validation.Field(&req.OwnerID, validation.Required),
	}
	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFileNameLength),
				validation.Match(nameNoSlash).Error("file name cannot contain slashes"),
			),
		)
	}
	return validation.ValidateStruct(req, rules...)
}
