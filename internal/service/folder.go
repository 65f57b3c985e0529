package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
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

type folderService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	shareRepo  repositories.ShareLinkRepository
	quota      services.QuotaTracker
	backend    storage.Backend
	indexer    services.SearchIndexer
	locks      *OwnerLocker
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	shareRepo repositories.ShareLinkRepository,
	quota services.QuotaTracker,
	backend storage.Backend,
	indexer services.SearchIndexer,
	locks *OwnerLocker,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		shareRepo:  shareRepo,
		quota:      quota,
		backend:    backend,
		indexer:    indexer,
		locks:      locks,
		txManager:  txManager,
		logger:     logger,
	}
}

// Create creates a new folder
func (s *folderService) Create(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level folders
	if req.ParentFolderID != nil && *req.ParentFolderID == "" {
		req.ParentFolderID = nil
	}

	unlock := s.locks.Lock(req.OwnerID)
	defer unlock()

	// A specified parent must exist and be owned by the caller
	if req.ParentFolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentFolderID, req.OwnerID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	now := time.Now()
	folder := &models.Folder{
		OwnerID:        req.OwnerID,
		Name:           req.Name,
		ParentFolderID: req.ParentFolderID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.indexer.IndexFolder(ctx, folder)

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", req.OwnerID,
		"parent_folder_id", req.ParentFolderID,
	)
	return folder, nil
}

// Get retrieves a folder
func (s *folderService) Get(ctx context.Context, ownerID, id string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id, ownerID)
}

// Update renames and/or moves a folder
func (s *folderService) Update(ctx context.Context, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	unlock := s.locks.Lock(req.OwnerID)
	defer unlock()

	folder, err := s.folderRepo.GetByID(ctx, id, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
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
			if err := s.checkNoCycle(ctx, id, parent, req.OwnerID); err != nil {
				return nil, err
			}
			folder.ParentFolderID = &parent.ID
		} else {
			// null = move to root
			folder.ParentFolderID = nil
		}
	}

	folder.UpdatedAt = time.Now()
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.indexer.IndexFolder(ctx, folder)

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_folder_id", folder.ParentFolderID,
	)
	return folder, nil
}

// checkNoCycle rejects a move that would make a folder its own ancestor.
// It walks from the proposed parent up to the root; the moved folder
// appearing anywhere on that path means the move closes a cycle. The walk
// is bounded by tree depth, which the forest invariant keeps finite.
func (s *folderService) checkNoCycle(ctx context.Context, folderID string, newParent *models.Folder, ownerID string) error {
	current := newParent
	for {
		if current.ID == folderID {
			return fmt.Errorf("folder cannot become its own descendant: %w", domain.ErrInvalidHierarchy)
		}
		if current.ParentFolderID == nil {
			return nil
		}
		next, err := s.folderRepo.GetByID(ctx, *current.ParentFolderID, ownerID)
		if err != nil {
			return err
		}
		current = next
	}
}

// Delete removes the folder and its entire closure: every descendant
// folder, every file inside any of them, those files' share links and
// quota charges. The closure is collected iteratively with an explicit
// queue so deep hierarchies cannot exhaust the stack, and the whole
// cascade runs under the owner lock so no concurrent move can slip an
// entry into the subtree mid-deletion. Stored payloads are deleted
// best-effort after the metadata transaction commits.
func (s *folderService) Delete(ctx context.Context, ownerID, id string) error {
	unlock := s.locks.Lock(ownerID)
	defer unlock()

	folder, err := s.folderRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	// Breadth-first closure, the folder itself included
	closure := []string{folder.ID}
	for queue := []string{folder.ID}; len(queue) > 0; {
		current := queue[0]
		queue = queue[1:]

		children, err := s.folderRepo.ListChildren(ctx, ownerID, &current, repositories.ListOptions{})
		if err != nil {
			return err
		}
		for _, child := range children {
			closure = append(closure, child.ID)
			queue = append(queue, child.ID)
		}
	}

	var (
		freedBytes   int64
		orphanKeys   []string
		deletedFiles []string
	)
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		for _, folderID := range closure {
			fid := folderID
			files, err := s.fileRepo.ListByFolder(ctx, ownerID, &fid, repositories.ListOptions{})
			if err != nil {
				return err
			}
			for _, file := range files {
				if err := s.shareRepo.DeleteByFile(ctx, file.ID); err != nil {
					return err
				}
				if err := s.fileRepo.Delete(ctx, file.ID, ownerID); err != nil {
					return err
				}
				freedBytes += file.SizeBytes
				orphanKeys = append(orphanKeys, file.StorageKey)
				deletedFiles = append(deletedFiles, file.ID)
			}
		}
		// Leaves first: the folders table carries a self-referential
		// foreign key on parent_folder_id, so a parent row cannot go
		// while child rows still reference it. The closure is in BFS
		// order (parents before children); walk it backwards.
		for i := len(closure) - 1; i >= 0; i-- {
			if err := s.folderRepo.Delete(ctx, closure[i], ownerID); err != nil {
				return err
			}
		}
		if freedBytes > 0 {
			return s.quota.Commit(ctx, ownerID, -freedBytes)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Metadata is authoritative; unreachable payloads become orphans
	for _, key := range orphanKeys {
		if err := s.backend.Delete(ctx, key); err != nil {
			s.logger.Warn("orphaned storage object", "key", key, "error", err)
		}
	}
	for _, fileID := range deletedFiles {
		s.indexer.RemoveFile(ctx, fileID)
	}
	for _, folderID := range closure {
		s.indexer.RemoveFolder(ctx, folderID)
	}

	s.logger.Info("folder deleted",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", ownerID,
		"folders_removed", len(closure),
		"files_removed", len(deletedFiles),
		"freed_bytes", freedBytes,
	)
	return nil
}

// ListContents lists a folder's direct children (nil = root level)
func (s *folderService) ListContents(ctx context.Context, ownerID string, folderID *string, opts repositories.ListOptions) (*services.FolderContents, error) {
	var folder *models.Folder

	if folderID != nil && *folderID == "" {
		folderID = nil
	}
	if folderID != nil {
		var err error
		folder, err = s.folderRepo.GetByID(ctx, *folderID, ownerID)
		if err != nil {
			return nil, err
		}
	}

	folders, err := s.folderRepo.ListChildren(ctx, ownerID, folderID, opts)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}

	files, err := s.fileRepo.ListByFolder(ctx, ownerID, folderID, opts)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return &services.FolderContents{
		Folder:  folder,
		Folders: folders,
		Files:   files,
	}, nil
}

func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(nameNoSlash).Error("folder name cannot contain slashes"),
		),
	)
}

func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
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
				validation.Length(1, config.MaxFolderNameLength),
				validation.Match(nameNoSlash).Error("folder name cannot contain slashes"),
			),
		)
	}
	return validation.ValidateStruct(req, rules...)
}
