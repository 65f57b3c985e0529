package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"cumulus/internal/domain"
	"cumulus/internal/domain/repositories"
	"cumulus/internal/domain/services"
	"cumulus/internal/httputil"
)

func TestFileService_UploadDownloadRoundtrip(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	payload := []byte("hello, cumulus")
	file, err := e.files.Upload(ctx, &services.UploadFileRequest{
		OwnerID:  "alice",
		Name:     "greeting.txt",
		MimeType: "text/plain",
		Data:     payload,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if file.ID == "" {
		t.Error("uploaded file has no ID")
	}
	if file.SizeBytes != int64(len(payload)) {
		t.Errorf("SizeBytes = %d, want %d", file.SizeBytes, len(payload))
	}

	got, data, err := e.files.Download(ctx, "alice", file.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got.Name != "greeting.txt" {
		t.Errorf("Name = %q, want %q", got.Name, "greeting.txt")
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("payload = %q, want %q", data, payload)
	}
}

func TestFileService_UploadValidation(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *services.UploadFileRequest
	}{
		{
			name: "empty name",
			req:  &services.UploadFileRequest{OwnerID: "alice", Name: "", Data: []byte("x")},
		},
		{
			name: "name with slash",
			req:  &services.UploadFileRequest{OwnerID: "alice", Name: "a/b.txt", Data: []byte("x")},
		},
		{
			name: "missing owner",
			req:  &services.UploadFileRequest{Name: "a.txt", Data: []byte("x")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.files.Upload(ctx, tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Upload error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestFileService_UploadIntoMissingFolder(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	missing := "no-such-folder"
	_, err := e.files.Upload(ctx, &services.UploadFileRequest{
		OwnerID:        "alice",
		Name:           "a.txt",
		ParentFolderID: &missing,
		Data:           []byte("x"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Upload error = %v, want ErrNotFound", err)
	}
	if used := e.usedBytes(t, "alice"); used != 0 {
		t.Errorf("usedBytes = %d after failed upload, want 0", used)
	}
}

// Quota accounting over a mixed upload/delete sequence: a 1000-byte budget
// takes a 700-byte upload, rejects a further 400, and admits the 400 once
// the 700 is deleted.
func TestFileService_QuotaAccounting(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	first := e.upload(t, "alice", "a", 700)
	if used := e.usedBytes(t, "alice"); used != 700 {
		t.Fatalf("usedBytes = %d, want 700", used)
	}

	_, err := e.files.Upload(ctx, &services.UploadFileRequest{
		OwnerID: "alice", Name: "b", Data: make([]byte, 400),
	})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("over-budget upload error = %v, want ErrQuotaExceeded", err)
	}
	if used := e.usedBytes(t, "alice"); used != 700 {
		t.Fatalf("usedBytes = %d after rejected upload, want 700", used)
	}

	if err := e.files.Delete(ctx, "alice", first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if used := e.usedBytes(t, "alice"); used != 0 {
		t.Fatalf("usedBytes = %d after delete, want 0", used)
	}

	e.upload(t, "alice", "b", 400)
	if used := e.usedBytes(t, "alice"); used != 400 {
		t.Fatalf("usedBytes = %d, want 400", used)
	}
}

// An upload exactly filling the remaining budget succeeds
func TestFileService_UploadExactFill(t *testing.T) {
	e := newEnv(t, 10)

	e.upload(t, "alice", "a", 4)
	e.upload(t, "alice", "b", 6)
	if used := e.usedBytes(t, "alice"); used != 10 {
		t.Errorf("usedBytes = %d, want 10", used)
	}
}

// Owners have independent budgets
func TestFileService_QuotaPerOwner(t *testing.T) {
	e := newEnv(t, 10)

	e.upload(t, "alice", "a", 10)
	e.upload(t, "bob", "b", 10)

	if used := e.usedBytes(t, "bob"); used != 10 {
		t.Errorf("bob usedBytes = %d, want 10", used)
	}
}

// Two concurrent uploads whose combined size overshoots the budget: exactly
// one commits, and no stored object leaks from the loser.
func TestFileService_ConcurrentUploadsRespectBudget(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.files.Upload(ctx, &services.UploadFileRequest{
				OwnerID: "alice",
				Name:    "big",
				Data:    make([]byte, 6),
			})
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrQuotaExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Fatalf("got %d commits and %d rejections, want exactly 1 of each", ok, rejected)
	}
	if used := e.usedBytes(t, "alice"); used != 6 {
		t.Errorf("usedBytes = %d, want 6", used)
	}
	if n := e.backend.count(); n != 1 {
		t.Errorf("backend holds %d objects, want 1 (loser's object must be discarded)", n)
	}
}

// A failed backend put leaves no metadata and no quota charge
func TestFileService_FailedPutLeavesNothing(t *testing.T) {
	e := newEnvWithBackend(t, 1000, failingBackend{})
	ctx := context.Background()

	_, err := e.files.Upload(ctx, &services.UploadFileRequest{
		OwnerID: "alice", Name: "a", Data: []byte("x"),
	})
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("Upload error = %v, want ErrBackendUnavailable", err)
	}
	if used := e.usedBytes(t, "alice"); used != 0 {
		t.Errorf("usedBytes = %d, want 0", used)
	}
	files, err := e.files.List(ctx, "alice", nil, listAll())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("namespace holds %d files, want 0", len(files))
	}
}

func TestFileService_RenameAndMove(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	folder := e.mkdir(t, "alice", "docs", nil)
	file := e.upload(t, "alice", "draft.txt", 3)

	newName := "final.txt"
	updated, err := e.files.Update(ctx, file.ID, &services.UpdateFileRequest{
		OwnerID:        "alice",
		Name:           &newName,
		ParentFolderID: httputil.OptionalString{Present: true, Value: &folder.ID},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "final.txt" {
		t.Errorf("Name = %q, want %q", updated.Name, "final.txt")
	}
	if updated.ParentFolderID == nil || *updated.ParentFolderID != folder.ID {
		t.Errorf("ParentFolderID = %v, want %s", updated.ParentFolderID, folder.ID)
	}

	// Explicit null moves back to the root level
	updated, err = e.files.Update(ctx, file.ID, &services.UpdateFileRequest{
		OwnerID:        "alice",
		ParentFolderID: httputil.OptionalString{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("Update to root: %v", err)
	}
	if updated.ParentFolderID != nil {
		t.Errorf("ParentFolderID = %v, want nil", updated.ParentFolderID)
	}
	if updated.Name != "final.txt" {
		t.Errorf("absent name field must not reset the name, got %q", updated.Name)
	}
}

// A transient store fault while checking the move target must surface as
// itself, not as a hierarchy violation the caller gets blamed for
func TestFileService_MoveSurfacesStoreErrors(t *testing.T) {
	outage := errors.New("connection reset by peer")
	var repo *outageFolderRepo
	e := newEnvWithFolderRepo(t, 1000, func(inner repositories.FolderRepository) repositories.FolderRepository {
		repo = &outageFolderRepo{FolderRepository: inner, err: outage}
		return repo
	})
	ctx := context.Background()

	target := e.mkdir(t, "alice", "target", nil)
	file := e.upload(t, "alice", "a.txt", 3)
	repo.failID = target.ID

	_, err := e.files.Update(ctx, file.ID, &services.UpdateFileRequest{
		OwnerID:        "alice",
		ParentFolderID: httputil.OptionalString{Present: true, Value: &target.ID},
	})
	if !errors.Is(err, outage) {
		t.Fatalf("Update error = %v, want the store fault", err)
	}
	if errors.Is(err, domain.ErrInvalidHierarchy) {
		t.Error("store fault was misclassified as a hierarchy violation")
	}
}

func TestFileService_MoveToMissingFolder(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	file := e.upload(t, "alice", "a.txt", 3)

	missing := "no-such-folder"
	_, err := e.files.Update(ctx, file.ID, &services.UpdateFileRequest{
		OwnerID:        "alice",
		ParentFolderID: httputil.OptionalString{Present: true, Value: &missing},
	})
	if !errors.Is(err, domain.ErrInvalidHierarchy) {
		t.Errorf("Update error = %v, want ErrInvalidHierarchy", err)
	}
}

// Deleting a file removes its metadata, its share links and its quota
// charge together
func TestFileService_DeleteCascades(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	file := e.upload(t, "alice", "a.txt", 5)

	link, err := e.shares.Issue(ctx, &services.IssueShareLinkRequest{
		OwnerID: "alice", FileID: file.ID, IsPublic: true,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := e.files.Delete(ctx, "alice", file.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := e.files.Get(ctx, "alice", file.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if _, err := e.shares.Resolve(ctx, link.Token); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Resolve after delete = %v, want ErrNotFound", err)
	}
	if used := e.usedBytes(t, "alice"); used != 0 {
		t.Errorf("usedBytes = %d, want 0", used)
	}
}

func TestFileService_OwnerScoping(t *testing.T) {
	e := newEnv(t, 1000)
	ctx := context.Background()

	file := e.upload(t, "alice", "secret.txt", 3)

	if _, err := e.files.Get(ctx, "bob", file.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-owner Get = %v, want ErrNotFound", err)
	}
	if err := e.files.Delete(ctx, "bob", file.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-owner Delete = %v, want ErrNotFound", err)
	}
}
