// Package memory provides in-memory repository implementations backed by
// id-keyed maps with a secondary index on (owner, parent folder). They back
// the dev store and the service test suites; semantics mirror the postgres
// implementations exactly.
package memory

import (
	"context"
	"sort"
	"strings"

	"cumulus/internal/domain/models"
	"cumulus/internal/domain/repositories"
)

// childKey builds the secondary index key for (owner, parent folder).
// The NUL separator cannot occur in IDs.
func childKey(ownerID string, parentID *string) string {
	if parentID == nil {
		return ownerID + "\x00"
	}
	return ownerID + "\x00" + *parentID
}

// pageBounds slices [lo, hi) out of n rows; out-of-range pages are empty
func pageBounds(n int, opts repositories.ListOptions) (int, int) {
	if !opts.Paged() {
		return 0, n
	}
	lo := opts.Offset()
	if lo >= n {
		return 0, 0
	}
	hi := lo + opts.PageSize
	if hi > n {
		hi = n
	}
	return lo, hi
}

// sortFiles orders files by the chosen key with an id tie-break so that
// pagination stays stable across calls.
func sortFiles(files []models.File, opts repositories.ListOptions) {
	sort.Slice(files, func(i, j int) bool {
		a, b := files[i], files[j]
		var c int
		switch opts.SortKey {
		case repositories.SortBySize:
			switch {
			case a.SizeBytes < b.SizeBytes:
				c = -1
			case a.SizeBytes > b.SizeBytes:
				c = 1
			}
		case repositories.SortByCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case repositories.SortByUpdatedAt:
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			c = strings.Compare(a.Name, b.Name)
		}
		if opts.Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// sortFolders is sortFiles for folders; size sorts fall back to name.
func sortFolders(folders []models.Folder, opts repositories.ListOptions) {
	sort.Slice(folders, func(i, j int) bool {
		a, b := folders[i], folders[j]
		var c int
		switch opts.SortKey {
		case repositories.SortByCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case repositories.SortByUpdatedAt:
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			c = strings.Compare(a.Name, b.Name)
		}
		if opts.Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// TransactionManager is a pass-through: in-memory writes are already
// serialized by the caller's owner lock.
type TransactionManager struct{}

// NewTransactionManager creates a pass-through transaction manager
func NewTransactionManager() repositories.TransactionManager {
	return &TransactionManager{}
}

// ExecTx runs fn directly
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
