// Package storage abstracts the physical storage medium behind a uniform
// put/get/delete contract over opaque keys. The variant (local disk or
// S3-compatible object storage) is chosen once at startup; call sites never
// branch on the concrete type.
package storage

import (
	"context"

	"github.com/google/uuid"
)

// Backend stores opaque byte payloads under opaque keys.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Put stores data under key, overwriting any previous payload.
	// I/O failures come back wrapped in domain.ErrBackendUnavailable.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the payload under key; absent keys are
	// domain.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the payload under key. Deleting an absent key is not
	// an error, so retried deletes stay harmless.
	Delete(ctx context.Context, key string) error
}

// NewKey mints a storage key for an owner's payload. Keys are namespaced
// with the owner ID as a prefix, partitioning owners without mirroring the
// folder tree on disk or in the bucket. Assigned once at upload, never
// mutated.
func NewKey(ownerID string) string {
	return ownerID + "/" + uuid.NewString()
}
