package domain

import "errors"

// Sentinel errors for the storage core - use with errors.Is().
// Services wrap these with fmt.Errorf("...: %w", ...) to add context;
// the calling layer maps them to protocol-level responses.
var (
	// ErrNotFound indicates an entity is absent or not owned by the caller.
	// Ownership mismatches are deliberately indistinguishable from absence.
	ErrNotFound = errors.New("not found")

	// ErrInvalidHierarchy indicates a move that would create a cycle, or a
	// move whose parent target does not exist.
	ErrInvalidHierarchy = errors.New("invalid hierarchy")

	// ErrQuotaExceeded indicates an upload would exceed the owner's byte budget.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrBackendUnavailable indicates storage I/O failed.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates authentication failure.
	ErrUnauthorized = errors.New("unauthorized")
)
