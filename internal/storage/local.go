package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cumulus/internal/domain"
)

// LocalBackend stores payloads as files under a root directory.
type LocalBackend struct {
	root string
}

// NewLocal creates a local backend rooted at dir, creating it if needed.
func NewLocal(dir string) (*LocalBackend, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalBackend{root: abs}, nil
}

// resolve maps a key to an on-disk path. Any ".." segment is rejected
// outright: a key like "a/../b/x" cleans to a valid path but crosses the
// owner-prefix partition, so cleaning alone is not enough.
func (b *LocalBackend) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key: %w", domain.ErrValidation)
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", fmt.Errorf("storage key %q escapes storage root: %w", key, domain.ErrValidation)
		}
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == "." {
		return "", fmt.Errorf("storage key %q escapes storage root: %w", key, domain.ErrValidation)
	}

	full := filepath.Join(b.root, clean)
	if !strings.HasPrefix(full, b.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage key %q escapes storage root: %w", key, domain.ErrValidation)
	}
	return full, nil
}

// Put writes the payload, creating intermediate directories implicitly.
func (b *LocalBackend) Put(ctx context.Context, key string, data []byte) error {
	path, err := b.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create key directory: %w: %v", domain.ErrBackendUnavailable, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %v", key, domain.ErrBackendUnavailable, err)
	}
	return nil
}

func (b *LocalBackend) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := b.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w: %v", key, domain.ErrBackendUnavailable, err)
	}
	return data, nil
}

// Delete removes the payload; an absent key is not an error.
func (b *LocalBackend) Delete(ctx context.Context, key string) error {
	path, err := b.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w: %v", key, domain.ErrBackendUnavailable, err)
	}
	return nil
}
