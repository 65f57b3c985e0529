package models

import (
	"time"
)

// File is one stored payload's metadata record. The payload itself lives in
// a storage backend under StorageKey; the two are linked only through this
// record, so deleting it orphans the payload.
type File struct {
	ID             string    `json:"id" db:"id"`
	OwnerID        string    `json:"-" db:"owner_id"`
	Name           string    `json:"name" db:"name"`
	SizeBytes      int64     `json:"size_bytes" db:"size_bytes"`
	MimeType       string    `json:"mime_type" db:"mime_type"`
	StorageKey     string    `json:"-" db:"storage_key"`
	ParentFolderID *string   `json:"parent_folder_id" db:"parent_folder_id"` // NULL = root level
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
