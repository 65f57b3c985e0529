package models

import (
	"time"
)

// Folder is a node in an owner's namespace tree. Per owner, ParentFolderID
// links form a forest: no folder is ever its own ancestor.
type Folder struct {
	ID             string    `json:"id" db:"id"`
	OwnerID        string    `json:"-" db:"owner_id"`
	Name           string    `json:"name" db:"name"`
	ParentFolderID *string   `json:"parent_folder_id" db:"parent_folder_id"` // NULL = root level
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
