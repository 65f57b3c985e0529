package models

import (
	"time"
)

// ShareLink grants token-based access to one file. Public links need no
// account; restricted links additionally require an authenticated email on
// the allow list.
type ShareLink struct {
	ID            string     `json:"id" db:"id"`
	FileID        string     `json:"file_id" db:"file_id"`
	OwnerID       string     `json:"-" db:"owner_id"`
	Token         string     `json:"token" db:"token"`
	ExpiresAt     *time.Time `json:"expires_at" db:"expires_at"` // nil = never expires
	IsPublic      bool       `json:"is_public" db:"is_public"`
	AllowedEmails []string   `json:"allowed_emails,omitempty" db:"allowed_emails"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Expired reports whether the link has lapsed at the given instant.
// Expiry is evaluated lazily on access; expired rows are never purged.
func (l *ShareLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}

// AllowsEmail reports whether the link admits the given authenticated
// email. Public links admit everyone.
func (l *ShareLink) AllowsEmail(email string) bool {
	if l.IsPublic {
		return true
	}
	if email == "" {
		return false
	}
	for _, allowed := range l.AllowedEmails {
		if allowed == email {
			return true
		}
	}
	return false
}
