package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	ownerIDKey contextKey = "ownerID"
	emailKey   contextKey = "email"
)

// WithOwner adds the authenticated owner ID and email to the request context
func WithOwner(r *http.Request, ownerID, email string) *http.Request {
	ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
	ctx = context.WithValue(ctx, emailKey, email)
	return r.WithContext(ctx)
}

// GetOwnerID retrieves the owner ID from context, empty string if not found
func GetOwnerID(r *http.Request) string {
	ownerID, _ := r.Context().Value(ownerIDKey).(string)
	return ownerID
}

// GetEmail retrieves the authenticated email from context
func GetEmail(r *http.Request) string {
	email, _ := r.Context().Value(emailKey).(string)
	return email
}
