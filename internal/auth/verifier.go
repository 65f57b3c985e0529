package auth

import (
	"cumulus/internal/domain/models"
)

// Verifier authenticates a bearer token and yields the caller's claims.
// The claims' Subject is the owner ID every namespace operation is scoped
// to; this core never issues tokens itself.
type Verifier interface {
	VerifyToken(tokenString string) (*models.AccessClaims, error)
}
