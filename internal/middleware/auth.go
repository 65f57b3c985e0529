package middleware

import (
	"net/http"
	"strings"

	"cumulus/internal/auth"
	"cumulus/internal/httputil"
)

// Auth verifies the bearer token and stores the authenticated owner in the
// request context. Paths matched by public never fail authentication -
// share-link resolution and health checks must work without an account -
// but a valid token on a public path still attaches the caller's identity,
// which restricted share links need.
func Auth(verifier auth.Verifier, public func(r *http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

			if public(r) {
				if claims, err := verifier.VerifyToken(token); err == nil {
					r = httputil.WithOwner(r, claims.Subject, claims.Email)
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or missing credentials")
				return
			}

			next.ServeHTTP(w, httputil.WithOwner(r, claims.Subject, claims.Email))
		})
	}
}
