package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/portcullis-auth/portcullis/internal/api/response"
	"github.com/portcullis-auth/portcullis/internal/auth"
)

const identityKey contextKey = "identity"

const bearerScheme = "Bearer"

// RequireAuth is the request-level authentication gate. It extracts a bearer
// token from the Authorization header, resolves it to an identity and
// attaches that to the request context. Every rejection (missing header,
// malformed scheme, bad token, inactive subject) returns the identical
// minimal 401 body so callers cannot probe which stage failed.
func RequireAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.FailEmpty(w, http.StatusUnauthorized)
				return
			}

			// Exactly two space-separated fragments, scheme literal Bearer.
			fragments := strings.Fields(header)
			if len(fragments) != 2 || fragments[0] != bearerScheme {
				response.FailEmpty(w, http.StatusUnauthorized)
				return
			}

			identity, err := authService.Authenticate(r.Context(), fragments[1])
			if err != nil {
				response.FailEmpty(w, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}
