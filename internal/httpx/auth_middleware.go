package httpx

import (
	"context"
	"net/http"
	"strings"

	"libraryapi/internal/identity"
)

// IdentityProvider resolves a bearer token to the caller it belongs to.
type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (identity.Principal, error)
}

// Authenticate resolves the Authorization header when one is sent. Requests
// without the header pass through anonymously; a header that does not resolve
// is rejected with 401.
func Authenticate(provider IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, http.StatusUnauthorized, CodeTokenInvalid, "Authorization header must use the Bearer scheme", nil)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			principal, err := provider.Authenticate(r.Context(), token)
			if err != nil {
				JSONError(w, http.StatusUnauthorized, CodeTokenInvalid, "Given token not valid for any token type", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r); !ok {
			JSONError(w, http.StatusUnauthorized, CodeUnauthenticated, "Authentication credentials were not provided.", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperuser rejects anonymous callers with 401 and regular users with 403.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r)
		if !ok {
			JSONError(w, http.StatusUnauthorized, CodeUnauthenticated, "Authentication credentials were not provided.", nil)
			return
		}
		if !principal.IsSuperuser {
			JSONError(w, http.StatusForbidden, CodePermissionDenied, "You do not have permission to perform this action.", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
