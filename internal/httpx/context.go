package httpx

import (
	"context"
	"net/http"

	"libraryapi/internal/identity"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "requestID"
	holderKey    contextKey = "userHolder"
)

// userHolder lets the access log see who was authenticated further down.
type userHolder struct {
	userID string
}

func contextWithUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, holderKey, h)
}

// PrincipalFrom retrieves the authenticated caller from the request context.
func PrincipalFrom(r *http.Request) (identity.Principal, bool) {
	p, ok := r.Context().Value(principalKey).(identity.Principal)
	return p, ok
}

// UserIDFrom returns the caller's user id, or "" for anonymous requests.
func UserIDFrom(r *http.Request) string {
	if p, ok := PrincipalFrom(r); ok {
		return p.ID()
	}
	return ""
}

// ContextWithPrincipal returns a new context carrying the caller.
func ContextWithPrincipal(ctx context.Context, p identity.Principal) context.Context {
	if h, ok := ctx.Value(holderKey).(*userHolder); ok {
		h.userID = p.ID()
	}
	return context.WithValue(ctx, principalKey, p)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context with the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
