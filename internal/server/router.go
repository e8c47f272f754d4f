// Package server assembles the HTTP surface: routes, per-route guards and the
// global middleware chain.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
	"libraryapi/internal/loan"
	"libraryapi/internal/user"
)

// Options tune the middleware chain.
type Options struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
	EnableHSTS     bool
}

// Deps are the handlers and collaborators the router wires together.
type Deps struct {
	Logger   *slog.Logger
	Identity httpx.IdentityProvider
	Auth     *auth.HTTPHandler
	Users    *user.HTTPHandler
	Books    *book.HTTPHandler
	Loans    *loan.HTTPHandler
	// Ready reports whether backing services answer. Nil means always ready.
	Ready func(ctx context.Context) error
}

// NewRouter returns the complete handler. ctx bounds background work such as
// rate-limiter cleanup.
func NewRouter(ctx context.Context, d Deps, opts Options) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			pingCtx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := d.Ready(pingCtx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	superuser := func(h http.HandlerFunc) http.Handler { return httpx.RequireSuperuser(h) }
	authed := func(h http.HandlerFunc) http.Handler { return httpx.RequireAuth(h) }

	mux.Handle("/books", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(d.Books.List),
		http.MethodPost: superuser(d.Books.Create),
	}))
	mux.Handle("/books/{id}", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(d.Books.Get),
		http.MethodPatch:  superuser(d.Books.Update),
		http.MethodDelete: superuser(d.Books.Delete),
	}))
	mux.Handle("/books/borrow", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:  superuser(d.Loans.List),
		http.MethodPost: authed(d.Loans.Borrow),
	}))
	mux.Handle("/books/borrow/mine", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet: authed(d.Loans.ListMine),
	}))
	mux.Handle("/books/return", httpx.MethodMux(map[string]http.Handler{
		http.MethodPost: authed(d.Loans.Return),
	}))

	mux.Handle("/users/register", httpx.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(d.Auth.Register),
	}))
	mux.Handle("/users/login", httpx.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(d.Auth.Login),
	}))
	mux.Handle("/users/token/refresh", httpx.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(d.Auth.Refresh),
	}))
	mux.Handle("/users/profile", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet: authed(d.Users.Profile),
	}))
	mux.Handle("/users/all-users", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(d.Users.ListUsers),
	}))

	mux.HandleFunc("/", httpx.NotFound)

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, opts.RateLimitRPS, opts.RateLimitBurst)

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.Logger),
		httpx.RecoveryMiddleware(d.Logger),
		httpx.SecurityHeadersMiddleware(opts.EnableHSTS),
		httpx.CORSMiddleware(opts.AllowedOrigins),
		httpx.RequestSizeLimitMiddleware(opts.MaxBodyBytes),
		rateLimiter.Middleware,
		httpx.Authenticate(d.Identity),
	)
}
