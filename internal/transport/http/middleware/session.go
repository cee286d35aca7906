package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tips-admin-api/internal/domain"
)

// TokenCookie holds the session token for browser requests.
const TokenCookie = "token"

// redirectParam carries the page a logged-out user was heading to.
const redirectParam = "redirect_to"

type sessionKey struct{}

// SessionResolver turns a raw token into the session state guards read.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) domain.SessionState
}

// Session resolves the caller's session once per request and stores it in the context.
// It never rejects a request; access decisions belong to the page guards.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := resolver.Resolve(r.Context(), tokenFrom(r))
			st.RedirectTo = r.URL.Query().Get(redirectParam)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), st)))
		})
	}
}

// SessionFromContext returns the resolved session; zero value when none was resolved.
func SessionFromContext(ctx context.Context) domain.SessionState {
	st, _ := ctx.Value(sessionKey{}).(domain.SessionState)
	return st
}

// WithSession stores st in ctx.
func WithSession(ctx context.Context, st domain.SessionState) context.Context {
	return context.WithValue(ctx, sessionKey{}, st)
}

func tokenFrom(r *http.Request) string {
	const bearer = "Bearer "
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearer) {
		return strings.TrimSpace(h[len(bearer):])
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}
