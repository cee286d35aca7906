package middleware

import (
	"context"
	"net/http"

	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/transport/http/navstate"
)

type intentKey struct{}

// Navigation reads the intent attached to this navigation and stores it in the context.
// The nav_state cookie is single-use: it is cleared on the response whenever it
// is present, even when the header supplied the intent.
func Navigation(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			in, hasCookie := navstate.Read(r)
			if hasCookie {
				navstate.Clear(w, secureCookies)
			}
			next.ServeHTTP(w, r.WithContext(WithIntent(r.Context(), in)))
		})
	}
}

// IntentFromContext returns the navigation intent; never nil.
func IntentFromContext(ctx context.Context) domain.Intent {
	in, _ := ctx.Value(intentKey{}).(domain.Intent)
	if in == nil {
		return domain.Intent{}
	}
	return in
}

// WithIntent stores in in ctx.
func WithIntent(ctx context.Context, in domain.Intent) context.Context {
	return context.WithValue(ctx, intentKey{}, in)
}
