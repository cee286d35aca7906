package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tips-admin-api/internal/application/resource"
	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/guard"
	"github.com/tips-admin-api/internal/transport/http/middleware"
)

// Loader produces the data of a page once its guards let it render.
type Loader func(r *http.Request, st guard.State) (any, error)

// PageHandler renders guarded pages.
type PageHandler struct {
	// strict panics on a misconfigured guard instead of answering 500.
	strict bool
}

func NewPageHandler(strict bool) *PageHandler {
	return &PageHandler{strict: strict}
}

// Serve evaluates page against the request's session, intent and slug and
// renders the outcome. load may be nil.
func (h *PageHandler) Serve(page guard.Page, load Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := guard.State{
			Session: middleware.SessionFromContext(r.Context()),
			Intent:  middleware.IntentFromContext(r.Context()),
			Params:  domain.Params{Slug: chi.URLParam(r, "slug")},
		}
		out, err := page.Evaluate(st)
		if err != nil {
			slog.ErrorContext(r.Context(), "guard evaluation failed", "path", r.URL.Path, "guards", page.Guards(), "err", err)
			if h.strict {
				panic(err)
			}
			writeError(w, http.StatusInternalServerError, "page unavailable")
			return
		}
		if out.Redirect != nil {
			writeRedirect(w, RedirectEnvelope{Redirect: *out.Redirect})
			return
		}

		view := *out.View
		if view.Name == guard.ViewNotFound {
			writeJSON(w, http.StatusNotFound, PageEnvelope{View: guard.ViewNotFound})
			return
		}
		env := PageEnvelope{View: view.Name}
		if view.Name == guard.ViewExpired && view.Child != nil {
			env.View = view.Child.Name
			env.Notice = guard.ViewExpired
		}
		if load != nil {
			data, err := load(r, st)
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, PageEnvelope{View: guard.ViewNotFound})
				return
			}
			if err != nil {
				writeDomainError(w, r, err)
				return
			}
			env.Data = data
		}
		writeJSON(w, http.StatusOK, env)
	}
}

// IntentEcho hands the listed intent values back to the page so its form can
// submit them with the next step.
func IntentEcho(keys ...string) Loader {
	return func(_ *http.Request, st guard.State) (any, error) {
		out := make(map[string]string, len(keys))
		for _, k := range keys {
			if v := st.Intent.Get(k); v != "" {
				out[k] = v
			}
		}
		return out, nil
	}
}

// SlugParts exposes the dash-delimited slug of the page.
func SlugParts(_ *http.Request, st guard.State) (any, error) {
	return map[string]any{"slug": st.Params.Slug, "parts": st.Params.Parts()}, nil
}

const defaultPerPage = 20

// Section lists the records of an admin section, paginated by page/per_page.
func Section(svc resource.Service) Loader {
	return func(r *http.Request, _ guard.State) (any, error) {
		page := queryInt(r, "page", 1)
		perPage := queryInt(r, "per_page", defaultPerPage)
		return svc.List(r.Context(), chi.URLParam(r, "resource"), page, perPage)
	}
}

// SectionItem loads a single admin record.
func SectionItem(svc resource.Service) Loader {
	return func(r *http.Request, _ guard.State) (any, error) {
		return svc.Get(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id"))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
