package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/guard"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// SessionEnvelope wraps the current session state.
type SessionEnvelope struct {
	LoggedIn bool                `json:"logged_in"`
	Session  domain.SessionState `json:"session"`
}

// PageEnvelope is what a guarded page renders to.
type PageEnvelope struct {
	View   string `json:"view"`
	Notice string `json:"notice,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// RedirectEnvelope tells the dashboard where to navigate next. State is the encoded
// navigation intent for clients that pass it back in the X-Navigation-State header.
type RedirectEnvelope struct {
	Redirect guard.RedirectTo `json:"redirect"`
	State    string           `json:"state,omitempty"`
	Bearer   string           `json:"Bearer,omitempty"`
}

// ReplaceHeader mirrors RedirectTo.Replace for clients that only read headers.
const ReplaceHeader = "X-Navigation-Replace"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}

func writeRedirect(w http.ResponseWriter, env RedirectEnvelope) {
	w.Header().Set("Location", env.Redirect.Path)
	w.Header().Set(ReplaceHeader, strconv.FormatBool(env.Redirect.Replace))
	writeJSON(w, http.StatusSeeOther, env)
}

// writeDomainError maps domain sentinels to status codes. Anything else is a 500
// and its message stays in the logs.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
