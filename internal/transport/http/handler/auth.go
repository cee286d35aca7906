package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/tips-admin-api/internal/application/auth"
	"github.com/tips-admin-api/internal/application/session"
	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/guard"
	"github.com/tips-admin-api/internal/transport/http/middleware"
	"github.com/tips-admin-api/internal/transport/http/navstate"
)

// CookieOptions controls the cookies set by the auth endpoints.
type CookieOptions struct {
	Domain   string
	Secure   bool
	TokenTTL time.Duration
}

// AuthHandler serves the login, signup and OTP endpoints. Every step answers with
// a redirect to the next dashboard page and attaches the intent that page expects.
type AuthHandler struct {
	sessions session.Service
	flows    auth.Service
	cookies  CookieOptions
}

func NewAuthHandler(sessions session.Service, flows auth.Service, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{sessions: sessions, flows: flows, cookies: cookies}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.sessions.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.loggedIn(w, r, res)
}

func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := decodeBody(r, &req); err != nil || req.IDToken == "" {
		writeError(w, http.StatusBadRequest, "id_token required")
		return
	}
	res, err := h.sessions.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.loggedIn(w, r, res)
}

func (h *AuthHandler) loggedIn(w http.ResponseWriter, r *http.Request, res *session.LoginResult) {
	h.setToken(w, res.Token)
	target := landingFor(middleware.SessionFromContext(r.Context()).RedirectTo)
	writeRedirect(w, RedirectEnvelope{
		Redirect: guard.RedirectTo{Path: target, Replace: true},
		Bearer:   res.Token,
	})
}

// Logout disables the session. Expired sessions may log out too.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st := middleware.SessionFromContext(r.Context())
	if !st.LoggedIn() {
		writeError(w, http.StatusUnauthorized, "missing or invalid session token")
		return
	}
	if st.SessionID != "" {
		if err := h.sessions.Logout(r.Context(), st.SessionID); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}
	h.clearToken(w)
	writeRedirect(w, RedirectEnvelope{Redirect: guard.RedirectTo{Path: guard.PathLogin, Replace: true}})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.transition(w, r, func() (*auth.Transition, error) { return h.flows.Signup(r.Context(), req) })
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.transition(w, r, func() (*auth.Transition, error) { return h.flows.SendOTP(r.Context(), req) })
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.transition(w, r, func() (*auth.Transition, error) { return h.flows.VerifyOTP(r.Context(), req) })
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.transition(w, r, func() (*auth.Transition, error) { return h.flows.ResetPassword(r.Context(), req) })
}

func (h *AuthHandler) transition(w http.ResponseWriter, r *http.Request, step func() (*auth.Transition, error)) {
	t, err := step()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if t.Token != "" {
		h.setToken(w, t.Token)
	}
	state, err := navstate.Attach(w, t.Intent, h.cookies.Secure)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeRedirect(w, RedirectEnvelope{
		Redirect: guard.RedirectTo{Path: t.Path},
		State:    state,
		Bearer:   t.Token,
	})
}

func (h *AuthHandler) setToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(h.cookies.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// landingFor returns the pending redirect target when it is a local admin page,
// the default landing page otherwise.
func landingFor(pending string) string {
	if strings.HasPrefix(pending, "/admin/") && !strings.HasPrefix(pending, "//") && !strings.Contains(pending, "\\") {
		return pending
	}
	return guard.PathLanding
}
