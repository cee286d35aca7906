package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tips-admin-api/internal/application/auth"
	"github.com/tips-admin-api/internal/application/session"
	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/guard"
	"github.com/tips-admin-api/internal/transport/http/middleware"
	"github.com/tips-admin-api/internal/transport/http/navstate"
)

// --- mocks ---

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Login(ctx context.Context, req domain.LoginRequest) (*session.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*session.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) LoginWithGoogle(ctx context.Context, idToken string) (*session.LoginResult, error) {
	args := m.Called(ctx, idToken)
	if r, _ := args.Get(0).(*session.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Open(ctx context.Context, u *domain.User) (*session.LoginResult, error) {
	args := m.Called(ctx, u)
	if r, _ := args.Get(0).(*session.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockSessionSvc) Resolve(ctx context.Context, token string) domain.SessionState {
	return m.Called(ctx, token).Get(0).(domain.SessionState)
}

type mockFlows struct{ mock.Mock }

func (m *mockFlows) transition(args mock.Arguments) (*auth.Transition, error) {
	if t, _ := args.Get(0).(*auth.Transition); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFlows) Signup(ctx context.Context, req domain.SignupRequest) (*auth.Transition, error) {
	return m.transition(m.Called(ctx, req))
}

func (m *mockFlows) SendOTP(ctx context.Context, req domain.SendOTPRequest) (*auth.Transition, error) {
	return m.transition(m.Called(ctx, req))
}

func (m *mockFlows) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*auth.Transition, error) {
	return m.transition(m.Called(ctx, req))
}

func (m *mockFlows) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) (*auth.Transition, error) {
	return m.transition(m.Called(ctx, req))
}

// --- helpers ---

var testCookies = CookieOptions{Domain: "admin.example.com", Secure: true, TokenTTL: time.Hour}

func post(t *testing.T, h http.HandlerFunc, st domain.SessionState, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req = req.WithContext(middleware.WithSession(req.Context(), st))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func cookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeRedirect(t *testing.T, rr *httptest.ResponseRecorder) RedirectEnvelope {
	t.Helper()
	var env RedirectEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

// --- tests ---

func TestLogin_Success(t *testing.T) {
	sessions := new(mockSessionSvc)
	req := domain.LoginRequest{Username: "ana", Password: "secret123"}
	sessions.On("Login", mock.Anything, req).Return(&session.LoginResult{Token: "jwt", Session: &domain.Session{SessionID: "s1"}}, nil)
	h := NewAuthHandler(sessions, new(mockFlows), testCookies)

	rr := post(t, h.Login, anonymous, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, guard.PathLanding, rr.Header().Get("Location"))

	c := cookie(rr, middleware.TokenCookie)
	require.NotNil(t, c)
	assert.Equal(t, "jwt", c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)

	env := decodeRedirect(t, rr)
	assert.Equal(t, "jwt", env.Bearer)
	assert.True(t, env.Redirect.Replace)
}

func TestLogin_PendingRedirect(t *testing.T) {
	sessions := new(mockSessionSvc)
	sessions.On("Login", mock.Anything, mock.Anything).Return(&session.LoginResult{Token: "jwt"}, nil)
	h := NewAuthHandler(sessions, new(mockFlows), testCookies)

	rr := post(t, h.Login, domain.SessionState{RedirectTo: "/admin/tips"}, domain.LoginRequest{Username: "ana", Password: "secret123"})
	assert.Equal(t, "/admin/tips", rr.Header().Get("Location"))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	sessions := new(mockSessionSvc)
	sessions.On("Login", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized))
	h := NewAuthHandler(sessions, new(mockFlows), testCookies)

	rr := post(t, h.Login, anonymous, domain.LoginRequest{Username: "ana", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, cookie(rr, middleware.TokenCookie))
}

func TestLogin_BadBody(t *testing.T) {
	h := NewAuthHandler(new(mockSessionSvc), new(mockFlows), testCookies)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	h.Login(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGoogle_RequiresToken(t *testing.T) {
	h := NewAuthHandler(new(mockSessionSvc), new(mockFlows), testCookies)
	rr := post(t, h.Google, anonymous, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGoogle_UnknownStaffIsForbidden(t *testing.T) {
	sessions := new(mockSessionSvc)
	sessions.On("LoginWithGoogle", mock.Anything, "id-token").Return(nil, fmt.Errorf("no staff account: %w", domain.ErrForbidden))
	h := NewAuthHandler(sessions, new(mockFlows), testCookies)

	rr := post(t, h.Google, anonymous, map[string]string{"id_token": "id-token"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSignup_AttachesVerifyIntent(t *testing.T) {
	flows := new(mockFlows)
	intent := domain.Intent{"from": "signup", "phone": "+5215555555555", "email": "a@b.co"}
	flows.On("Signup", mock.Anything, mock.Anything).Return(&auth.Transition{Path: auth.PathVerify, Intent: intent, Token: "jwt"}, nil)
	h := NewAuthHandler(new(mockSessionSvc), flows, testCookies)

	rr := post(t, h.Signup, anonymous, domain.SignupRequest{Username: "ana"})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, auth.PathVerify, rr.Header().Get("Location"))
	assert.Equal(t, "false", rr.Header().Get(ReplaceHeader))

	nav := cookie(rr, navstate.CookieName)
	require.NotNil(t, nav)
	assert.Equal(t, intent, navstate.Decode(nav.Value))
	require.NotNil(t, cookie(rr, middleware.TokenCookie))

	env := decodeRedirect(t, rr)
	assert.Equal(t, intent, navstate.Decode(env.State))
}

func TestVerifyOTP_ForgotCarriesCode(t *testing.T) {
	flows := new(mockFlows)
	intent := domain.Intent{"type": "email", "value": "a@b.co", "otp_code": "123456"}
	flows.On("VerifyOTP", mock.Anything, mock.Anything).Return(&auth.Transition{Path: auth.PathResetPassword, Intent: intent}, nil)
	h := NewAuthHandler(new(mockSessionSvc), flows, testCookies)

	rr := post(t, h.VerifyOTP, anonymous, domain.VerifyOTPRequest{From: "forgot", Type: "email", Value: "a@b.co", Code: "123456"})
	assert.Equal(t, auth.PathResetPassword, rr.Header().Get("Location"))
	assert.Nil(t, cookie(rr, middleware.TokenCookie))
	assert.Empty(t, decodeRedirect(t, rr).Bearer)
}

func TestSendOTP_ValidationError(t *testing.T) {
	flows := new(mockFlows)
	flows.On("SendOTP", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("field 'type' failed 'oneof': %w", domain.ErrBadRequest))
	h := NewAuthHandler(new(mockSessionSvc), flows, testCookies)

	rr := post(t, h.SendOTP, anonymous, domain.SendOTPRequest{From: "forgot", Type: "fax", Value: "x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, cookie(rr, navstate.CookieName))
}

func TestResetPassword_ClearsIntent(t *testing.T) {
	flows := new(mockFlows)
	flows.On("ResetPassword", mock.Anything, mock.Anything).Return(&auth.Transition{Path: auth.PathLogin}, nil)
	h := NewAuthHandler(new(mockSessionSvc), flows, testCookies)

	rr := post(t, h.ResetPassword, anonymous, domain.ResetPasswordRequest{})
	assert.Equal(t, auth.PathLogin, rr.Header().Get("Location"))
	nav := cookie(rr, navstate.CookieName)
	require.NotNil(t, nav)
	assert.Equal(t, -1, nav.MaxAge)
}

func TestLogout(t *testing.T) {
	sessions := new(mockSessionSvc)
	h := NewAuthHandler(sessions, new(mockFlows), testCookies)

	rr := post(t, h.Logout, anonymous, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	sessions.On("Logout", mock.Anything, "s1").Return(nil)
	rr = post(t, h.Logout, expired, nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, guard.PathLogin, rr.Header().Get("Location"))
	c := cookie(rr, middleware.TokenCookie)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
	sessions.AssertExpectations(t)
}

func TestLandingFor(t *testing.T) {
	cases := map[string]string{
		"":                      guard.PathLanding,
		"/admin/tips":           "/admin/tips",
		"/admin/users/u1":       "/admin/users/u1",
		"//evil.example/admin/": guard.PathLanding,
		"https://evil.example":  guard.PathLanding,
		"/login":                guard.PathLanding,
		"/admin/\\evil":         guard.PathLanding,
	}
	for in, want := range cases {
		assert.Equal(t, want, landingFor(in), in)
	}
}

func TestWriteDomainError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", domain.ErrBadRequest), http.StatusBadRequest},
		{fmt.Errorf("x: %w", domain.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("x: %w", domain.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("x: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", domain.ErrConflict), http.StatusConflict},
		{fmt.Errorf("dynamo down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		writeDomainError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
		assert.Equal(t, tc.want, rr.Code, tc.err.Error())
	}
}
