package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/infrastructure/google"
	jwtinfra "github.com/tips-admin-api/internal/infrastructure/jwt"
	"github.com/tips-admin-api/internal/pkg/id"
	"github.com/tips-admin-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type SessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
}

type TokenProvider interface {
	Sign(userID, role, sessionID string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type LoginResult struct {
	Token   string
	Session *domain.Session
}

// Service opens and closes dashboard sessions and resolves the session state
// the page guards read.
type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error)
	Open(ctx context.Context, u *domain.User) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Resolve(ctx context.Context, token string) domain.SessionState
}

type ServiceDeps struct {
	UserRepo       UserStore
	SessionRepo    SessionStore
	Tokens         TokenProvider
	GoogleVerifier GoogleVerifier // optional
}

type service struct {
	users    UserStore
	sessions SessionStore
	tokens   TokenProvider
	google   GoogleVerifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:    deps.UserRepo,
		sessions: deps.SessionRepo,
		tokens:   deps.Tokens,
		google:   deps.GoogleVerifier,
	}
}

var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		u, err = s.users.GetByEmail(ctx, req.Username)
		if err != nil {
			return nil, errInvalidCredentials
		}
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	return s.Open(ctx, u)
}

// LoginWithGoogle signs in an existing staff member by Google ID token.
// Unknown emails are rejected; staff accounts are never created this way.
func (s *service) LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error) {
	if s.google == nil {
		return nil, fmt.Errorf("google sign-in not configured: %w", domain.ErrBadRequest)
	}
	p, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, p.Email)
	if err != nil {
		return nil, errInvalidCredentials
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	if u.GoogleSub != "" && u.GoogleSub != p.Sub {
		return nil, errInvalidCredentials
	}
	return s.Open(ctx, u)
}

func (s *service) Open(ctx context.Context, u *domain.User) (*LoginResult, error) {
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID: id.New(),
		UserID:    u.UserID,
		Enable:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	token, err := s.tokens.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return &LoginResult{Token: token, Session: sess}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Disable(ctx, sessionID)
}

// Resolve turns a raw token into the session state seen by the guards.
//   - no token, or a token we did not sign: not logged in
//   - signed but past its expiry: EXPIRED
//   - session row disabled or gone: EXPIRED
//   - otherwise: ACTIVE
//
// Store failures are logged and do not demote the session.
func (s *service) Resolve(ctx context.Context, token string) domain.SessionState {
	if token == "" {
		return domain.SessionState{}
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if jwtinfra.Expired(err) && claims != nil {
			return domain.SessionState{Token: token, Status: domain.SessionExpired, UserID: claims.UserID, SessionID: claims.SessionID}
		}
		slog.DebugContext(ctx, "ignoring unverifiable session token", "err", err)
		return domain.SessionState{}
	}
	st := domain.SessionState{Token: token, Status: domain.SessionActive, UserID: claims.UserID, SessionID: claims.SessionID}
	sess, err := s.sessions.Get(ctx, claims.SessionID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		st.Status = domain.SessionExpired
	case err != nil:
		slog.WarnContext(ctx, "session lookup failed", "session_id", claims.SessionID, "err", err)
	case !sess.Enable:
		st.Status = domain.SessionExpired
	}
	return st
}
