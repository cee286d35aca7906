package http

import (
	"context"

	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/infrastructure/google"
	jwtinfra "github.com/tips-admin-api/internal/infrastructure/jwt"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	SetPasswordHash(ctx context.Context, userID, hash string) error
	MarkConfirmed(ctx context.Context, userID, channel string) error
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
}

// VerificationRepository is the minimal interface the router requires from a verification store.
type VerificationRepository interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	Get(ctx context.Context, userID, verType string) (*domain.UserVerification, error)
	Delete(ctx context.Context, userID, verType string) error
}

// RecordRepository is the minimal interface the router requires from the admin records store.
type RecordRepository interface {
	ListAll(ctx context.Context, resource string) ([]domain.Record, error)
	Get(ctx context.Context, resource, recordID string) (*domain.Record, error)
}

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type TokenProvider interface {
	Sign(userID, role, sessionID string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

// Deps holds all infrastructure dependencies for the router.
// SMSSender, GoogleVerifier and Ready are optional.
type Deps struct {
	UserRepo         UserRepository
	SessionRepo      SessionRepository
	VerificationRepo VerificationRepository
	RecordRepo       RecordRepository
	Mailer           Mailer
	SMSSender        SMSSender
	Tokens           TokenProvider
	GoogleVerifier   GoogleVerifier
	Ready            func(ctx context.Context) error
}
