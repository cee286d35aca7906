package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tips-admin-api/internal/application/session"
	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/pkg/id"
	"github.com/tips-admin-api/internal/pkg/otp"
	"github.com/tips-admin-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// Page paths the auth flows navigate to.
const (
	PathVerify        = "/verify"
	PathOTP           = "/otp"
	PathResetPassword = "/reset-password"
	PathSignupDone    = "/signup/done"
	PathLogin         = "/login"
)

// maxCodeAttempts is how many wrong guesses a pending code survives.
const maxCodeAttempts = 5

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	SetPasswordHash(ctx context.Context, userID, hash string) error
	MarkConfirmed(ctx context.Context, userID, channel string) error
}

type VerificationStore interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	Get(ctx context.Context, userID, verType string) (*domain.UserVerification, error)
	Delete(ctx context.Context, userID, verType string) error
}

type SessionOpener interface {
	Open(ctx context.Context, u *domain.User) (*session.LoginResult, error)
}

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Transition is where a flow sends the dashboard next and the navigation
// intent the destination page's guards expect. Token is set when the step
// opened a session.
type Transition struct {
	Path   string
	Intent domain.Intent
	Token  string
}

type Service interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*Transition, error)
	SendOTP(ctx context.Context, req domain.SendOTPRequest) (*Transition, error)
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*Transition, error)
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) (*Transition, error)
}

type ServiceDeps struct {
	UserRepo         UserStore
	VerificationRepo VerificationStore
	Sessions         SessionOpener
	Mailer           Mailer
	SMSSender        SMSSender // optional; phone codes fail without it
	OTPExpiry        time.Duration
}

type service struct {
	users         UserStore
	verifications VerificationStore
	sessions      SessionOpener
	mailer        Mailer
	sms           SMSSender
	otpExpiry     time.Duration
	now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	exp := deps.OTPExpiry
	if exp <= 0 {
		exp = 15 * time.Minute
	}
	return &service{
		users:         deps.UserRepo,
		verifications: deps.VerificationRepo,
		sessions:      deps.Sessions,
		mailer:        deps.Mailer,
		sms:           deps.SMSSender,
		otpExpiry:     exp,
		now:           time.Now,
	}
}

func badRequest(err error) error {
	return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (*Transition, error) {
	if err := validate.Struct(req); err != nil {
		return nil, badRequest(err)
	}
	if err := s.ensureUnique(ctx, req); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	phone := req.Phone
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		Phone:        &phone,
		PasswordHash: string(hash),
		Role:         domain.RoleStaff,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AuthProvider: "local",
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	res, err := s.sessions.Open(ctx, u)
	if err != nil {
		return nil, err
	}
	return &Transition{
		Path: PathVerify,
		Intent: domain.Intent{
			domain.IntentFrom:  domain.FlowSignup,
			domain.IntentPhone: req.Phone,
			domain.IntentEmail: req.Email,
		},
		Token: res.Token,
	}, nil
}

func (s *service) ensureUnique(ctx context.Context, req domain.SignupRequest) error {
	checks := []struct {
		field  string
		lookup func(context.Context, string) (*domain.User, error)
		value  string
	}{
		{"username", s.users.GetByUsername, req.Username},
		{"email", s.users.GetByEmail, req.Email},
		{"phone", s.users.GetByPhone, req.Phone},
	}
	for _, c := range checks {
		_, err := c.lookup(ctx, c.value)
		if err == nil {
			return fmt.Errorf("%s already registered: %w", c.field, domain.ErrConflict)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	return nil
}

// SendOTP issues a code on the requested channel and moves to the OTP page.
func (s *service) SendOTP(ctx context.Context, req domain.SendOTPRequest) (*Transition, error) {
	if err := validate.Struct(req); err != nil {
		return nil, badRequest(err)
	}
	u, err := s.userByChannel(ctx, req.Type, req.Value)
	if err != nil {
		return nil, err
	}
	code, err := otp.New()
	if err != nil {
		return nil, err
	}
	v := &domain.UserVerification{
		UserID:    u.UserID,
		Type:      req.Type,
		Code:      code,
		ExpiresAt: s.now().Add(s.otpExpiry).Unix(),
	}
	if err := s.verifications.Put(ctx, v); err != nil {
		return nil, err
	}
	if err := s.deliver(ctx, req.Type, req.Value, code); err != nil {
		return nil, err
	}
	return &Transition{
		Path: PathOTP,
		Intent: domain.Intent{
			domain.IntentFrom:  req.From,
			domain.IntentType:  req.Type,
			domain.IntentValue: req.Value,
		},
	}, nil
}

// VerifyOTP checks a code. Signup codes are consumed and confirm the channel;
// forgot-password codes stay valid until the password is reset.
func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*Transition, error) {
	if err := validate.Struct(req); err != nil {
		return nil, badRequest(err)
	}
	u, err := s.userByChannel(ctx, req.Type, req.Value)
	if err != nil {
		return nil, err
	}
	if err := s.checkCode(ctx, u.UserID, req.Type, req.Code); err != nil {
		return nil, err
	}
	if req.From == domain.FlowForgot {
		return &Transition{
			Path: PathResetPassword,
			Intent: domain.Intent{
				domain.IntentType:    req.Type,
				domain.IntentValue:   req.Value,
				domain.IntentOTPCode: req.Code,
			},
		}, nil
	}
	s.consume(ctx, u.UserID, req.Type)
	if err := s.users.MarkConfirmed(ctx, u.UserID, req.Type); err != nil {
		return nil, err
	}
	return &Transition{
		Path:   PathSignupDone,
		Intent: domain.Intent{domain.IntentIsDone: "true"},
	}, nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) (*Transition, error) {
	if err := validate.Struct(req); err != nil {
		return nil, badRequest(err)
	}
	u, err := s.userByChannel(ctx, req.Type, req.Value)
	if err != nil {
		return nil, err
	}
	if err := s.checkCode(ctx, u.UserID, req.Type, req.OTPCode); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetPasswordHash(ctx, u.UserID, string(hash)); err != nil {
		return nil, err
	}
	s.consume(ctx, u.UserID, req.Type)
	return &Transition{Path: PathLogin}, nil
}

func (s *service) userByChannel(ctx context.Context, channel, value string) (*domain.User, error) {
	var (
		u   *domain.User
		err error
	)
	switch channel {
	case domain.ChannelPhone:
		u, err = s.users.GetByPhone(ctx, value)
	case domain.ChannelEmail:
		u, err = s.users.GetByEmail(ctx, value)
	default:
		return nil, fmt.Errorf("unknown channel %q: %w", channel, domain.ErrBadRequest)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no account for this %s: %w", channel, domain.ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) checkCode(ctx context.Context, userID, channel, code string) error {
	v, err := s.verifications.Get(ctx, userID, channel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeMissing
		}
		return err
	}
	if v.ExpiresAt < s.now().Unix() {
		return domain.ErrCodeExpired
	}
	if !otp.Equal(v.Code, code) {
		return s.miss(ctx, v)
	}
	return nil
}

// miss records a wrong guess and deletes the code once it runs out of attempts.
func (s *service) miss(ctx context.Context, v *domain.UserVerification) error {
	v.Attempts++
	if v.Attempts >= maxCodeAttempts {
		if err := s.verifications.Delete(ctx, v.UserID, v.Type); err != nil {
			return err
		}
		return domain.ErrCodeBurned
	}
	if err := s.verifications.Put(ctx, v); err != nil {
		return err
	}
	return domain.ErrCodeMismatch
}

func (s *service) consume(ctx context.Context, userID, channel string) {
	if err := s.verifications.Delete(ctx, userID, channel); err != nil {
		slog.WarnContext(ctx, "failed to delete verification record", "user_id", userID, "type", channel, "err", err)
	}
}

func (s *service) deliver(ctx context.Context, channel, to, code string) error {
	msg := "Your verification code: " + code
	if channel == domain.ChannelPhone {
		if s.sms == nil {
			return fmt.Errorf("sms delivery not configured: %w", domain.ErrBadRequest)
		}
		return s.sms.SendSMS(ctx, to, msg)
	}
	return s.mailer.SendEmail(ctx, to, "Verification code", msg)
}
