package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// One-time code failures. All of them unwrap to ErrUnauthorized.
var (
	ErrCodeMissing  = fmt.Errorf("no pending code: %w", ErrUnauthorized)
	ErrCodeExpired  = fmt.Errorf("code expired: %w", ErrUnauthorized)
	ErrCodeMismatch = fmt.Errorf("code mismatch: %w", ErrUnauthorized)
	ErrCodeBurned   = fmt.Errorf("too many attempts, request a new code: %w", ErrUnauthorized)
)
