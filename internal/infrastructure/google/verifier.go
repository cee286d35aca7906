package google

import (
	"context"
	"fmt"

	"github.com/tips-admin-api/internal/domain"
	"google.golang.org/api/idtoken"
)

// Payload is what sign-in needs from a Google ID token.
type Payload struct {
	Sub           string
	Email         string
	EmailVerified bool
}

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Verifier checks Google ID tokens issued to the dashboard's OAuth client.
type Verifier struct {
	clientID     string
	hostedDomain string
	validate     validateFunc
}

// NewVerifier builds a verifier. A non-empty hostedDomain restricts sign-in to
// accounts of that Google Workspace domain.
func NewVerifier(clientID, hostedDomain string) *Verifier {
	return &Verifier{clientID: clientID, hostedDomain: hostedDomain, validate: idtoken.Validate}
}

func (v *Verifier) Verify(ctx context.Context, token string) (*Payload, error) {
	p, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized)
	}
	return v.payload(p)
}

func (v *Verifier) payload(p *idtoken.Payload) (*Payload, error) {
	email, _ := p.Claims["email"].(string)
	verified, _ := p.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, fmt.Errorf("google email not verified: %w", domain.ErrUnauthorized)
	}
	if v.hostedDomain != "" {
		if hd, _ := p.Claims["hd"].(string); hd != v.hostedDomain {
			return nil, fmt.Errorf("google account outside %s: %w", v.hostedDomain, domain.ErrForbidden)
		}
	}
	return &Payload{Sub: p.Subject, Email: email, EmailVerified: verified}, nil
}
