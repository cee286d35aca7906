package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tips-admin-api/internal/config"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	p, err := NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiry:         time.Hour,
	})
	require.NoError(t, err)
	return p
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t)
	tok, err := p.Sign("u1", "admin", "s1")
	require.NoError(t, err)

	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "s1", claims.SessionID)
}

func TestVerify_Expired_KeepsClaims(t *testing.T) {
	p := newTestProvider(t)
	tok, err := p.sign("u1", "staff", "s1", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	claims, err := p.Verify(tok)
	require.Error(t, err)
	assert.True(t, Expired(err))
	require.NotNil(t, claims)
	assert.Equal(t, "s1", claims.SessionID)
}

func TestVerify_ForeignKey(t *testing.T) {
	signer := newTestProvider(t)
	verifier := newTestProvider(t)
	tok, err := signer.Sign("u1", "staff", "s1")
	require.NoError(t, err)

	claims, err := verifier.Verify(tok)
	assert.Error(t, err)
	assert.False(t, Expired(err))
	assert.Nil(t, claims)
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTPrivateKeyPath: filepath.Join(t.TempDir(), "nope.pem")})
	assert.ErrorContains(t, err, "read private key")
}
