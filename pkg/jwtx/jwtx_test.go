package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner([]byte("test-secret"), "carisma", time.Hour)
	require.NoError(t, err)

	raw, err := signer.Sign("user-1", "admin", "company-1")
	require.NoError(t, err)

	claims, err := signer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "company-1", claims.CompanyID)
	require.Equal(t, "carisma", claims.Issuer)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner([]byte("test-secret"), "carisma", -time.Minute)
	require.NoError(t, err)
	// NewSigner clamps non-positive TTLs, so build one manually.
	signer.ttl = -time.Minute

	raw, err := signer.Sign("user-1", "admin", "company-1")
	require.NoError(t, err)

	_, err = signer.Verify(raw)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	a, err := NewSigner([]byte("secret-a"), "carisma", time.Hour)
	require.NoError(t, err)
	b, err := NewSigner([]byte("secret-b"), "carisma", time.Hour)
	require.NoError(t, err)

	raw, err := a.Sign("user-1", "admin", "company-1")
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	a, err := NewSigner([]byte("shared"), "issuer-a", time.Hour)
	require.NoError(t, err)
	b, err := NewSigner([]byte("shared"), "issuer-b", time.Hour)
	require.NoError(t, err)

	raw, err := a.Sign("user-1", "admin", "company-1")
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSignerRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewSigner(nil, "carisma", time.Hour)
	require.Error(t, err)
}
