// Package jwtx issues and verifies the HS256 access tokens the CRM API uses
// for first-party sessions. Tokens carry the user's id, role and company so
// handlers never need a database round trip to authorize a request.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is how long a login session token stays valid.
const DefaultAccessTokenTTL = 1 * time.Hour

var (
	// ErrInvalidToken reports a token that failed signature or structural
	// validation.
	ErrInvalidToken = errors.New("jwtx: invalid token")
	// ErrTokenExpired reports a structurally valid but expired token.
	ErrTokenExpired = errors.New("jwtx: token expired")
)

// Claims are the application claims embedded in every access token.
type Claims struct {
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`

	jwt.RegisteredClaims
}

// Signer mints and verifies access tokens with a single shared secret.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSigner returns a Signer. The secret must be non-empty; ttl of zero
// falls back to DefaultAccessTokenTTL.
func NewSigner(secret []byte, issuer string, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: signing secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return &Signer{secret: secret, issuer: issuer, ttl: ttl}, nil
}

// Sign mints an access token for the given user.
func (s *Signer) Sign(userID, role, companyID string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      role,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (s *Signer) Verify(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
