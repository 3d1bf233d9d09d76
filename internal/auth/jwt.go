// Package auth issues and verifies bearer tokens for the admin API.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quantgate/signal-sentinel/pkg/errors"
)

// Claims carried by an admin bearer token.
type Claims struct {
	Role string `json:"role"`

	jwt.RegisteredClaims
}

// JWT signs and verifies HS256 tokens with a shared secret.
type JWT struct {
	Secret   []byte
	TokenTTL time.Duration
}

// Sign issues a token for the given claims, filling in standard timestamps.
func (j JWT) Sign(claims Claims) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.NotBefore == nil {
		claims.NotBefore = jwt.NewNumericDate(now.Add(-5 * time.Second))
	}
	if claims.ExpiresAt == nil {
		expiresAt = now.Add(j.TokenTTL)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	} else {
		expiresAt = claims.ExpiresAt.Time
	}
	if claims.Issuer == "" {
		claims.Issuer = "signal-sentinel"
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return s, expiresAt, nil
}

// Verify parses and validates a token, returning its claims.
func (j JWT) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New(errors.ErrCodeUnauthorized, "unexpected signing method")
		}

		return j.Secret, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(errors.ErrCodeUnauthorized, "invalid token", err)
	}

	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New(errors.ErrCodeUnauthorized, "invalid token")
	}

	return *c, nil
}
