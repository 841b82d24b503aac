// Package access implements the shared access-code gate. It is a single
// shared-secret check that hands out short-lived session tokens; it is not an
// authentication system and makes no per-user claims.
package access

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "lifepath/pkg/domain-errors"
)

// Sessions mints and validates the session tokens issued after a successful
// access-code check.
type Sessions struct {
	signingKey []byte
	ttl        time.Duration
}

func NewSessions(signingKey string, ttl time.Duration) *Sessions {
	return &Sessions{signingKey: []byte(signingKey), ttl: ttl}
}

// Issue returns a signed token valid for the configured TTL.
func (s *Sessions) Issue(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   "registry-access",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry. Any failure maps to unauthorized;
// callers do not need to distinguish expired from forged.
func (s *Sessions) Validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.signingKey, nil
		})
	if err != nil || !token.Valid {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid or expired session token")
	}
	return nil
}
