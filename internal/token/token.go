// Package token issues and verifies the signed bearer tokens used for
// authentication.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTTL is the token lifetime. Expiry is the only deactivation
// mechanism; there is no server-side revocation.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for every verification failure. Tampered,
// malformed and expired tokens are not distinguished.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded payload of a verified token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Service signs and verifies tokens with a process-wide secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret []byte, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: secret, ttl: ttl}
}

// Issue mints a signed token for userID with issued-at now and expiry one
// TTL later.
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the claims. Any failure
// collapses to ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
