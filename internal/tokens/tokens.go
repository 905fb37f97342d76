// Package tokens issues and verifies time-bounded HS256 bearer tokens.
//
// Tokens are stateless: there is no server-side session or revocation list, the single
// process-wide secret signs everything, and rotating it invalidates every outstanding token.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime applied when Issue is called with a non-positive ttl.
const DefaultTTL = 24 * time.Hour

var (
	// ErrExpiredToken means the token was well formed and correctly signed but is past its expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidToken covers every other failure: malformed, tampered, wrong algorithm.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the verified token payload.
type Claims = jwt.MapClaims

// Service signs and verifies tokens with one secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService returns a Service using secret and defaultTTL (DefaultTTL when non-positive).
func NewService(secret string, defaultTTL time.Duration) *Service {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: defaultTTL, now: time.Now}
}

// WithClock replaces the time source used for issuing and expiry checks.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TTL returns the default token lifetime.

// Issue signs claims plus iat and exp (now + ttl).
func (s *Service) Issue(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(ttl).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (s *Service) Verify(raw string) (Claims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
