// Package auth resolves an inbound Authorization header to a registered user.
//
// Every failure is a *Failure carrying the internal reason; all of them match
// ErrUnauthorized so the HTTP layer can answer with one undifferentiated 401.
// Store failures are not authentication failures and propagate unchanged.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taxpay/taxpay/backend/go-services/internal/models"
	"github.com/taxpay/taxpay/backend/go-services/internal/tokens"
)

// ErrUnauthorized is matched by every Failure.
var ErrUnauthorized = errors.New("unauthorized")

// Reason tags why a credential was rejected.
type Reason string

const (
	ReasonMissingCredential Reason = "missing_credential"
	ReasonExpiredToken      Reason = "expired_token"
	ReasonInvalidToken      Reason = "invalid_token"
	ReasonMalformedClaims   Reason = "malformed_claims"
	ReasonUnknownSubject    Reason = "unknown_subject"
)

// Failure is an authentication rejection.
type Failure struct {
	Reason Reason
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("unauthorized (%s): %v", f.Reason, f.Err)
	}
	return fmt.Sprintf("unauthorized (%s)", f.Reason)
}

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) Is(target error) bool { return target == ErrUnauthorized }

// ReasonOf returns the failure reason of err, or "" when err is not a Failure.
func ReasonOf(err error) Reason {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ""
}

// TokenVerifier verifies a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (tokens.Claims, error)
}

// UserLookup finds a user by email; nil, nil when absent.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Gate combines token verification with a user lookup.
type Gate struct {
	tokens TokenVerifier
	users  UserLookup
	claim  string
}

// NewGate returns a Gate reading the identity from the "sub" claim.
func NewGate(t TokenVerifier, u UserLookup) *Gate {
	return &Gate{tokens: t, users: u, claim: "sub"}
}

// Resolve authenticates rawHeader ("Bearer <token>") and returns the user it names.
func (g *Gate) Resolve(ctx context.Context, rawHeader string) (*models.User, error) {
	raw, ok := bearerToken(rawHeader)
	if !ok {
		return nil, &Failure{Reason: ReasonMissingCredential}
	}
	claims, err := g.tokens.Verify(raw)
	if err != nil {
		if errors.Is(err, tokens.ErrExpiredToken) {
			return nil, &Failure{Reason: ReasonExpiredToken, Err: err}
		}
		return nil, &Failure{Reason: ReasonInvalidToken, Err: err}
	}
	email, _ := claims[g.claim].(string)
	if email == "" {
		return nil, &Failure{Reason: ReasonMalformedClaims}
	}
	u, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("resolve subject: %w", err)
	}
	if u == nil {
		return nil, &Failure{Reason: ReasonUnknownSubject}
	}
	return u, nil
}

// bearerToken extracts the token from "Bearer <token>"; the scheme match is case-insensitive
// and anything after the token is ignored.
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", false
	}
	return fields[1], true
}
