package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/taxpay/taxpay/backend/go-services/internal/credentials"
	"github.com/taxpay/taxpay/backend/go-services/internal/models"
	"github.com/taxpay/taxpay/backend/go-services/internal/tokens"
	"github.com/taxpay/taxpay/backend/go-services/pkg/logger"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// SubjectClaim carries the user's email in issued tokens.
const SubjectClaim = "sub"

// RegisterInput is a validated registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	PAN      string
}

// Service encapsulates registration, login and identity lookup.
type Service struct {
	repo   UserRepository
	hasher *credentials.Hasher
	tokens *tokens.Service
}

func NewService(r UserRepository, h *credentials.Hasher, t *tokens.Service) *Service {
	return &Service{repo: r, hasher: h, tokens: t}
}

// Register creates a user unless one with the same email exists.
// The existence check and the insert are separate store calls, so two concurrent
// registrations for one email can both succeed.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: in.Email, PasswordHash: hash, Name: in.Name, PAN: in.PAN}
	if _, err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	logger.Infof("registered user id=%s", u.ID)
	return u, nil
}

// Login verifies the password and returns a bearer token whose subject is the email.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if u == nil || !s.hasher.Verify(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(map[string]any{SubjectClaim: u.Email}, 0)
}

// GetByEmail returns the user with the given email, or nil when none exists.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.FindByEmail(ctx, email)
}
