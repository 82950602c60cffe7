// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/token"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrValidation indicates a request missing required fields.
	ErrValidation = errors.New("missing required fields")
)

// AuthService handles registration, credential checks and session issuance.
type AuthService struct {
	users  domain.UserRepository
	tokens *token.Codec
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, tokens *token.Codec) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user and immediately issues a session token for it.
// domain.ErrDuplicateUsername is returned when the username is taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		return nil, "", err
	}

	signed, err := s.tokens.Issue(user.Username, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// Login authenticates a user and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrValidation
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.Username, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// TokenTTL reports how long issued sessions stay valid. Zero means
// session-until-logout.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Identify verifies a session token and returns the identity it embeds.
func (s *AuthService) Identify(value string) (*token.Claims, error) {
	return s.tokens.Verify(value)
}

// LoginWithUser issues a session for an already authenticated username, e.g.
// after an SSO callback. The user is auto-provisioned on first login; such
// accounts carry no usable password hash and cannot log in with credentials.
func (s *AuthService) LoginWithUser(ctx context.Context, username string) (*domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil {
		user, err = s.users.Create(ctx, username, "")
		if errors.Is(err, domain.ErrDuplicateUsername) {
			// Lost a provisioning race, the row exists now.
			user, err = s.users.GetByUsername(ctx, username)
		}
		if err != nil {
			return nil, "", err
		}
	}

	signed, err := s.tokens.Issue(user.Username, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}
