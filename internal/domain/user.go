// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateUsername indicates a username collision on user creation.
var ErrDuplicateUsername = errors.New("username already taken")

// User represents a registered author in the system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// Create persists a new user. ErrDuplicateUsername is returned when the
	// username is already taken.
	Create(ctx context.Context, username, passwordHash string) (*User, error)
}
