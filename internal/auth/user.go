package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is an account that can own links. Deleting a user does not cascade
// to its links; ownership is relational metadata only.
type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	CreatedAt      time.Time
}

var (
	// ErrEmailTaken means the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrInvalidToken means the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound means no user exists under the given id or email.
	ErrUserNotFound = errors.New("user not found")
)

// Repository is the persistent store for users.
type Repository interface {
	// CreateUser persists a new user, assigning its ID. Returns
	// ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, u *User) error

	// FindByEmail returns the user registered under the email, or
	// ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the user with the given id, or ErrUserNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}
