/*
password.go - Email/password registration and login

PURPOSE:
  Handles user registration and credential checks. Passwords are hashed
  with bcrypt; the plaintext never touches the store.

KEY CONCEPTS:
  User:                  A registered account. Owns contracts.
  UserStore:             Persistence interface, implemented by the
                         sqlite and memory stores.
  PasswordAuthenticator: Register/Authenticate over a UserStore.

UNIFORM FAILURE:
  Authenticate returns the same ErrInvalidCredentials for an unknown
  email and for a wrong password, so the login form cannot be used to
  probe which emails are registered.

EXAMPLE:
  authn := auth.NewPasswordAuthenticator(store)
  user, err := authn.Register(ctx, "chair@example.com", "Pat", "s3cret-pass")
  user, err = authn.Authenticate(ctx, "chair@example.com", "s3cret-pass")

SEE ALSO:
  - jwt.go: Token issuing for authenticated users
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// =============================================================================
// TYPES
// =============================================================================

// User is a registered account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore handles persistence of users.
type UserStore interface {
	// CreateUser persists a new user. Fails if the email exists.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByEmail returns the user, or ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID returns the user, or ErrUserNotFound.
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUserNotFound means no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken means the email is already registered.
	ErrEmailTaken = errors.New("email address already registered")

	// ErrWeakPassword means the password fails the length requirement.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidEmail means the email does not look like an address.
	ErrInvalidEmail = errors.New("invalid email address")
)

// =============================================================================
// PASSWORD AUTHENTICATOR
// =============================================================================

// PasswordAuthenticator registers users and checks credentials.
type PasswordAuthenticator struct {
	store UserStore
}

// NewPasswordAuthenticator creates an authenticator over the store.
func NewPasswordAuthenticator(store UserStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// Register creates a new account with a bcrypt-hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, password string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	_, err := a.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate checks the credentials and returns the user.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := a.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// NormalizeEmail lowercases and trims an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
