// Package credentials manages password-based identity: registration with
// policy enforcement and login verification.
//
// Passwords are stored only as bcrypt hashes. Verification recomputes the
// hash and compares in constant time; unknown emails and wrong passwords
// are indistinguishable to the caller.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the email is unknown, so a failed
// lookup costs the same as a failed password check.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Store registers and verifies user credentials on top of a UserStore.
type Store struct {
	users storage.UserStore
}

// New creates a credential store.
func New(users storage.UserStore) *Store {
	return &Store{users: users}
}

// Register validates the email format and password policy, hashes the
// password, and creates the user. A taken email surfaces as a field-level
// validation error regardless of whether it was detected here or by the
// database uniqueness constraint.
func (s *Store) Register(ctx context.Context, email, password string) (*api.User, error) {
	if apiErr := api.ValidateRegister(&api.RegisterRequest{Email: email, Password: password}); apiErr != nil {
		return nil, apiErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, string(hash))
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return nil, api.NewFieldError("email", "a user with this email already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

// Verify checks an email/password pair and returns the matching user.
// Email comparison is exact and case-sensitive.
func (s *Store) Verify(ctx context.Context, email, password string) (*api.User, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
