package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when a row does not exist or is not owned
	// by the requesting user. The two cases are deliberately merged so
	// callers cannot confirm a foreign resource's existence.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user with the given email
	// already exists. The database uniqueness constraint is the source
	// of truth under concurrent registration.
	ErrDuplicateEmail = errors.New("email already registered")
)
