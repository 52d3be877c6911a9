package auth

import (
	"context"
	"errors"
	"net/http"
)

// Decision represents the three possible outcomes of authentication.
type Decision int

const (
	// Yes means credentials are valid. The identity is attached to the request.
	Yes Decision = iota

	// No means credentials are present but forged. The request is rejected.
	No

	// Abstain means no usable credentials were presented. The request
	// continues as anonymous; handlers that need an identity reject it
	// downstream.
	Abstain
)

// Result carries the outcome of an authentication attempt.
type Result struct {
	Decision Decision
	Identity *Identity // populated only when Decision == Yes
	Err      error     // populated only when Decision == No
}

// Identity represents an authenticated caller.
type Identity struct {
	// UserID is the subject's user id (required, non-zero).
	UserID int64

	// Email is the subject's registered email.
	Email string

	// Claims carries the raw token claims for downstream inspection.
	Claims map[string]any
}

// Authenticator examines request credentials and returns a three-outcome vote.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) Result
}

// Sentinel errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
)
