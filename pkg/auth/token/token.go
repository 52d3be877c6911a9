// Package token issues and verifies the signed bearer tokens that carry
// user identity between login and subsequent requests.
//
// Tokens are HS256 JWTs over a shared secret with the claims
// {id, email, iat, exp} in epoch seconds. Verification pins the algorithm:
// a token signed with anything other than HS256 fails as a bad signature
// rather than being accepted under a different scheme.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/auth"
	"github.com/hydrolog/hydrolog/pkg/observability"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

// Verification failures, ordered by loudness. ErrBadSignature is the only
// one the middleware turns into an outright rejection; the rest resolve to
// an anonymous request.
var (
	ErrBadSignature   = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrNoSubject      = errors.New("token carries no subject id")
	ErrUnknownSubject = errors.New("token subject does not resolve to a user")
)

// DefaultLifetime is the token validity window unless configured otherwise.
const DefaultLifetime = 8 * time.Hour

// Config holds the token service configuration. It is copied at
// construction and never mutated afterwards.
type Config struct {
	// Secret is the symmetric signing key. Required.
	Secret string

	// Lifetime is the validity window of issued tokens. Default: 8 hours.
	Lifetime time.Duration
}

// applyDefaults fills in zero-value fields.
func (c *Config) applyDefaults() {
	if c.Lifetime == 0 {
		c.Lifetime = DefaultLifetime
	}
}

// UserResolver resolves a token's subject id to a live user. A token whose
// subject no longer exists verifies as unauthenticated, not as an error.
type UserResolver interface {
	UserByID(ctx context.Context, id int64) (*api.User, error)
}

// Service issues and verifies bearer tokens.
type Service struct {
	config Config
	users  UserResolver
}

// New creates a token service with the given configuration and subject
// resolver.
func New(cfg Config, users UserResolver) *Service {
	cfg.applyDefaults()
	return &Service{config: cfg, users: users}
}

// Lifetime returns the configured token validity window.
func (s *Service) Lifetime() time.Duration {
	return s.config.Lifetime
}

// Issue creates a signed token for the given user.
func (s *Service) Issue(user *api.User) (string, error) {
	now := time.Now()
	claims := jwtlib.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.config.Lifetime).Unix(),
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks a raw token value and resolves it to an identity. The raw
// value may carry a "Bearer" prefix in any case and surrounding
// whitespace; both are stripped before verification.
//
// Failures, in check order: ErrBadSignature (including algorithm
// mismatch), ErrTokenExpired, ErrTokenMalformed for other decode
// problems, ErrNoSubject when the id claim is missing, and
// ErrUnknownSubject when the id resolves to no user.
func (s *Service) Verify(ctx context.Context, raw string) (*auth.Identity, error) {
	tokenStr := stripScheme(raw)
	if tokenStr == "" {
		return nil, ErrTokenMalformed
	}

	token, err := jwtlib.Parse(tokenStr, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))

	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwtlib.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	subject, ok := claimID(claims)
	if !ok {
		return nil, ErrNoSubject
	}

	user, err := s.users.UserByID(ctx, subject)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnknownSubject
	}
	if err != nil {
		return nil, fmt.Errorf("resolving token subject: %w", err)
	}

	return &auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Claims: claims,
	}, nil
}

// Authenticate implements auth.Authenticator. The Authorization header is
// the credential; its absence abstains. A bad signature votes No, every
// other verification failure abstains into anonymity.
func (s *Service) Authenticate(ctx context.Context, r *http.Request) auth.Result {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.Result{Decision: auth.Abstain}
	}

	identity, err := s.Verify(ctx, header)
	if err == nil {
		return auth.Result{Decision: auth.Yes, Identity: identity}
	}

	observability.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()

	if errors.Is(err, ErrBadSignature) {
		return auth.Result{Decision: auth.No, Err: err}
	}
	return auth.Result{Decision: auth.Abstain}
}

// stripScheme removes an optional bearer prefix and surrounding
// whitespace. Tokens arrive both as bare strings and as full
// "Bearer <token>" header values.
func stripScheme(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 6 && strings.EqualFold(s[:6], "bearer") {
		s = strings.TrimSpace(s[6:])
	}
	return s
}

// claimID extracts the numeric id claim. JSON numbers decode as float64.
func claimID(claims jwtlib.MapClaims) (int64, bool) {
	switch v := claims["id"].(type) {
	case float64:
		if v <= 0 {
			return 0, false
		}
		return int64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// failureReason labels a verification failure for metrics.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrNoSubject):
		return "no_subject"
	case errors.Is(err, ErrUnknownSubject):
		return "unknown_subject"
	default:
		return "malformed"
	}
}
