package auth

import "context"

// identityKey is a private type for the identity context key.
type identityKey struct{}

// SetIdentity stores the authenticated identity in the context.
func SetIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the authenticated identity.
// Returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}

// RequireIdentity returns the authenticated identity or ErrUnauthenticated
// for anonymous requests. For handlers that cannot serve anonymously.
func RequireIdentity(ctx context.Context) (*Identity, error) {
	id := IdentityFromContext(ctx)
	if id == nil || id.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	return id, nil
}
