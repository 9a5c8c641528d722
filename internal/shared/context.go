package shared

import "context"

// Identity describes the authenticated member attached to a request.
type Identity struct {
	UserID      int64
	Username    string
	IsSuperuser bool
}

type contextKey string

const identityKey contextKey = "providence.identity"

// ContextWithIdentity attaches the identity to the context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity, or nil when unauthenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// IsSuperuser reports whether the request carries a superuser identity.
func IsSuperuser(ctx context.Context) bool {
	id := IdentityFromContext(ctx)
	return id != nil && id.IsSuperuser
}
