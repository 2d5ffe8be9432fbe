package httpx

import (
	"context"

	"github.com/spectrelabs/authgate/pkg/jwtx"
)

type ctxKey struct{}

// Identity is the authenticated principal the guard attaches to the
// request context. It is created per request and read-only downstream;
// nothing in it survives the request.
type Identity struct {
	// Subject is the authenticated principal's ID.
	Subject string

	// Roles granted to the subject. May be empty.
	Roles []string

	// Claims is the full decoded claim set, for handlers that need
	// extra claims beyond subject and roles.
	Claims jwtx.Claims
}

// ContextWithIdentity returns a context carrying the identity.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the attached identity, if any. A false
// return means the guard bypassed the request unauthenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
