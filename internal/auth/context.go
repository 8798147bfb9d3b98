package auth

import "context"

type identityKey struct{}

// MetadataKey marks huma operations that require an authenticated caller.
// Attach `auth.MetadataKey: true` to an operation's Metadata to opt in.
const MetadataKey = "requireAuth"

// ContextWithIdentity adds the authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)

	return id, ok
}
