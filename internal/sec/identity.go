package sec

import (
	"context"

	"connectrpc.com/authn"
)

// Identity is the authenticated caller bound to a session. It is the only
// source of the acting user's ID for every protected operation.
type Identity struct {
	ID       uint64
	Username string
	Email    string
}

// GetIdentity returns the identity of the authenticated caller. Returns a
// zero-value Identity if the context has no authenticated caller or if the
// stored value is not an Identity (should only happen if middleware is
// misconfigured).
func GetIdentity(ctx context.Context) Identity {
	if id, ok := authn.GetInfo(ctx).(Identity); ok {
		return id
	}
	return Identity{}
}

// SetIdentity sets the identity of an authenticated caller. The session
// middleware injects this information; this function is also a convenience
// for testing.
func SetIdentity(ctx context.Context, id Identity) context.Context {
	return authn.SetInfo(ctx, id)
}
