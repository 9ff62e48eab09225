package auth

import "context"

// Identity is the verified caller of a request. The zero value is anonymous.
type Identity struct {
	Authenticated bool
	UserID        string
	Email         string
	Claims        map[string]string
}

func Anonymous() Identity {
	return Identity{Claims: map[string]string{}}
}

func (i Identity) Claim(name string) (string, bool) {
	v, ok := i.Claims[name]
	return v, ok
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id
	}
	return Anonymous()
}
