package auth

import (
	"context"
	"time"

	"custcrm/internal/model"
)

// Identity is the authenticated user attached to a request.
type Identity struct {
	UserID    uint
	Username  string
	Role      model.Role
	TokenID   string
	ExpiresAt time.Time
}

// IsStaff reports whether the identity may manage users.
func (i *Identity) IsStaff() bool {
	_, staff := i.Role.Flags()
	return staff
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by the session middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
