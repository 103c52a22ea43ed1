package middleware

import (
	"context"

	"github.com/Aakash768/imf-gadget-api/internal/models"
)

type userKey struct{}

// UserCtx is the resolved identity attached after a successful token check
// and user lookup.
type UserCtx struct {
	UserID   string
	Username string
	Role     models.Role
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) (UserCtx, bool) {
	if v := ctx.Value(userKey{}); v != nil {
		if u, ok := v.(UserCtx); ok {
			return u, true
		}
	}
	return UserCtx{}, false
}
