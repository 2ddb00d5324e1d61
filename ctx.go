package marketpoint

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(r context.Context, claims AuthClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

// GetLocalClaims extracts the AuthClaims stored in the request locals by the
// session middleware.
func GetLocalClaims(c *fiber.Ctx, key string) (AuthClaims, bool) {
	if key == "" {
		key = "user"
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

// EnsureActor checks that the session claims carried by the context, when
// present, belong to the given user. Contexts without claims pass; callers
// that never went through the session middleware carry none.
func EnsureActor(ctx context.Context, userID uuid.UUID) error {
	claims, ok := GetClaims(ctx)
	if !ok {
		return nil
	}

	if claims.UserID() != userID.String() {
		return ErrActorMismatch
	}

	return nil
}
