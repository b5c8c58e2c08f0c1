package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "auth_principal"

type principalCtxKey struct{}

// Principal represents the authenticated caller for one request.
type Principal struct {
	Subject string
}

// WithPrincipal returns a copy of ctx carrying the principal.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, principal)
}

// PrincipalFrom retrieves the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey{}).(*Principal)
	return principal, ok && principal != nil
}

// PrincipalFromContext retrieves the authenticated entity from fiber locals.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
