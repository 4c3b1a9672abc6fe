package context

import (
	"context"

	"marketplace/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyPrincipal is the key for storing the authenticated principal.
const KeyPrincipal ContextKey = "principal"

// SetPrincipal stores the principal on echo.Context and on the request context,
// so usecases reached through c.Request().Context() see the same caller.
func SetPrincipal(c echo.Context, principal entity.Principal) {
	c.Set(string(KeyPrincipal), principal)
	c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), principal)))
}

// GetPrincipal returns the principal of the request, or the anonymous
// principal when no token was presented.
func GetPrincipal(c echo.Context) entity.Principal {
	if principal, ok := c.Get(string(KeyPrincipal)).(entity.Principal); ok {
		return principal
	}

	return entity.Anonymous()
}

// WithPrincipal returns a new context carrying the principal.
func WithPrincipal(ctx context.Context, principal entity.Principal) context.Context {
	return context.WithValue(ctx, KeyPrincipal, principal)
}

// PrincipalFromContext extracts the principal from context.Context.
func PrincipalFromContext(ctx context.Context) entity.Principal {
	if principal, ok := ctx.Value(KeyPrincipal).(entity.Principal); ok {
		return principal
	}

	return entity.Anonymous()
}
