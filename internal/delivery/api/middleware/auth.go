package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the bearer token into the request principal.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate rejects the request unless it carries a valid access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := m.resolve(c)
		if err != nil {
			return err
		}
		if !principal.IsAuthenticated() {
			return domainerrors.ErrUnauthorized.WithDetails("authorization header is missing")
		}

		deliverycontext.SetPrincipal(c, principal)

		return next(c)
	}
}

// OptionalAuth attaches the principal when a token is present and lets
// anonymous requests through. A malformed or expired token is still rejected.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := m.resolve(c)
		if err != nil {
			return err
		}

		deliverycontext.SetPrincipal(c, principal)

		return next(c)
	}
}

func (m *AuthMiddleware) resolve(c echo.Context) (entity.Principal, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return entity.Anonymous(), nil
	}

	tokenString, found := strings.CutPrefix(authHeader, bearerPrefix)
	if !found || tokenString == "" {
		return entity.Anonymous(), domainerrors.ErrUnauthorized.WithDetails("invalid token format, must be Bearer token")
	}

	claims, err := m.tokenSvc.ValidateToken(tokenString)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Debug("Rejected access token", slog.Any("error", err))

		return entity.Anonymous(), domainerrors.ErrUnauthorized.WithDetails("invalid or expired token")
	}

	role, ok := entity.ParseRole(claims.Role)
	if !ok {
		return entity.Anonymous(), domainerrors.ErrUnauthorized.WithDetails("token carries an unknown role")
	}

	return entity.NewPrincipal(claims.UserID, claims.Email, role), nil
}
