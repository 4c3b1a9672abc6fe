package handler

import (
	"log/slog"
	"net/http"

	"marketplace/internal/delivery/api/response"
	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/infra/metrics"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC  usecase.AuthUsecase
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// AuthHandler serves signup, signin and account deletion.
type AuthHandler struct {
	authUC  usecase.AuthUsecase
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:  params.AuthUC,
		metrics: params.Metrics,
		logger:  params.Logger,
	}
}

// SignUpRequest represents the request body for creating an identity.
// Metadata is passed through untouched; full_name and role are read from it.
type SignUpRequest struct {
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required"`
	Metadata map[string]any `json:"metadata"`
}

// SignInRequest represents the request body for signing in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUp handles identity creation.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid signup input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	out, err := h.authUC.SignUp(c.Request().Context(), &usecase.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Metadata: req.Metadata,
	})
	h.metrics.ObserveSignup(err)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, newAuthResponse(out))
}

// SignIn handles password sign in.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid signin input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	out, err := h.authUC.SignIn(c.Request().Context(), &usecase.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newAuthResponse(out))
}

// DeleteAccount removes the caller's identity.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	if err := h.authUC.DeleteAccount(c.Request().Context(), deliverycontext.GetPrincipal(c)); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}
