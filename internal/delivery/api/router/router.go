// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"marketplace/internal/delivery/api/middleware"
	"marketplace/internal/delivery/api/router/handler"
	"marketplace/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	ProfileHandler  *handler.ProfileHandler
	CategoryHandler *handler.CategoryHandler
	ProductHandler  *handler.ProductHandler
	StorageHandler  *handler.StorageHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Metrics         *metrics.Metrics
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	profileHandler  *handler.ProfileHandler
	categoryHandler *handler.CategoryHandler
	productHandler  *handler.ProductHandler
	storageHandler  *handler.StorageHandler
	authMiddleware  *middleware.AuthMiddleware
	metrics         *metrics.Metrics
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		profileHandler:  params.ProfileHandler,
		categoryHandler: params.CategoryHandler,
		productHandler:  params.ProductHandler,
		storageHandler:  params.StorageHandler,
		authMiddleware:  params.AuthMiddleware,
		metrics:         params.Metrics,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	if r.metrics != nil && r.metrics.Enabled() {
		e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))
	}

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.SignUp)
		authGroup.POST("/signin", r.authHandler.SignIn)
	}

	// Public bucket reads
	e.GET("/storage/product-images/*", r.storageHandler.Download, r.authMiddleware.OptionalAuth)

	apiV1 := e.Group("/api/v1")

	// Routes readable anonymously; a token, when present, widens what the matrix shows
	public := apiV1.Group("", r.authMiddleware.OptionalAuth)
	{
		public.GET("/profiles/:id", r.profileHandler.GetByID)
		public.GET("/categories", r.categoryHandler.List)
		public.GET("/products", r.productHandler.List)
		public.GET("/products/:id", r.productHandler.Get)
		public.GET("/products/:id/qrcode", r.productHandler.QRCode)
	}

	private := apiV1.Group("", r.authMiddleware.Authenticate)
	{
		private.DELETE("/account", r.authHandler.DeleteAccount)

		private.GET("/profiles/me", r.profileHandler.GetMe)
		private.PATCH("/profiles/me", r.profileHandler.UpdateMe)

		// Seller-only; the product service checks the stored profile role.
		private.POST("/products", r.productHandler.Create)
		private.GET("/dashboard", r.productHandler.Dashboard)
		private.PATCH("/products/:id", r.productHandler.Update)
		private.DELETE("/products/:id", r.productHandler.Delete)
		private.POST("/products/:id/purchase", r.productHandler.Purchase)

		private.POST("/storage/product-images", r.storageHandler.Upload)
		private.PUT("/storage/product-images/*", r.storageHandler.Replace)
		private.DELETE("/storage/product-images/*", r.storageHandler.Delete)
	}
}
