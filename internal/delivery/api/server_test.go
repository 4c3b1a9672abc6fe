package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"marketplace/config"
	"marketplace/internal/delivery/api/middleware"
	"marketplace/internal/delivery/api/response"
	"marketplace/internal/delivery/api/router"
	"marketplace/internal/delivery/api/router/handler"
	"marketplace/internal/domain/service"
	"marketplace/internal/infra/auth"
	"marketplace/internal/infra/metrics"
	"marketplace/internal/infra/persistence/postgres"
	"marketplace/internal/infra/qrcode"
	"marketplace/internal/infra/storage"
	"marketplace/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorInfo `json:"error"`
	Meta  *response.MetaInfo  `json:"meta"`
}

// newTestServer wires the full HTTP stack against SQLite and an in-memory bucket.
func newTestServer(t *testing.T, mutate ...func(*config.Config)) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Auth:    &config.AuthConfig{BcryptCost: 4, AccessTokenTTL: time.Hour},
		Metrics: &config.MetricsConfig{Enabled: true},
	}
	cfg.SecretKey.Access = "api_test_access_secret_key"
	cfg.ApplyDefaults()
	cfg.Storage.PublicBaseURL = "http://localhost:8080/storage/product-images"
	for _, fn := range mutate {
		fn(cfg)
	}

	db, err := postgres.OpenSQLite("file:" + filepath.Join(t.TempDir(), "api.db") + "?_foreign_keys=on&_busy_timeout=5000")
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(context.Background(), db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	txManager := postgres.NewTransactionManager(db)
	_, err = postgres.SeedCategories(context.Background(), txManager)
	require.NoError(t, err)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	objectStorage := storage.NewBucketStorage(bucket, cfg.Storage)

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(cfg)

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:    txManager,
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: tokenService,
		Hooks:        []service.IdentityHook{impl.NewProfileProvisioner(cfg, logger)},
		Config:       cfg,
		Logger:       logger,
	})
	productUC := impl.NewProductService(impl.ProductServiceParams{
		TxManager: txManager,
		Storage:   objectStorage,
		QRCode:    qrcode.NewQRCodeService(cfg),
		Config:    cfg,
		Logger:    logger,
	})

	return newEcho(ServerParams{
		Cfg:     cfg,
		Logger:  logger,
		Metrics: m,
		RouterParams: router.RouterParams{
			AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC, Metrics: m, Logger: logger}),
			ProfileHandler: handler.NewProfileHandler(handler.ProfileHandlerParams{
				ProfileUC: impl.NewProfileService(impl.ProfileServiceParams{TxManager: txManager, Config: cfg, Logger: logger}),
				Logger:    logger,
			}),
			CategoryHandler: handler.NewCategoryHandler(impl.NewCategoryService(txManager, logger)),
			ProductHandler:  handler.NewProductHandler(handler.ProductHandlerParams{ProductUC: productUC, Metrics: m, Logger: logger}),
			StorageHandler: handler.NewStorageHandler(handler.StorageHandlerParams{
				StorageUC: impl.NewStorageService(objectStorage, logger),
				Metrics:   m,
				Logger:    logger,
			}),
			AuthMiddleware: middleware.NewAuthMiddleware(tokenService, logger),
			Metrics:        m,
		},
	})
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	return serve(t, e, req)
}

func serve(t *testing.T, e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func signUp(t *testing.T, e *echo.Echo, email, role string) string {
	t.Helper()

	rec, env := doJSON(t, e, http.MethodPost, "/auth/signup", "", map[string]any{
		"email":    email,
		"password": "secret123",
		"metadata": map[string]any{"full_name": "Test User", "role": role},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out handler.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.AccessToken)
	assert.Equal(t, role, out.Profile.Role)

	return out.AccessToken
}

func TestServer_Health(t *testing.T) {
	e := newTestServer(t)

	rec, _ := doJSON(t, e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_SignUpRejectsUnknownRole(t *testing.T) {
	e := newTestServer(t)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/signup", "", map[string]any{
		"email":    "odd@example.com",
		"password": "secret123",
		"metadata": map[string]any{"role": "admin"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_ROLE", env.Error.Code)

	rec, env = doJSON(t, e, http.MethodPost, "/auth/signin", "", map[string]any{
		"email":    "odd@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestServer_ProductLifecycle(t *testing.T) {
	e := newTestServer(t)
	sellerToken := signUp(t, e, "seller@example.com", "seller")
	buyerToken := signUp(t, e, "buyer@example.com", "buyer")

	// buyers cannot list products
	rec, env := doJSON(t, e, http.MethodPost, "/api/v1/products", buyerToken, map[string]any{
		"name": "Lamp", "price": "10.00", "quantity": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, env = doJSON(t, e, http.MethodPost, "/api/v1/products", sellerToken, map[string]any{
		"name": "Lamp", "description": "Desk lamp", "price": "12.50", "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product handler.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "12.50", product.Price)
	assert.True(t, product.Active)

	// storefront listing is public
	rec, env = doJSON(t, e, http.MethodGet, "/api/v1/products?sort=price_asc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []handler.ProductResponse `json:"items"`
		Limit int                       `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, 50, page.Limit)

	purchasePath := "/api/v1/products/" + product.ID + "/purchase"

	rec, env = doJSON(t, e, http.MethodPost, purchasePath, "", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	rec, env = doJSON(t, e, http.MethodPost, purchasePath, buyerToken, map[string]any{"quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var purchase handler.PurchaseResponse
	require.NoError(t, json.Unmarshal(env.Data, &purchase))
	assert.Equal(t, 1, purchase.Product.Quantity)

	rec, env = doJSON(t, e, http.MethodPost, purchasePath, buyerToken, map[string]any{"quantity": 2})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)

	rec, env = doJSON(t, e, http.MethodPost, purchasePath, buyerToken, map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	// only the seller may edit the row; others see it as missing
	rec, env = doJSON(t, e, http.MethodPatch, "/api/v1/products/"+product.ID, buyerToken, map[string]any{"price": "1.00"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Error.Code)

	rec, env = doJSON(t, e, http.MethodPatch, "/api/v1/products/"+product.ID, sellerToken, map[string]any{"active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/products/"+product.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = doJSON(t, e, http.MethodGet, "/api/v1/dashboard", sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dashboard handler.DashboardResponse
	require.NoError(t, json.Unmarshal(env.Data, &dashboard))
	assert.Equal(t, 1, dashboard.TotalProducts)
	assert.Equal(t, 0, dashboard.ActiveProducts)
	assert.Equal(t, "12.50", dashboard.InventoryValue)

	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/dashboard", buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(t, e, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "marketplace_purchases_total")
	assert.Contains(t, rec.Body.String(), "marketplace_units_sold_total 2")
}

func TestServer_InvalidToken(t *testing.T) {
	e := newTestServer(t)

	rec, env := doJSON(t, e, http.MethodGet, "/api/v1/profiles/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	// a broken token is rejected even on routes that allow anonymous access
	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/categories", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = doJSON(t, e, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []handler.CategoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	require.NotEmpty(t, categories)
	assert.Equal(t, "Books", categories[0].Name)
}

func TestServer_ProfileRoleChangeBlocked(t *testing.T) {
	e := newTestServer(t)
	token := signUp(t, e, "buyer2@example.com", "buyer")

	rec, env := doJSON(t, e, http.MethodPatch, "/api/v1/profiles/me", token, map[string]any{"role": "seller"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ROLE_CHANGE_FORBIDDEN", env.Error.Code)

	rec, env = doJSON(t, e, http.MethodPatch, "/api/v1/profiles/me", token, map[string]any{"full_name": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	var profile handler.ProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Renamed", profile.FullName)
}

func TestServer_PromotedSellerKeepsToken(t *testing.T) {
	e := newTestServer(t, func(cfg *config.Config) { cfg.Profiles.AllowRoleChange = true })
	token := signUp(t, e, "promoted@example.com", "buyer")

	rec, env := doJSON(t, e, http.MethodGet, "/api/v1/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, _ = doJSON(t, e, http.MethodPatch, "/api/v1/profiles/me", token, map[string]any{"role": "seller"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The token still says buyer; the stored profile role decides.
	rec, _ = doJSON(t, e, http.MethodPost, "/api/v1/products", token, map[string]any{
		"name": "Chair", "price": "40.00", "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = doJSON(t, e, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dashboard handler.DashboardResponse
	require.NoError(t, json.Unmarshal(env.Data, &dashboard))
	assert.Len(t, dashboard.Products, 1)
}

func TestServer_ImageUploadAndPublicRead(t *testing.T) {
	e := newTestServer(t)
	token := signUp(t, e, "img@example.com", "seller")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(pngImage)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/storage/product-images", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec, env := serve(t, e, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var obj handler.StoredObjectResponse
	require.NoError(t, json.Unmarshal(env.Data, &obj))
	assert.True(t, strings.HasSuffix(obj.Name, ".png"))
	assert.Equal(t, "image/png", obj.ContentType)

	rec, _ = serve(t, e, httptest.NewRequest(http.MethodGet, "/storage/product-images/"+obj.Name, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, pngImage, rec.Body.Bytes())

	// another identity cannot delete it
	other := signUp(t, e, "other@example.com", "buyer")
	rec, _ = doJSON(t, e, http.MethodDelete, "/api/v1/storage/product-images/"+obj.Name, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, e, http.MethodDelete, "/api/v1/storage/product-images/"+obj.Name, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
