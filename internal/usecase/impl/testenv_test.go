package impl

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"marketplace/config"
	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/internal/domain/service"
	"marketplace/internal/infra/auth"
	"marketplace/internal/infra/persistence/postgres"
	"marketplace/internal/infra/qrcode"
	"marketplace/internal/infra/storage"
	"marketplace/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

// testEnv wires the usecases against a private SQLite database and an
// in-memory bucket.
type testEnv struct {
	cfg       *config.Config
	txManager repository.TransactionManager
	storage   service.ObjectStorage
	auth      usecase.AuthUsecase
	profiles  usecase.ProfileUsecase
	catalog   usecase.CategoryUsecase
	products  usecase.ProductUsecase
	images    usecase.StorageUsecase
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4, AccessTokenTTL: time.Hour, MinPasswordLen: 6},
	}
	cfg.SecretKey.Access = "integration_test_access_secret_key"
	cfg.ApplyDefaults()
	cfg.Storage.PublicBaseURL = "http://localhost:8080/storage/product-images"

	return cfg
}

func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := newTestConfig()
	if mutate != nil {
		mutate(cfg)
	}

	dsn := "file:" + filepath.Join(t.TempDir(), "marketplace.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := postgres.OpenSQLite(dsn)
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

	logger := discardLogger()

	return &testEnv{
		cfg:       cfg,
		txManager: txManager,
		storage:   objectStorage,
		auth: NewAuthService(AuthServiceParams{
			TxManager:    txManager,
			Hasher:       auth.NewBcryptHasher(cfg),
			TokenService: tokenService,
			Hooks:        []service.IdentityHook{NewProfileProvisioner(cfg, logger)},
			Config:       cfg,
			Logger:       logger,
		}),
		profiles: NewProfileService(ProfileServiceParams{TxManager: txManager, Config: cfg, Logger: logger}),
		catalog:  NewCategoryService(txManager, logger),
		products: NewProductService(ProductServiceParams{
			TxManager: txManager,
			Storage:   objectStorage,
			QRCode:    qrcode.NewQRCodeService(cfg),
			Config:    cfg,
			Logger:    logger,
		}),
		images: NewStorageService(objectStorage, logger),
	}
}

// signUp creates an identity and returns its principal as the auth middleware would build it.
func (env *testEnv) signUp(t *testing.T, email string, metadata map[string]any) entity.Principal {
	t.Helper()

	out, err := env.auth.SignUp(context.Background(), &usecase.SignUpInput{
		Email:    email,
		Password: "secret123",
		Metadata: metadata,
	})
	require.NoError(t, err)

	return entity.NewPrincipal(out.Profile.ID, out.Profile.Email, out.Profile.Role)
}

func (env *testEnv) seller(t *testing.T, email string) entity.Principal {
	t.Helper()

	return env.signUp(t, email, map[string]any{"full_name": "Seller", "role": "seller"})
}

func (env *testEnv) createProduct(t *testing.T, seller entity.Principal, quantity int) *entity.Product {
	t.Helper()

	product, err := env.products.CreateProduct(context.Background(), seller, &usecase.CreateProductInput{
		Name:        "Desk Lamp",
		Description: "Warm white LED lamp",
		Price:       decimal.RequireFromString("24.50"),
		Quantity:    quantity,
	})
	require.NoError(t, err)

	return product
}
