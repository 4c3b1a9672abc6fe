package postgres

import (
	"context"
	"path/filepath"
	"testing"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB returns a migrated SQLite database private to the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "marketplace.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := OpenSQLite(dsn)
	require.NoError(t, err)

	require.NoError(t, Migrate(context.Background(), db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func createTestIdentity(t *testing.T, db *gorm.DB, email string) *entity.Identity {
	t.Helper()

	identity := entity.NewIdentity(email, "hash", nil)
	require.NoError(t, NewIdentityRepository(db).Create(context.Background(), identity))

	return identity
}

func createTestProduct(t *testing.T, repo repository.ProductRepository, seller *entity.Identity, mutate func(*entity.Product)) *entity.Product {
	t.Helper()

	product := entity.NewProduct(seller.ID, "Lamp", "Desk lamp", mustDecimal("19.99"))
	if mutate != nil {
		mutate(product)
	}
	require.NoError(t, repo.Create(context.Background(), product))

	return product
}
