package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestIdentityRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdentityRepository(db)
	ctx := context.Background()

	identity := entity.NewIdentity("Ada@Example.com", "hash", map[string]any{"full_name": "Ada"})
	require.NoError(t, repo.Create(ctx, identity))

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, byEmail.ID)
	assert.Equal(t, "Ada", byEmail.Metadata["full_name"])

	byID, err := repo.FindByID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)
}

func TestIdentityRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdentityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, entity.NewIdentity("dup@example.com", "hash", nil)))

	err := repo.Create(ctx, entity.NewIdentity("dup@example.com", "hash", nil))
	assert.True(t, errors.Is(err, domainerrors.ErrIdentityAlreadyExists))
}

func TestIdentityRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	identityRepo := NewIdentityRepository(db)
	profileRepo := NewProfileRepository(db)
	productRepo := NewProductRepository(db)

	seller := createTestIdentity(t, db, "seller@example.com")
	require.NoError(t, profileRepo.Create(ctx, entity.NewProfile(seller.ID, seller.Email)))
	product := createTestProduct(t, productRepo, seller, nil)

	require.NoError(t, identityRepo.Delete(ctx, seller.ID))

	_, err := profileRepo.FindByID(ctx, seller.ID)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)

	_, err = productRepo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	assert.ErrorIs(t, identityRepo.Delete(ctx, seller.ID), repository.ErrIdentityNotFound)
}

func TestProfileRepository_SchemaDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	identity := createTestIdentity(t, db, "buyer@example.com")
	repo := NewProfileRepository(db)

	require.NoError(t, repo.Create(ctx, &entity.Profile{ID: identity.ID, Email: identity.Email}))

	profile, err := repo.FindByID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBuyer, profile.Role)
	assert.Equal(t, "", profile.FullName)
	assert.False(t, profile.CreatedAt.IsZero())
}

func TestProfileRepository_OnePerIdentity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	identity := createTestIdentity(t, db, "one@example.com")
	repo := NewProfileRepository(db)

	require.NoError(t, repo.Create(ctx, entity.NewProfile(identity.ID, identity.Email)))

	err := repo.Create(ctx, entity.NewProfile(identity.ID, identity.Email))
	assert.True(t, errors.Is(err, domainerrors.ErrProfileAlreadyExists))
}

func TestProfileRepository_RequiresIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)

	err := repo.Create(context.Background(), entity.NewProfile(uuid.New(), "ghost@example.com"))
	assert.True(t, errors.Is(err, domainerrors.ErrIdentityNotFound))
}

func TestProfileRepository_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	identity := createTestIdentity(t, db, "edit@example.com")
	repo := NewProfileRepository(db)
	profile := entity.NewProfile(identity.ID, identity.Email)
	require.NoError(t, repo.Create(ctx, profile))

	profile.FullName = "Grace"
	profile.Role = entity.RoleSeller
	require.NoError(t, repo.Update(ctx, profile))

	stored, err := repo.FindByID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", stored.FullName)
	assert.Equal(t, entity.RoleSeller, stored.Role)

	assert.ErrorIs(t, repo.Update(ctx, entity.NewProfile(uuid.New(), "x@example.com")), repository.ErrProfileNotFound)
}

func TestCategoryRepository_SeedOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	txManager := NewTransactionManager(db)

	inserted, err := SeedCategories(ctx, txManager)
	require.NoError(t, err)
	assert.Equal(t, 5, inserted)

	inserted, err = SeedCategories(ctx, txManager)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	categories, err := NewCategoryRepository(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 5)

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Books", "Clothing", "Electronics", "Home & Garden", "Sports & Outdoors"}, names)
}

func TestProductRepository_CreateKeepsExplicitInactive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)
	seller := createTestIdentity(t, db, "seller@example.com")

	product := createTestProduct(t, repo, seller, func(p *entity.Product) {
		p.Active = false
		p.Quantity = 3
	})

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Equal(t, 3, stored.Quantity)
	assert.True(t, mustDecimal("19.99").Equal(stored.Price))
}

func TestProductRepository_ListVisibilityAndFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)
	seller := createTestIdentity(t, db, "seller@example.com")
	other := createTestIdentity(t, db, "other@example.com")

	_, err := SeedCategories(ctx, NewTransactionManager(db))
	require.NoError(t, err)
	categories, err := NewCategoryRepository(db).List(ctx)
	require.NoError(t, err)
	books := categories[0].ID

	cheap := createTestProduct(t, repo, seller, func(p *entity.Product) {
		p.Name = "Paperback Novel"
		p.Price = mustDecimal("5.00")
		p.CategoryID = &books
	})
	createTestProduct(t, repo, seller, func(p *entity.Product) {
		p.Name = "Hidden Lamp"
		p.Active = false
	})
	pricey := createTestProduct(t, repo, other, func(p *entity.Product) {
		p.Name = "Espresso Machine"
		p.Price = mustDecimal("499.90")
	})

	anonymous, err := repo.List(ctx, repository.ProductFilter{
		Visibility: &repository.ProductVisibility{},
		Sort:       entity.SortPriceAsc,
	})
	require.NoError(t, err)
	require.Len(t, anonymous, 2)
	assert.Equal(t, cheap.ID, anonymous[0].ID)
	assert.Equal(t, pricey.ID, anonymous[1].ID)

	own, err := repo.List(ctx, repository.ProductFilter{
		Visibility: &repository.ProductVisibility{ViewerID: seller.ID},
		SellerID:   &seller.ID,
	})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	byCategory, err := repo.List(ctx, repository.ProductFilter{CategoryID: &books})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, cheap.ID, byCategory[0].ID)

	searched, err := repo.List(ctx, repository.ProductFilter{Search: "ESPRESSO"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, pricey.ID, searched[0].ID)

	literal, err := repo.List(ctx, repository.ProductFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Empty(t, literal)

	paged, err := repo.List(ctx, repository.ProductFilter{Sort: entity.SortName, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "Hidden Lamp", paged[0].Name)
}

func TestProductRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)
	seller := createTestIdentity(t, db, "seller@example.com")
	product := createTestProduct(t, repo, seller, nil)

	product.Active = false
	product.Quantity = 0
	product.Price = mustDecimal("7.50")
	require.NoError(t, repo.Update(ctx, product))

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Equal(t, 0, stored.Quantity)
	assert.True(t, mustDecimal("7.5").Equal(stored.Price))

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), repository.ErrProductNotFound)
}

func TestProductRepository_DecrementStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)
	seller := createTestIdentity(t, db, "seller@example.com")
	product := createTestProduct(t, repo, seller, func(p *entity.Product) { p.Quantity = 2 })

	ok, err := repo.DecrementStock(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}

func TestProductRepository_ConcurrentDecrementOfLastUnit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)
	seller := createTestIdentity(t, db, "seller@example.com")
	product := createTestProduct(t, repo, seller, func(p *entity.Product) { p.Quantity = 1 })

	const buyers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	start := make(chan struct{})
	for range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := repo.DecrementStock(ctx, product.ID, 1)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
	assert.WithinDuration(t, time.Now(), stored.UpdatedAt, time.Minute)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	txManager := NewTransactionManager(db)
	identity := entity.NewIdentity("rollback@example.com", "hash", nil)
	boom := errors.New("boom")

	err := txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.IdentityRepo().Create(ctx, identity); err != nil {
			return err
		}

		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = NewIdentityRepository(db).FindByID(ctx, identity.ID)
	assert.ErrorIs(t, err, repository.ErrIdentityNotFound)
}
