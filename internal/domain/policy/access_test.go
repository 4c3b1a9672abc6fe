package policy

import (
	"bytes"
	"context"
	"io"
	"testing"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	mockRepo "marketplace/internal/mocks/repository"
	mockSvc "marketplace/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileAccess_GetOtherProfileIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockProfileRepository(t)
	owner := uuid.New()
	viewer := entity.NewPrincipal(uuid.New(), "viewer@example.com", entity.RoleBuyer)

	repo.EXPECT().FindByID(ctx, owner).Return(entity.NewProfile(owner, "owner@example.com"), nil)

	profile, err := NewProfileAccess(viewer, repo).Get(ctx, owner)

	assert.Nil(t, profile)
	assert.True(t, errors.Is(err, domainerrors.ErrProfileNotFound))
}

func TestProfileAccess_MissingAndHiddenLookAlike(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockProfileRepository(t)
	missing := uuid.New()

	repo.EXPECT().FindByID(ctx, missing).Return(nil, repository.ErrProfileNotFound)

	_, err := NewProfileAccess(entity.Anonymous(), repo).Get(ctx, missing)

	assert.True(t, errors.Is(err, domainerrors.ErrProfileNotFound))
}

func TestProfileAccess_InsertForAnotherIdentityViolatesPolicy(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockProfileRepository(t)
	caller := entity.NewPrincipal(uuid.New(), "caller@example.com", entity.RoleBuyer)

	err := NewProfileAccess(caller, repo).Insert(ctx, entity.NewProfile(uuid.New(), "x@example.com"))

	assert.True(t, errors.Is(err, domainerrors.ErrPolicyViolation))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProfileAccess_UpdateOwn(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockProfileRepository(t)
	caller := entity.NewPrincipal(uuid.New(), "caller@example.com", entity.RoleBuyer)
	current := entity.NewProfile(caller.ID, caller.Email)

	repo.EXPECT().FindByID(ctx, caller.ID).Return(current, nil)
	repo.EXPECT().Update(ctx, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.FullName == "Ada" && p.ID == caller.ID
	})).Return(nil)

	updated, err := NewProfileAccess(caller, repo).Update(ctx, caller.ID, func(p *entity.Profile) error {
		p.FullName = "Ada"

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FullName)
	assert.Equal(t, "", current.FullName, "stored row must not be mutated in place")
}

func TestProfileAccess_UpdateOtherIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockProfileRepository(t)
	target := uuid.New()
	caller := entity.NewPrincipal(uuid.New(), "caller@example.com", entity.RoleSeller)

	repo.EXPECT().FindByID(ctx, target).Return(entity.NewProfile(target, "t@example.com"), nil)

	_, err := NewProfileAccess(caller, repo).Update(ctx, target, func(p *entity.Profile) error {
		p.FullName = "pwned"

		return nil
	})

	assert.True(t, errors.Is(err, domainerrors.ErrProfileNotFound))
}

func TestCategoryAccess_MutationsDenied(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockCategoryRepository(t)
	seller := entity.NewPrincipal(uuid.New(), "seller@example.com", entity.RoleSeller)
	category := entity.NewCategory("Toys", "")

	access := NewCategoryAccess(seller, repo)

	err := access.Insert(ctx, category)
	assert.True(t, errors.Is(err, domainerrors.ErrPolicyViolation))

	repo.EXPECT().FindByID(ctx, category.ID).Return(category, nil)

	_, err = access.Update(ctx, category.ID, func(c *entity.Category) error {
		c.Name = "Games"

		return nil
	})
	assert.True(t, errors.Is(err, domainerrors.ErrCategoryNotFound))

	err = access.Delete(ctx, category.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrCategoryNotFound))
}

func TestCategoryAccess_ListForAnonymous(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockCategoryRepository(t)
	seed := entity.SeedCategories()

	repo.EXPECT().List(ctx).Return(seed, nil)

	categories, err := NewCategoryAccess(entity.Anonymous(), repo).List(ctx)

	require.NoError(t, err)
	assert.Len(t, categories, 5)
}

func TestProductAccess_ListPushesVisibilityAndRechecks(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockProductRepository(t)
	buyer := entity.NewPrincipal(uuid.New(), "buyer@example.com", entity.RoleBuyer)
	active := entity.NewProduct(uuid.New(), "Lamp", "", decimal.NewFromInt(5))
	hidden := entity.NewProduct(uuid.New(), "Chair", "", decimal.NewFromInt(5))
	hidden.Active = false

	repo.EXPECT().List(ctx, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Visibility != nil && f.Visibility.ViewerID == buyer.ID
	})).Return([]*entity.Product{active, hidden}, nil)

	products, err := NewProductAccess(buyer, repo).List(ctx, repository.ProductFilter{})

	require.NoError(t, err)
	assert.Equal(t, []*entity.Product{active}, products)
}

func TestProductAccess_ReassigningSellerViolatesPolicy(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockProductRepository(t)
	seller := entity.NewPrincipal(uuid.New(), "seller@example.com", entity.RoleSeller)
	product := entity.NewProduct(seller.ID, "Lamp", "", decimal.NewFromInt(5))

	repo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

	_, err := NewProductAccess(seller, repo).Update(ctx, product.ID, func(p *entity.Product) error {
		p.SellerID = uuid.New()

		return nil
	})

	assert.True(t, errors.Is(err, domainerrors.ErrPolicyViolation))
}

func TestProductAccess_DeleteByOtherIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := mockRepo.NewMockProductRepository(t)
	product := entity.NewProduct(uuid.New(), "Lamp", "", decimal.NewFromInt(5))
	other := entity.NewPrincipal(uuid.New(), "other@example.com", entity.RoleSeller)

	repo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

	err := NewProductAccess(other, repo).Delete(ctx, product.ID)

	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestObjectAccess_UploadRequiresAuthentication(t *testing.T) {
	ctx := context.Background()
	storage := mockSvc.NewMockObjectStorage(t)
	storage.EXPECT().Bucket().Return(ProductImagesBucket)

	_, err := NewObjectAccess(entity.Anonymous(), storage).Upload(ctx, uuid.NewString()+"/1.png", "image/png", []byte("png"))

	assert.True(t, errors.Is(err, domainerrors.ErrPolicyViolation))
}

func TestObjectAccess_UploadStoresNewObject(t *testing.T) {
	ctx := context.Background()
	storage := mockSvc.NewMockObjectStorage(t)
	caller := entity.NewPrincipal(uuid.New(), "caller@example.com", entity.RoleSeller)
	name := caller.ID.String() + "/1700000000000.png"
	stored := &entity.StoredObject{Bucket: ProductImagesBucket, Name: name, ContentType: "image/png", Size: 3}

	storage.EXPECT().Bucket().Return(ProductImagesBucket)
	storage.EXPECT().Stat(ctx, name).Return(nil, domainerrors.ErrObjectNotFound)
	storage.EXPECT().Put(ctx, name, "image/png", []byte("png")).Return(stored, nil)

	obj, err := NewObjectAccess(caller, storage).Upload(ctx, name, "image/png", []byte("png"))

	require.NoError(t, err)
	assert.Equal(t, stored, obj)
}

func TestObjectAccess_DeleteForeignObjectIsNotFound(t *testing.T) {
	ctx := context.Background()
	storage := mockSvc.NewMockObjectStorage(t)
	owner := uuid.New()
	caller := entity.NewPrincipal(uuid.New(), "caller@example.com", entity.RoleSeller)
	name := owner.String() + "/1700000000000.png"

	storage.EXPECT().Bucket().Return(ProductImagesBucket)
	storage.EXPECT().Stat(ctx, name).Return(&entity.StoredObject{Bucket: ProductImagesBucket, Name: name}, nil)

	err := NewObjectAccess(caller, storage).Delete(ctx, name)

	assert.True(t, errors.Is(err, domainerrors.ErrObjectNotFound))
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestObjectAccess_OpenPublicObject(t *testing.T) {
	ctx := context.Background()
	storage := mockSvc.NewMockObjectStorage(t)
	name := uuid.NewString() + "/1700000000000.webp"

	storage.EXPECT().Bucket().Return(ProductImagesBucket)
	storage.EXPECT().Stat(ctx, name).Return(&entity.StoredObject{Bucket: ProductImagesBucket, Name: name}, nil)
	storage.EXPECT().Open(ctx, name).Return(io.NopCloser(bytes.NewReader([]byte("webp"))), nil)

	obj, reader, err := NewObjectAccess(entity.Anonymous(), storage).Open(ctx, name)
	require.NoError(t, err)
	defer reader.Close()

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, name, obj.Name)
	assert.Equal(t, "webp", string(body))
}
