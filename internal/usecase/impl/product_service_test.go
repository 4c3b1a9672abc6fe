package impl

import (
	"context"
	"testing"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	mockRepo "marketplace/internal/mocks/repository"
	mockSvc "marketplace/internal/mocks/service"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// productServiceFixtures holds all test dependencies for product service tests.
type productServiceFixtures struct {
	service     usecase.ProductUsecase
	txManager   *mockRepo.MockTransactionManager
	factory     *mockRepo.MockRepositoryFactory
	productRepo *mockRepo.MockProductRepository
	profileRepo *mockRepo.MockProfileRepository
	storage     *mockSvc.MockObjectStorage
	qrcode      *mockSvc.MockQRCodeService
	publisher   *mockSvc.MockEventPublisher
}

func createTestProductService(t *testing.T) productServiceFixtures {
	f := productServiceFixtures{
		txManager:   mockRepo.NewMockTransactionManager(t),
		factory:     mockRepo.NewMockRepositoryFactory(t),
		productRepo: mockRepo.NewMockProductRepository(t),
		profileRepo: mockRepo.NewMockProfileRepository(t),
		storage:     mockSvc.NewMockObjectStorage(t),
		qrcode:      mockSvc.NewMockQRCodeService(t),
		publisher:   mockSvc.NewMockEventPublisher(t),
	}

	f.txManager.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(f.factory)
		}).
		Maybe()
	f.factory.EXPECT().ProductRepo().Return(f.productRepo).Maybe()
	f.factory.EXPECT().ProfileRepo().Return(f.profileRepo).Maybe()

	f.service = NewProductService(ProductServiceParams{
		TxManager: f.txManager,
		Storage:   f.storage,
		QRCode:    f.qrcode,
		Publisher: f.publisher,
		Config:    newTestConfig(),
		Logger:    discardLogger(),
	})

	return f
}

func TestProductService_GetProductQRCode(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	tests := []struct {
		name    string
		active  bool
		viewer  entity.Principal
		setup   func(f productServiceFixtures, id uuid.UUID)
		want    []byte
		wantErr string
		hidden  bool
	}{
		{
			name:   "active product renders for anonymous viewer",
			active: true,
			viewer: entity.Anonymous(),
			setup: func(f productServiceFixtures, id uuid.UUID) {
				f.qrcode.EXPECT().GenerateProductQR(id).Return([]byte("qr-png"), nil)
			},
			want: []byte("qr-png"),
		},
		{
			name:   "inactive product renders for its seller",
			active: false,
			viewer: entity.NewPrincipal(sellerID, "s@example.com", entity.RoleSeller),
			setup: func(f productServiceFixtures, id uuid.UUID) {
				f.qrcode.EXPECT().GenerateProductQR(id).Return([]byte("own-png"), nil)
			},
			want: []byte("own-png"),
		},
		{
			name:   "inactive product is hidden from others",
			active: false,
			viewer: entity.Anonymous(),
			setup:  func(productServiceFixtures, uuid.UUID) {},
			hidden: true,
		},
		{
			name:   "generator failure is returned",
			active: true,
			viewer: entity.Anonymous(),
			setup: func(f productServiceFixtures, id uuid.UUID) {
				f.qrcode.EXPECT().GenerateProductQR(id).Return(nil, errors.New("encoder broke"))
			},
			wantErr: "encoder broke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestProductService(t)
			product := entity.NewProduct(sellerID, "Lamp", "", decimal.NewFromInt(10))
			product.Active = tt.active
			f.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
			tt.setup(f, product.ID)

			png, err := f.service.GetProductQRCode(ctx, tt.viewer, product.ID)
			if tt.hidden {
				assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound), "got %v", err)

				return
			}
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, png)
		})
	}
}

func TestProductService_CreateProduct_UsesStoredRole(t *testing.T) {
	ctx := context.Background()
	f := createTestProductService(t)
	id := uuid.New()
	// The token still carries the role from before the promotion.
	principal := entity.NewPrincipal(id, "p@example.com", entity.RoleBuyer)

	f.profileRepo.EXPECT().FindByID(ctx, id).Return(&entity.Profile{ID: id, Email: "p@example.com", Role: entity.RoleSeller}, nil)
	f.productRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Product")).Return(nil)
	f.publisher.EXPECT().Publish(ctx, mock.Anything).Return(nil)

	product, err := f.service.CreateProduct(ctx, principal, &usecase.CreateProductInput{Name: "Desk", Price: decimal.NewFromInt(80)})
	require.NoError(t, err)
	assert.Equal(t, id, product.SellerID)
}

func TestProductService_CreateProduct_BuyerUploadsNothing(t *testing.T) {
	ctx := context.Background()
	f := createTestProductService(t)
	id := uuid.New()
	// A stale seller token does not outrank a buyer profile.
	principal := entity.NewPrincipal(id, "d@example.com", entity.RoleSeller)

	f.profileRepo.EXPECT().FindByID(ctx, id).Return(&entity.Profile{ID: id, Email: "d@example.com", Role: entity.RoleBuyer}, nil)

	_, err := f.service.CreateProduct(ctx, principal, &usecase.CreateProductInput{
		Name:  "Desk",
		Price: decimal.NewFromInt(80),
		Image: &usecase.ImageUpload{Data: pngHeader},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden), "got %v", err)
	f.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
