package impl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"marketplace/config"
	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/constants"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/policy"
	"marketplace/internal/domain/repository"
	"marketplace/internal/domain/service"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	maxProductName   = 200
)

// productService implements the ProductUsecase interface.
type productService struct {
	txManager    repository.TransactionManager
	storage      service.ObjectStorage
	qrcode       service.QRCodeService
	publisher    service.EventPublisher
	defaultLimit int
	maxLimit     int
	logger       *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Storage   service.ObjectStorage
	QRCode    service.QRCodeService
	Publisher service.EventPublisher
	Config    *config.Config
	Logger    *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	defaultLimit, maxLimit := defaultListLimit, maxListLimit
	if params.Config != nil && params.Config.Catalog != nil {
		if params.Config.Catalog.DefaultLimit > 0 {
			defaultLimit = params.Config.Catalog.DefaultLimit
		}
		if params.Config.Catalog.MaxLimit > 0 {
			maxLimit = params.Config.Catalog.MaxLimit
		}
	}

	return &productService{
		txManager:    params.TxManager,
		storage:      params.Storage,
		qrcode:       params.QRCode,
		publisher:    params.Publisher,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns one page of the products the principal may see.
func (srv *productService) ListProducts(ctx context.Context, principal entity.Principal, input *usecase.ListProductsInput) (*usecase.ProductPage, error) {
	if input == nil {
		input = &usecase.ListProductsInput{}
	}
	if !input.Sort.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown sort order: " + string(input.Sort))
	}
	if input.Limit < 0 || input.Offset < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("limit and offset must not be negative")
	}

	limit := input.Limit
	if limit == 0 {
		limit = srv.defaultLimit
	}
	limit = min(limit, srv.maxLimit)

	filter := repository.ProductFilter{
		CategoryID: input.CategoryID,
		SellerID:   input.SellerID,
		Active:     input.Active,
		Search:     strings.TrimSpace(input.Search),
		Sort:       input.Sort,
		Limit:      limit,
		Offset:     input.Offset,
	}
	ownListing := input.SellerID != nil && principal.Is(*input.SellerID)
	if filter.Active == nil && !ownListing {
		active := true
		filter.Active = &active
	}

	var products []*entity.Product
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		found, err := policy.NewProductAccess(principal, repos.ProductRepo()).List(ctx, filter)
		if err != nil {
			return err
		}
		products = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return &usecase.ProductPage{Items: products, Limit: limit, Offset: input.Offset}, nil
}

// GetProduct returns a product the principal may see.
func (srv *productService) GetProduct(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.Product, error) {
	var product *entity.Product

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		found, err := policy.NewProductAccess(principal, repos.ProductRepo()).Get(ctx, id)
		if err != nil {
			return err
		}
		product = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get product")
	}

	return product, nil
}

// CreateProduct lists a new product owned by the principal. An attached image
// is uploaded first; if that upload fails the product is saved without one.
func (srv *productService) CreateProduct(ctx context.Context, principal entity.Principal, input *usecase.CreateProductInput) (*entity.Product, error) {
	if !principal.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if err := validateProductFields(&name, &input.Price, &input.Quantity); err != nil {
		return nil, err
	}

	product := entity.NewProduct(principal.ID, name, strings.TrimSpace(input.Description), input.Price)
	product.Quantity = input.Quantity
	product.CategoryID = input.CategoryID
	product.ImageURL = input.ImageURL
	if input.Active != nil {
		product.Active = *input.Active
	}

	if input.Image != nil && len(input.Image.Data) > 0 {
		// Checked before the upload so a non-seller leaves no orphaned object.
		err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
			_, err := sellerProfile(ctx, repos, principal, "only sellers can create products")

			return err
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create product")
		}

		obj, err := uploadImage(ctx, policy.NewObjectAccess(principal, srv.storage), principal, input.Image)
		if err != nil {
			srv.log(ctx).Warn("Product image upload failed, saving product without image",
				slog.String("seller_id", principal.ID.String()),
				slog.Any("error", err),
			)
		} else {
			url := obj.URL
			product.ImageURL = &url
		}
	}

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if _, err := sellerProfile(ctx, repos, principal, "only sellers can create products"); err != nil {
			return err
		}
		if product.CategoryID != nil {
			if _, err := policy.NewCategoryAccess(principal, repos.CategoryRepo()).Get(ctx, *product.CategoryID); err != nil {
				return err
			}
		}

		return policy.NewProductAccess(principal, repos.ProductRepo()).Insert(ctx, product)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created",
		slog.String("product_id", product.ID.String()),
		slog.String("seller_id", principal.ID.String()),
	)

	publishEvent(ctx, srv.publisher, srv.logger, &service.MarketplaceEvent{
		Type:      constants.EventProductCreated,
		SubjectID: product.ID.String(),
		ActorID:   principal.ID.String(),
		Attributes: map[string]string{
			"price":    product.Price.StringFixed(entity.PriceScale),
			"quantity": strconv.Itoa(product.Quantity),
		},
	})

	return product, nil
}

// UpdateProduct applies the non-nil fields to a product the principal owns.
func (srv *productService) UpdateProduct(ctx context.Context, principal entity.Principal, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	if !principal.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthorized
	}

	var name *string
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		name = &trimmed
	}
	if err := validateProductFields(name, input.Price, input.Quantity); err != nil {
		return nil, err
	}

	var updated *entity.Product
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if input.CategoryID != nil {
			if _, err := policy.NewCategoryAccess(principal, repos.CategoryRepo()).Get(ctx, *input.CategoryID); err != nil {
				return err
			}
		}

		product, err := policy.NewProductAccess(principal, repos.ProductRepo()).Update(ctx, id, func(p *entity.Product) error {
			applyProductUpdate(p, name, input)

			return nil
		})
		if err != nil {
			return err
		}
		updated = product

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	srv.log(ctx).Info("Product updated", slog.String("product_id", id.String()))

	return updated, nil
}

// DeleteProduct removes a product the principal owns.
func (srv *productService) DeleteProduct(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	if !principal.IsAuthenticated() {
		return domainerrors.ErrUnauthorized
	}

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		return policy.NewProductAccess(principal, repos.ProductRepo()).Delete(ctx, id)
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.String("product_id", id.String()))

	return nil
}

// Purchase takes quantity units of a product the principal can see. The
// decrement itself runs with elevated privilege as a single conditional
// update, so concurrent purchases can never oversell.
func (srv *productService) Purchase(ctx context.Context, principal entity.Principal, id uuid.UUID, quantity int) (*usecase.PurchaseOutput, error) {
	if !principal.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthorized
	}
	if quantity < 1 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be at least 1")
	}

	var product *entity.Product
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		visible, err := policy.NewProductAccess(principal, repos.ProductRepo()).Get(ctx, id)
		if err != nil {
			return err
		}
		if !visible.Active {
			return errors.Wrap(domainerrors.ErrProductNotFound, "product is not available for purchase")
		}

		ok, err := repos.ProductRepo().DecrementStock(ctx, id, quantity)
		if err != nil {
			return errors.Wrap(err, "failed to decrement stock")
		}
		if !ok {
			return domainerrors.ErrInsufficientStock.WithDetails(
				"requested " + strconv.Itoa(quantity) + ", available " + strconv.Itoa(visible.Quantity))
		}

		product, err = repos.ProductRepo().FindByID(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to reload product")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to purchase product")
	}

	srv.log(ctx).Info("Product purchased",
		slog.String("product_id", id.String()),
		slog.String("buyer_id", principal.ID.String()),
		slog.Int("quantity", quantity),
		slog.Int("remaining", product.Quantity),
	)

	publishEvent(ctx, srv.publisher, srv.logger, &service.MarketplaceEvent{
		Type:      constants.EventProductPurchased,
		SubjectID: id.String(),
		ActorID:   principal.ID.String(),
		Attributes: map[string]string{
			"seller_id": product.SellerID.String(),
			"quantity":  strconv.Itoa(quantity),
			"remaining": strconv.Itoa(product.Quantity),
		},
	})

	return &usecase.PurchaseOutput{Product: product, Quantity: quantity}, nil
}

// GetSellerDashboard aggregates the seller's own profile and every product
// they list, active or not.
func (srv *productService) GetSellerDashboard(ctx context.Context, principal entity.Principal) (*entity.SellerDashboard, error) {
	if !principal.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthorized
	}

	var dashboard *entity.SellerDashboard
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		profile, err := sellerProfile(ctx, repos, principal, "dashboard is only available to sellers")
		if err != nil {
			return err
		}

		sellerID := principal.ID
		products, err := policy.NewProductAccess(principal, repos.ProductRepo()).List(ctx, repository.ProductFilter{
			SellerID: &sellerID,
			Sort:     entity.SortNewest,
		})
		if err != nil {
			return err
		}

		dashboard = entity.NewSellerDashboard(profile, products)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build seller dashboard")
	}

	return dashboard, nil
}

// GetProductQRCode renders a share code for a product the principal can see.
func (srv *productService) GetProductQRCode(ctx context.Context, principal entity.Principal, id uuid.UUID) ([]byte, error) {
	product, err := srv.GetProduct(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GenerateProductQR(product.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate product QR code")
	}

	return png, nil
}

// sellerProfile loads the principal's profile and requires the seller role.
// The stored role is authoritative; the token may predate a role change.
func sellerProfile(ctx context.Context, repos repository.RepositoryFactory, principal entity.Principal, denied string) (*entity.Profile, error) {
	profile, err := policy.NewProfileAccess(principal, repos.ProfileRepo()).Get(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if profile.Role != entity.RoleSeller {
		return nil, domainerrors.ErrForbidden.WithDetails(denied)
	}

	return profile, nil
}

// validateProductFields checks the fields that are present: name required,
// price > 0 with at most two decimals, quantity >= 0.
func validateProductFields(name *string, price *decimal.Decimal, quantity *int) error {
	if name != nil {
		if *name == "" {
			return domainerrors.ErrValidationFailed.WithDetails("name is required")
		}
		if len(*name) > maxProductName {
			return domainerrors.ErrValidationFailed.WithDetails("name is too long")
		}
	}
	if price != nil {
		if !price.IsPositive() {
			return domainerrors.ErrValidationFailed.WithDetails("price must be greater than zero")
		}
		if !price.Equal(price.Round(entity.PriceScale)) {
			return domainerrors.ErrValidationFailed.WithDetails("price must have at most two decimal places")
		}
		if price.GreaterThan(entity.MaxPrice) {
			return domainerrors.ErrValidationFailed.WithDetails("price must not exceed " + entity.MaxPrice.StringFixed(entity.PriceScale))
		}
	}
	if quantity != nil && *quantity < 0 {
		return domainerrors.ErrValidationFailed.WithDetails("quantity must not be negative")
	}

	return nil
}

func applyProductUpdate(p *entity.Product, name *string, input *usecase.UpdateProductInput) {
	if name != nil {
		p.Name = *name
	}
	if input.Description != nil {
		p.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		p.Price = input.Price.Round(entity.PriceScale)
	}
	if input.Quantity != nil {
		p.Quantity = *input.Quantity
	}
	switch {
	case input.ClearCategory:
		p.CategoryID = nil
	case input.CategoryID != nil:
		id := *input.CategoryID
		p.CategoryID = &id
	}
	switch {
	case input.ClearImage:
		p.ImageURL = nil
	case input.ImageURL != nil:
		url := *input.ImageURL
		p.ImageURL = &url
	}
	if input.Active != nil {
		p.Active = *input.Active
	}
}
