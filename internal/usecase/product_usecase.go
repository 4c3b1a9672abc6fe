package usecase

import (
	"context"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductUsecase defines the interface for catalog and purchase operations.
type ProductUsecase interface {
	ListProducts(ctx context.Context, principal entity.Principal, input *ListProductsInput) (*ProductPage, error)
	GetProduct(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.Product, error)
	CreateProduct(ctx context.Context, principal entity.Principal, input *CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, principal entity.Principal, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, principal entity.Principal, id uuid.UUID) error
	// Purchase atomically takes quantity units from a visible, active product.
	Purchase(ctx context.Context, principal entity.Principal, id uuid.UUID, quantity int) (*PurchaseOutput, error)
	GetSellerDashboard(ctx context.Context, principal entity.Principal) (*entity.SellerDashboard, error)
	GetProductQRCode(ctx context.Context, principal entity.Principal, id uuid.UUID) ([]byte, error)
}

// --- Input DTOs ---

// ListProductsInput narrows a product listing. When Active is nil and the
// listing is not the principal's own (SellerID != principal), only active
// products are returned.
type ListProductsInput struct {
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
	Active     *bool
	Search     string
	Sort       entity.ProductSort
	Limit      int
	Offset     int
}

// ImageUpload is an image file attached to a request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateProductInput defines the data required to list a new product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	CategoryID  *uuid.UUID
	ImageURL    *string
	Active      *bool
	Image       *ImageUpload // Optional; a failed upload does not fail the creation.
}

// UpdateProductInput defines the mutable product columns. Nil fields are left unchanged.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Quantity      *int
	CategoryID    *uuid.UUID
	ClearCategory bool
	ImageURL      *string
	ClearImage    bool
	Active        *bool
}

// --- Output DTOs ---

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items  []*entity.Product
	Limit  int
	Offset int
}

// PurchaseOutput reports the product state after a successful purchase.
type PurchaseOutput struct {
	Product  *entity.Product
	Quantity int
}
