package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when no product matches the lookup.
var ErrProductNotFound = errors.New("product not found")

// ProductVisibility restricts a listing to the rows a viewer may select:
// active products plus the viewer's own. A nil ViewerID matches active rows only.
type ProductVisibility struct {
	ViewerID uuid.UUID
}

// ProductFilter narrows and orders a product listing.
type ProductFilter struct {
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
	Active     *bool
	Search     string // Case-insensitive substring of name or description.
	Sort       entity.ProductSort
	Limit      int
	Offset     int

	// Visibility, when set, is pushed into the query as a row predicate.
	Visibility *ProductVisibility
}

// ProductRepository persists products without any authorization check.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically removes qty units from an active product that
	// holds at least qty units. It reports false when no row qualified.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}
