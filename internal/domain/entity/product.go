package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places a price carries (numeric(10,2)).
const PriceScale = 2

// MaxPrice is the largest price a numeric(10,2) column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

// Product is an item listed by a seller.
type Product struct {
	ID          uuid.UUID
	SellerID    uuid.UUID // Owning identity; products are removed with their seller.
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int        // Units in stock, never negative.
	CategoryID  *uuid.UUID // Optional category.
	ImageURL    *string    // Optional public image URL.
	Active      bool       // Inactive products are visible to their seller only.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct builds a product carrying the schema defaults: zero quantity, active.
func NewProduct(sellerID uuid.UUID, name, description string, price decimal.Decimal) *Product {
	now := time.Now()

	return &Product{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Name:        name,
		Description: description,
		Price:       price.Round(PriceScale),
		Quantity:    0,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy safe to mutate.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.CategoryID != nil {
		id := *p.CategoryID
		c.CategoryID = &id
	}
	if p.ImageURL != nil {
		url := *p.ImageURL
		c.ImageURL = &url
	}

	return &c
}

// InStock reports whether at least qty units are available.
func (p *Product) InStock(qty int) bool {
	return p.Quantity >= qty
}

// StockValue is price times quantity.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// ProductSort selects the listing order.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortOldest    ProductSort = "oldest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortName      ProductSort = "name"
)

// IsValid reports whether s is a known sort order. The empty value means SortNewest.
func (s ProductSort) IsValid() bool {
	switch s {
	case "", SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortName:
		return true
	default:
		return false
	}
}
