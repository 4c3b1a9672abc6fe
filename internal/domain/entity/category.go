package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. Categories are read-only to every principal.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewCategory builds a category with a fresh id.
func NewCategory(name, description string) *Category {
	return &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// Clone returns a copy safe to mutate.
func (c *Category) Clone() *Category {
	if c == nil {
		return nil
	}
	cp := *c

	return &cp
}

// SeedCategories is the catalogue inserted when the categories table is empty.
func SeedCategories() []*Category {
	return []*Category{
		NewCategory("Electronics", "Electronic devices and accessories"),
		NewCategory("Clothing", "Fashion and apparel"),
		NewCategory("Home & Garden", "Home improvement and garden supplies"),
		NewCategory("Books", "Books and educational materials"),
		NewCategory("Sports & Outdoors", "Sports equipment and outdoor gear"),
	}
}
