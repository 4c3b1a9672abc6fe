package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel mirrors the 'products' table. Active is a pointer so that an
// explicit false is written instead of falling back to the column default.
type ProductModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Quantity    int             `gorm:"not null;default:0"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	ImageURL    *string         `gorm:"type:text"`
	Active      *bool           `gorm:"not null;default:true;index"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
