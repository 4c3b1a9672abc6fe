package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IdentityModel mirrors the 'identities' table. IDs are generated by the application
// so the same model works on PostgreSQL and SQLite.
type IdentityModel struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Email           string            `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    string            `gorm:"type:varchar(255);not null"`
	RawUserMetaData datatypes.JSONMap `gorm:"column:raw_user_meta_data;default:'{}'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Deleting an identity removes its profile and every product it sells.
	Profile  *ProfileModel  `gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE"`
	Products []ProductModel `gorm:"foreignKey:SellerID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (IdentityModel) TableName() string {
	return "identities"
}
