package model

import (
	"time"

	"github.com/google/uuid"
)

// RoleTypeName is the enumerated column type backing ProfileModel.Role.
const RoleTypeName = "user_role"

// ProfileModel mirrors the 'profiles' table. ID is both the primary key and the
// foreign key to identities.id.
type ProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:text"`
	FullName  string    `gorm:"type:text;not null;default:''"`
	Role      string    `gorm:"type:user_role;not null;default:'buyer'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}
