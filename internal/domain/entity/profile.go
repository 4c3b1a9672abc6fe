package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the marketplace view of an identity. Exactly one exists per identity,
// keyed by the identity id.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile builds a profile carrying the schema defaults: empty full name, buyer role.
func NewProfile(id uuid.UUID, email string) *Profile {
	now := time.Now()

	return &Profile{
		ID:        id,
		Email:     email,
		FullName:  "",
		Role:      DefaultRole,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy safe to mutate.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p

	return &c
}
