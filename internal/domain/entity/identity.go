package entity

import (
	"time"

	"github.com/google/uuid"
)

// Identity is an account held by the identity store. A profile is provisioned for
// each identity in the same transaction that creates it.
type Identity struct {
	ID           uuid.UUID      // Identity id, also the id of the matching profile.
	Email        string         // Login email, unique across identities.
	PasswordHash string         // bcrypt hash of the password.
	Metadata     map[string]any // Raw signup metadata (full_name, role, ...).
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewIdentity builds an identity with a fresh id.
func NewIdentity(email, passwordHash string, metadata map[string]any) *Identity {
	now := time.Now()
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &Identity{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Metadata:     metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// MetadataString returns the metadata value under key when it is a string.
func (i *Identity) MetadataString(key string) (string, bool) {
	if i == nil || i.Metadata == nil {
		return "", false
	}

	v, ok := i.Metadata[key]
	if !ok || v == nil {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}
