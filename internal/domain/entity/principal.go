package entity

import "github.com/google/uuid"

// Principal is the requesting identity every authorization decision is made against.
// The zero value is the anonymous principal.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// NewPrincipal builds an authenticated principal.
func NewPrincipal(id uuid.UUID, email string, role Role) Principal {
	return Principal{ID: id, Email: email, Role: role}
}

// IsAuthenticated reports whether the principal carries an identity.
func (p Principal) IsAuthenticated() bool {
	return p.ID != uuid.Nil
}

// Is reports whether the principal is the given identity. Anonymous never matches.
func (p Principal) Is(id uuid.UUID) bool {
	return p.IsAuthenticated() && p.ID == id
}
