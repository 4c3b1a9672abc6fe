// Package entity contains the core business objects of the project.
package entity

import "strings"

// Role is the enumerated marketplace role stored on every profile.
type Role string

const (
	// RoleBuyer is the default role of a freshly provisioned profile.
	RoleBuyer Role = "buyer"
	// RoleSeller may list and manage products.
	RoleSeller Role = "seller"
)

// DefaultRole is assigned when signup metadata carries no role.
const DefaultRole = RoleBuyer

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is one of the enumerated values.
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller:
		return true
	default:
		return false
	}
}

// ParseRole coerces a metadata value into the role enumeration.
// An empty value yields DefaultRole; any other unknown value reports false.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultRole, true
	}

	role := Role(s)
	if !role.IsValid() {
		return "", false
	}

	return role, true
}
