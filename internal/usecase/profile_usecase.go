package usecase

import (
	"context"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	GetOwnProfile(ctx context.Context, principal entity.Principal) (*entity.Profile, error)
	UpdateOwnProfile(ctx context.Context, principal entity.Principal, input *UpdateProfileInput) (*entity.Profile, error)
	// GetProfile returns the profile only when the principal may see it; any
	// other profile is reported as not found.
	GetProfile(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.Profile, error)
}

// --- Input DTOs ---

// UpdateProfileInput defines the mutable profile columns. Nil fields are left unchanged.
type UpdateProfileInput struct {
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
}
