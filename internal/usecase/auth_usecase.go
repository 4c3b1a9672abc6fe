// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"marketplace/internal/domain/entity"
)

// AuthUsecase defines the interface for identity lifecycle operations.
type AuthUsecase interface {
	// SignUp creates an identity and, in the same transaction, runs every
	// registered identity hook (profile provisioning among them).
	SignUp(ctx context.Context, input *SignUpInput) (*AuthOutput, error)
	// SignIn verifies credentials and issues an access token.
	SignIn(ctx context.Context, input *SignInInput) (*AuthOutput, error)
	// DeleteAccount removes the principal's identity together with its profile and products.
	DeleteAccount(ctx context.Context, principal entity.Principal) error
}

// --- Input DTOs ---

// SignUpInput defines the data required to create an identity.
type SignUpInput struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Metadata map[string]any `json:"metadata,omitempty"` // full_name and role are read by the profile provisioner.
}

// SignInInput defines the data required to sign in.
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Output DTOs ---

// AuthOutput carries the issued access token and the identity's profile.
type AuthOutput struct {
	Profile     *entity.Profile
	AccessToken string
	ExpiresAt   time.Time
}
