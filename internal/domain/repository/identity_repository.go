// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrIdentityNotFound is returned when no identity matches the lookup.
var ErrIdentityNotFound = errors.New("identity not found")

// IdentityRepository persists identities. Deleting an identity cascades to its
// profile and to every product it sells.
type IdentityRepository interface {
	Create(ctx context.Context, identity *entity.Identity) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Identity, error)
	FindByEmail(ctx context.Context, email string) (*entity.Identity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
