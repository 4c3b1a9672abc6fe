package service

import (
	"context"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
)

// IdentityCreated is dispatched after an identity row is inserted and before
// the surrounding transaction commits.
type IdentityCreated struct {
	Identity *entity.Identity
}

// IdentityHook reacts to identity creation inside the creating transaction.
// The repositories it receives are unchecked, so hooks run with elevated privilege.
// Returning an error aborts the whole signup.
type IdentityHook interface {
	OnIdentityCreated(ctx context.Context, repos repository.RepositoryFactory, event IdentityCreated) error
}
