package usecase

import (
	"context"

	"marketplace/internal/domain/entity"
)

// CategoryUsecase defines the read-only category operations.
type CategoryUsecase interface {
	ListCategories(ctx context.Context, principal entity.Principal) ([]*entity.Category, error)
}
