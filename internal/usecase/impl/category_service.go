package impl

import (
	"context"
	"log/slog"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/policy"
	"marketplace/internal/domain/repository"
	"marketplace/internal/usecase"

	"github.com/pkg/errors"
)

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewCategoryService is the constructor for categoryService.
func NewCategoryService(txManager repository.TransactionManager, logger *slog.Logger) usecase.CategoryUsecase {
	return &categoryService{
		txManager: txManager,
		logger:    logger,
	}
}

// ListCategories returns every category ordered by name. Anonymous callers included.
func (srv *categoryService) ListCategories(ctx context.Context, principal entity.Principal) ([]*entity.Category, error) {
	var categories []*entity.Category

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		found, err := policy.NewCategoryAccess(principal, repos.CategoryRepo()).List(ctx)
		if err != nil {
			return err
		}
		categories = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}
