package policy

import (
	"context"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"

	"github.com/google/uuid"
)

// CategoryAccess is a CategoryRepository bound to a principal and checked against Categories.
type CategoryAccess struct {
	principal entity.Principal
	repo      repository.CategoryRepository
}

// NewCategoryAccess binds the repository to the principal.
func NewCategoryAccess(principal entity.Principal, repo repository.CategoryRepository) *CategoryAccess {
	return &CategoryAccess{principal: principal, repo: repo}
}

// List returns the categories visible to the principal, ordered by name.
func (a *CategoryAccess) List(ctx context.Context) ([]*entity.Category, error) {
	categories, err := a.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return Categories.Filter(a.principal, categories), nil
}

// Get returns a category when the principal may select it.
func (a *CategoryAccess) Get(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := a.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Categories.Using(Select, a.principal, category) {
		return nil, domainerrors.ErrCategoryNotFound
	}

	return category, nil
}

// Insert writes a category when the insert check allows it.
func (a *CategoryAccess) Insert(ctx context.Context, category *entity.Category) error {
	if !Categories.Check(Insert, a.principal, category) {
		return domainerrors.ErrPolicyViolation.WrapMessage("insert into categories")
	}

	return errors.WithStack(a.repo.Create(ctx, category))
}

// Update applies mutate to a copy of the category and persists it.
func (a *CategoryAccess) Update(ctx context.Context, id uuid.UUID, mutate func(*entity.Category) error) (*entity.Category, error) {
	current, err := a.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Categories.Using(Update, a.principal, current) {
		return nil, domainerrors.ErrCategoryNotFound
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}

	if !Categories.Check(Update, a.principal, next) {
		return nil, domainerrors.ErrPolicyViolation.WrapMessage("update categories")
	}

	if err := a.repo.Update(ctx, next); err != nil {
		return nil, errors.WithStack(err)
	}

	return next, nil
}

// Delete removes a category when the principal may delete it.
func (a *CategoryAccess) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := a.find(ctx, id)
	if err != nil {
		return err
	}

	if !Categories.Using(Delete, a.principal, current) {
		return domainerrors.ErrCategoryNotFound
	}

	return errors.WithStack(a.repo.Delete(ctx, id))
}

func (a *CategoryAccess) find(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := a.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, domainerrors.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to load category")
	}

	return category, nil
}
