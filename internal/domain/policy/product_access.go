package policy

import (
	"context"
	"time"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"

	"github.com/google/uuid"
)

// ProductAccess is a ProductRepository bound to a principal and checked against Products.
type ProductAccess struct {
	principal entity.Principal
	repo      repository.ProductRepository
}

// NewProductAccess binds the repository to the principal.
func NewProductAccess(principal entity.Principal, repo repository.ProductRepository) *ProductAccess {
	return &ProductAccess{principal: principal, repo: repo}
}

// List returns the products matching filter that the principal may select.
// The visibility predicate is pushed into the query and every returned row is
// re-checked against the matrix.
func (a *ProductAccess) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	filter.Visibility = &repository.ProductVisibility{ViewerID: a.principal.ID}

	products, err := a.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return Products.Filter(a.principal, products), nil
}

// Get returns a product when the principal may select it.
func (a *ProductAccess) Get(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := a.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Products.Using(Select, a.principal, product) {
		return nil, domainerrors.ErrProductNotFound
	}

	return product, nil
}

// Insert writes a new product when it passes the insert check.
func (a *ProductAccess) Insert(ctx context.Context, product *entity.Product) error {
	if !Products.Check(Insert, a.principal, product) {
		return domainerrors.ErrPolicyViolation.WrapMessage("insert into products")
	}

	return errors.WithStack(a.repo.Create(ctx, product))
}

// Update applies mutate to a copy of the product and persists it.
func (a *ProductAccess) Update(ctx context.Context, id uuid.UUID, mutate func(*entity.Product) error) (*entity.Product, error) {
	current, err := a.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Products.Using(Update, a.principal, current) {
		return nil, domainerrors.ErrProductNotFound
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()

	if !Products.Check(Update, a.principal, next) {
		return nil, domainerrors.ErrPolicyViolation.WrapMessage("update products")
	}

	if err := a.repo.Update(ctx, next); err != nil {
		return nil, errors.WithStack(err)
	}

	return next, nil
}

// Delete removes a product when the principal may delete it.
func (a *ProductAccess) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := a.find(ctx, id)
	if err != nil {
		return err
	}

	if !Products.Using(Delete, a.principal, current) {
		return domainerrors.ErrProductNotFound
	}

	return errors.WithStack(a.repo.Delete(ctx, id))
}

func (a *ProductAccess) find(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := a.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to load product")
	}

	return product, nil
}
