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

// ProfileAccess is a ProfileRepository bound to a principal and checked against Profiles.
type ProfileAccess struct {
	principal entity.Principal
	repo      repository.ProfileRepository
}

// NewProfileAccess binds the repository to the principal.
func NewProfileAccess(principal entity.Principal, repo repository.ProfileRepository) *ProfileAccess {
	return &ProfileAccess{principal: principal, repo: repo}
}

// Get returns the profile when the principal may select it. A hidden profile
// is reported exactly like a missing one.
func (a *ProfileAccess) Get(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	profile, err := a.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Profiles.Using(Select, a.principal, profile) {
		return nil, domainerrors.ErrProfileNotFound
	}

	return profile, nil
}

// Insert writes a new profile when it passes the insert check.
func (a *ProfileAccess) Insert(ctx context.Context, profile *entity.Profile) error {
	if !Profiles.Check(Insert, a.principal, profile) {
		return domainerrors.ErrPolicyViolation.WrapMessage("insert into profiles")
	}

	return errors.WithStack(a.repo.Create(ctx, profile))
}

// Update applies mutate to a copy of the profile and persists it. Rows the
// principal cannot update are reported as not found; a mutated row that fails
// the check is a policy violation.
func (a *ProfileAccess) Update(ctx context.Context, id uuid.UUID, mutate func(*entity.Profile) error) (*entity.Profile, error) {
	current, err := a.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Profiles.Using(Update, a.principal, current) {
		return nil, domainerrors.ErrProfileNotFound
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()

	if !Profiles.Check(Update, a.principal, next) {
		return nil, domainerrors.ErrPolicyViolation.WrapMessage("update profiles")
	}

	if err := a.repo.Update(ctx, next); err != nil {
		return nil, errors.WithStack(err)
	}

	return next, nil
}

func (a *ProfileAccess) find(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	profile, err := a.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, domainerrors.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return profile, nil
}
