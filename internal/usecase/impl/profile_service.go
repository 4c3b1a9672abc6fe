package impl

import (
	"context"
	"log/slog"
	"strings"

	"marketplace/config"
	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/policy"
	"marketplace/internal/domain/repository"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const maxFullNameLen = 200

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager       repository.TransactionManager
	allowRoleChange bool
	logger          *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Config    *config.Config
	Logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	allowRoleChange := false
	if params.Config != nil && params.Config.Profiles != nil {
		allowRoleChange = params.Config.Profiles.AllowRoleChange
	}

	return &profileService{
		txManager:       params.TxManager,
		allowRoleChange: allowRoleChange,
		logger:          params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetOwnProfile returns the principal's own profile.
func (srv *profileService) GetOwnProfile(ctx context.Context, principal entity.Principal) (*entity.Profile, error) {
	if !principal.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthorized
	}

	return srv.GetProfile(ctx, principal, principal.ID)
}

// GetProfile retrieves a profile through the policy matrix.
func (srv *profileService) GetProfile(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.Profile, error) {
	var profile *entity.Profile

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		found, err := policy.NewProfileAccess(principal, repos.ProfileRepo()).Get(ctx, id)
		if err != nil {
			return err
		}
		profile = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}

	return profile, nil
}

// UpdateOwnProfile updates full_name and, when allowed, role. A role change
// is rejected unless profiles.allowRoleChange is set; submitting the current
// role is not a change.
func (srv *profileService) UpdateOwnProfile(ctx context.Context, principal entity.Principal, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	if !principal.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthorized
	}

	var role *entity.Role
	if input.Role != nil {
		parsed := entity.Role(strings.TrimSpace(*input.Role))
		if !parsed.IsValid() {
			return nil, domainerrors.ErrInvalidRole.WithDetails("role must be one of: buyer, seller")
		}
		role = &parsed
	}

	var fullName *string
	if input.FullName != nil {
		trimmed := strings.TrimSpace(*input.FullName)
		if len(trimmed) > maxFullNameLen {
			return nil, domainerrors.ErrValidationFailed.WithDetails("full_name is too long")
		}
		fullName = &trimmed
	}

	var updated *entity.Profile
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		access := policy.NewProfileAccess(principal, repos.ProfileRepo())

		profile, err := access.Update(ctx, principal.ID, func(p *entity.Profile) error {
			if fullName != nil {
				p.FullName = *fullName
			}
			if role != nil && *role != p.Role {
				if !srv.allowRoleChange {
					return domainerrors.ErrRoleChangeForbidden
				}
				p.Role = *role
			}

			return nil
		})
		if err != nil {
			return err
		}
		updated = profile

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	srv.log(ctx).Info("Profile updated", slog.String("profile_id", updated.ID.String()))

	return updated, nil
}
