package impl

import (
	"context"
	"log/slog"
	"strings"

	"marketplace/config"
	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/constants"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/domain/service"

	"github.com/pkg/errors"
)

// profileProvisioner creates the profile row for every new identity. It runs
// inside the signup transaction and writes through the unchecked repository,
// since the new identity is not yet a principal of any request.
type profileProvisioner struct {
	strictRole bool
	logger     *slog.Logger
}

// NewProfileProvisioner is the constructor for the signup provisioning hook.
func NewProfileProvisioner(cfg *config.Config, logger *slog.Logger) service.IdentityHook {
	strict := true
	if cfg != nil && cfg.Signup != nil {
		strict = cfg.Signup.StrictRoleMetadata
	}

	return &profileProvisioner{
		strictRole: strict,
		logger:     logger,
	}
}

// OnIdentityCreated inserts exactly one profile keyed by the identity id.
func (p *profileProvisioner) OnIdentityCreated(ctx context.Context, repos repository.RepositoryFactory, event service.IdentityCreated) error {
	identity := event.Identity
	if identity == nil {
		return errors.Wrap(domainerrors.ErrIdentityCreationFailed, "identity is missing from the event")
	}

	role, err := p.roleFromMetadata(ctx, identity)
	if err != nil {
		return err
	}

	profile := entity.NewProfile(identity.ID, identity.Email)
	if fullName, ok := identity.MetadataString(constants.MetadataFullName); ok {
		profile.FullName = strings.TrimSpace(fullName)
	}
	profile.Role = role

	if err := repos.ProfileRepo().Create(ctx, profile); err != nil {
		return errors.Wrap(err, "failed to provision profile")
	}

	return nil
}

func (p *profileProvisioner) roleFromMetadata(ctx context.Context, identity *entity.Identity) (entity.Role, error) {
	raw, present := identity.Metadata[constants.MetadataRole]
	if !present || raw == nil {
		return entity.DefaultRole, nil
	}

	value, isString := raw.(string)

	// Strict mode only accepts the exact enum spelling; an empty or padded
	// string is a present but invalid role.
	if p.strictRole {
		if role := entity.Role(value); isString && role.IsValid() {
			return role, nil
		}

		return "", domainerrors.ErrInvalidRole.WithDetails("role must be one of: buyer, seller")
	}

	if role, ok := entity.ParseRole(value); isString && ok {
		return role, nil
	}

	deliverycontext.GetLoggerOrDefault(ctx, p.logger).Warn("Unknown role in signup metadata, falling back to default",
		slog.String("identity_id", identity.ID.String()),
		slog.Any("role", raw),
	)

	return entity.DefaultRole, nil
}
