// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"marketplace/config"
	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/constants"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/domain/service"
	"marketplace/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultMinPasswordLen = 6

// authService implements the AuthUsecase interface.
type authService struct {
	txManager      repository.TransactionManager
	hasher         service.PasswordHasher
	tokenService   service.TokenService
	publisher      service.EventPublisher
	hooks          []service.IdentityHook
	minPasswordLen int
	logger         *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Publisher    service.EventPublisher
	Hooks        []service.IdentityHook `group:"identity_hooks"`
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	minPasswordLen := defaultMinPasswordLen
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.MinPasswordLen > 0 {
		minPasswordLen = params.Config.Auth.MinPasswordLen
	}

	return &authService{
		txManager:      params.TxManager,
		hasher:         params.Hasher,
		tokenService:   params.TokenService,
		publisher:      params.Publisher,
		hooks:          params.Hooks,
		minPasswordLen: minPasswordLen,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SignUp creates the identity and dispatches IdentityCreated to every hook
// inside one transaction. Any hook error rolls the whole signup back.
func (srv *authService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*usecase.AuthOutput, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < srv.minPasswordLen {
		return nil, domainerrors.ErrValidationFailed.WithDetails("password is too short")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	identity := entity.NewIdentity(email, hash, input.Metadata)

	var profile *entity.Profile
	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.IdentityRepo().Create(ctx, identity); err != nil {
			return errors.Wrap(err, "failed to create identity")
		}

		event := service.IdentityCreated{Identity: identity}
		for _, hook := range srv.hooks {
			if err := hook.OnIdentityCreated(ctx, repos, event); err != nil {
				return errors.Wrap(err, "identity hook failed")
			}
		}

		found, err := repos.ProfileRepo().FindByID(ctx, identity.ID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return errors.Wrap(domainerrors.ErrIdentityCreationFailed, "no profile was provisioned")
			}

			return errors.Wrap(err, "failed to load provisioned profile")
		}
		profile = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Signup failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	srv.log(ctx).Info("Identity created",
		slog.String("identity_id", identity.ID.String()),
		slog.String("role", profile.Role.String()),
	)

	publishEvent(ctx, srv.publisher, srv.logger, &service.MarketplaceEvent{
		Type:       constants.EventIdentityCreated,
		SubjectID:  identity.ID.String(),
		ActorID:    identity.ID.String(),
		Attributes: map[string]string{"role": profile.Role.String()},
	})

	return srv.issueToken(profile)
}

// SignIn verifies the password against the stored hash. Unknown emails and
// wrong passwords produce the same error.
func (srv *authService) SignIn(ctx context.Context, input *usecase.SignInInput) (*usecase.AuthOutput, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, domainerrors.ErrInvalidCredentials
	}

	var profile *entity.Profile
	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		identity, err := repos.IdentityRepo().FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrIdentityNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(err, "failed to find identity")
		}

		if !srv.hasher.Check(input.Password, identity.PasswordHash) {
			return domainerrors.ErrInvalidCredentials
		}

		found, err := repos.ProfileRepo().FindByID(ctx, identity.ID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return domainerrors.ErrProfileNotFound
			}

			return errors.Wrap(err, "failed to load profile")
		}
		profile = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign in")
	}

	srv.log(ctx).Debug("Identity signed in", slog.String("identity_id", profile.ID.String()))

	return srv.issueToken(profile)
}

// DeleteAccount removes the principal's identity. The schema cascades the
// delete to the profile and every product the identity sells.
func (srv *authService) DeleteAccount(ctx context.Context, principal entity.Principal) error {
	if !principal.IsAuthenticated() {
		return domainerrors.ErrUnauthorized
	}

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.IdentityRepo().Delete(ctx, principal.ID); err != nil {
			if errors.Is(err, repository.ErrIdentityNotFound) {
				return domainerrors.ErrIdentityNotFound
			}

			return errors.Wrap(err, "failed to delete identity")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete account")
	}

	srv.log(ctx).Info("Account deleted", slog.String("identity_id", principal.ID.String()))

	return nil
}

func (srv *authService) issueToken(profile *entity.Profile) (*usecase.AuthOutput, error) {
	token, err := srv.tokenService.GenerateAccessToken(profile.ID, profile.Email, profile.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.AuthOutput{
		Profile:     profile,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(srv.tokenService.GetAccessTokenDuration()),
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domainerrors.ErrValidationFailed.WithDetails("email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domainerrors.ErrValidationFailed.WithDetails("email is invalid")
	}

	return email, nil
}
