package postgres

import (
	"context"
	"log/slog"

	"marketplace/config"
	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/lifecycle"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"
	"marketplace/internal/infra/persistence/model"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

const createRoleTypeSQL = `DO $$ BEGIN
	CREATE TYPE ` + model.RoleTypeName + ` AS ENUM ('buyer', 'seller');
EXCEPTION
	WHEN duplicate_object THEN NULL;
END $$;`

// Migrate creates the enumerated role type and every table in foreign key order.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(createRoleTypeSQL).Error; err != nil {
			return errors.Wrap(err, "failed to create user_role type")
		}
	}

	if err := db.AutoMigrate(
		&model.IdentityModel{},
		&model.ProfileModel{},
		&model.CategoryModel{},
		&model.ProductModel{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	return nil
}

// SeedCategories inserts the default catalogue when the categories table is empty.
// It runs with elevated privilege: no principal may insert categories.
func SeedCategories(ctx context.Context, txManager repository.TransactionManager) (int, error) {
	inserted := 0

	err := txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		categoryRepo := repos.CategoryRepo()

		count, err := categoryRepo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, category := range entity.SeedCategories() {
			if err := categoryRepo.Create(ctx, category); err != nil {
				return errors.Wrapf(err, "failed to seed category %q", category.Name)
			}
			inserted++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// MigrationParams defines the dependencies of RegisterMigrations.
type MigrationParams struct {
	fx.In
	fx.Lifecycle

	Config    *config.Config
	Logger    *slog.Logger
	DB        *gorm.DB
	TxManager repository.TransactionManager
}

// RegisterMigrations migrates and seeds the database on start when database.autoMigrate is set.
func RegisterMigrations(params MigrationParams) {
	if !params.Config.Database.AutoMigrate {
		return
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := Migrate(ctx, params.DB); err != nil {
				return err
			}

			inserted, err := SeedCategories(ctx, params.TxManager)
			if err != nil {
				return err
			}

			params.Logger.Info("Database schema ready",
				slog.String("driver", params.DB.Dialector.Name()),
				slog.Int("seededCategories", inserted),
			)

			return nil
		},
	})
}
