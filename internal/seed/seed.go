package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/kaan/connectsphere/internal/app/models"
	appRepos "github.com/kaan/connectsphere/internal/app/repositories"
	"github.com/kaan/connectsphere/internal/config"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
	"github.com/kaan/connectsphere/internal/pkg/auth"
)

// CreateDefaultData seeds the initial admin account. Admins cannot
// self-register, so without this seed no one could ever publish an
// announcement. Reruns are no-ops.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		lgr.Info().Msg("No admin seed configured, skipping default data")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, cfg.Seed.AdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for existing admin account")
		return err
	}
	if exists {
		lgr.Debug().Str("email", cfg.Seed.AdminEmail).Msg("Admin account already seeded")
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		Email:     cfg.Seed.AdminEmail,
		Password:  hashedPassword,
		FirstName: "Platform",
		LastName:  "Admin",
		RoleType:  appModels.RoleAdmin,
	}

	adminID, err := userRepo.CreateUser(ctx, admin)
	if err != nil {
		// A concurrent boot may have seeded it first
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin account")
		return err
	}

	lgr.Info().Int64("userID", adminID).Str("email", cfg.Seed.AdminEmail).Msg("Admin account seeded")
	return nil
}
