package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	appModels "github.com/mellynhq/mellyn/internal/app/models"
	appRepos "github.com/mellynhq/mellyn/internal/app/repositories"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// defaultGroups are created on first start so staff accounts can be
// given sensible roles without building groups by hand.
var defaultGroups = []struct {
	name        string
	slug        string
	description string
	permissions []string
}{
	{
		name:        "Agreement managers",
		slug:        "agreement-managers",
		description: "Full control over resources, agreements and license codes",
		permissions: []string{
			appModels.PermAddResource, appModels.PermChangeResource, appModels.PermDeleteResource,
			appModels.PermViewAgreement, appModels.PermAddAgreement, appModels.PermChangeAgreement, appModels.PermDeleteAgreement,
			appModels.PermViewLicenseCode, appModels.PermAddLicenseCode, appModels.PermDeleteLicenseCode,
			appModels.PermViewFaculty, appModels.PermAddFaculty, appModels.PermChangeFaculty, appModels.PermDeleteFaculty,
			appModels.PermViewDepartment, appModels.PermAddDepartment, appModels.PermChangeDepartment, appModels.PermDeleteDepartment,
		},
	},
	{
		name:        "Signature auditors",
		slug:        "signature-auditors",
		description: "Read-only access to signatures and download activity",
		permissions: []string{
			appModels.PermViewAgreement,
			appModels.PermViewSignature,
			appModels.PermViewFileDownloadEvent,
		},
	},
}

// CreateDefaultData creates the default permission groups and an initial
// superuser if none of them exist yet.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	groupRepo := appRepos.NewGroupRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (groups, superuser)...")
	var finalErr error

	for _, g := range defaultGroups {
		group := &appModels.PermissionGroup{
			Name:        g.name,
			Slug:        g.slug,
			Description: g.description,
		}
		err := groupRepo.Create(ctx, group)
		if errors.Is(err, apperrors.ErrGroupAlreadyExists) {
			continue
		}
		if err != nil {
			lgr.Error().Err(err).Str("slug", g.slug).Msg("Error creating default group")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if err := groupRepo.SetPermissions(ctx, group.ID, g.permissions); err != nil {
			lgr.Error().Err(err).Str("slug", g.slug).Msg("Error granting default group permissions")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Default superuser, created only when the username is free.
	_, err := userRepo.GetByUsername(ctx, "admin")
	if errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Info().Msg("Creating default superuser...")

		hashed, hashErr := auth.HashPassword("Admin123!")
		if hashErr != nil {
			lgr.Error().Err(hashErr).Msg("Error hashing superuser password")
			return errors.Join(finalErr, hashErr)
		}

		admin := &appModels.User{
			Username:    "admin",
			Email:       "admin@mellyn.local",
			Password:    hashed,
			FirstName:   "System",
			LastName:    "Administrator",
			IsStaff:     true,
			IsSuperuser: true,
			IsActive:    true,
		}
		if createErr := userRepo.Create(ctx, admin); createErr != nil {
			lgr.Error().Err(createErr).Msg("Error creating default superuser")
			finalErr = errors.Join(finalErr, createErr)
		} else {
			lgr.Warn().Msg("Default superuser 'admin' created with a well-known password, change it immediately")
		}
	} else if err != nil {
		lgr.Error().Err(err).Msg("Error checking for default superuser")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}
