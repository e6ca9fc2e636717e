package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/auth"
)

// AdminStore is the slice of the user repository the seed needs
type AdminStore interface {
	AdminExists(ctx context.Context) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// CreateDefaultAdmin creates an approved admin account when the database has
// none. Reruns are no-ops.
func CreateDefaultAdmin(ctx context.Context, users AdminStore, email, password string, lgr zerolog.Logger) error {
	exists, err := users.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("check for admin: %w", err)
	}
	if exists {
		lgr.Debug().Msg("Admin account present, skipping seed")
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		lgr.Warn().Msg("No admin account and no seed credentials configured")
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		Email:    email,
		Password: hashed,
		Name:     "Admin",
		Status:   models.UserStatusApproved,
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		// a user with this email registered before any admin existed
		if apperrors.Is(err, apperrors.ErrEmailAlreadyExists, apperrors.ErrConflict) {
			lgr.Warn().Str("email", email).Msg("Seed admin email already registered as a regular user")
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	lgr.Info().Str("email", email).Msg("Default admin account created")
	return nil
}
