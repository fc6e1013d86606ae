package daemon

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/profile"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/superadmin"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// seedActor marks records created by Seed.
const seedActor = "bootstrap"

// Seed creates the bootstrap super-admin from cfg.Bootstrap unless it exists.
// An existing profile keeps its password. Without username or password nothing is seeded.
func Seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	b := cfg.Bootstrap
	if b.SuperAdminUsername == "" || b.SuperAdminPassword == "" {
		log.Debug().Msg("no bootstrap super-admin configured")

		return nil
	}

	p, err := profile.GetByUsername(ctx, db, b.SuperAdminUsername)

	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		hash, errHash := models.HashPassword(b.SuperAdminPassword)
		if errHash != nil {
			return errHash
		}

		p = &models.Profile{
			Active:     true,
			Username:   b.SuperAdminUsername,
			Email:      b.SuperAdminEmail,
			Password:   hash,
			AuthSource: models.AuthSourceLocal,
		}

		if err = profile.Create(ctx, db, p); err != nil {
			return err
		}

		log.Warn().Str("username", p.Username).Msg("bootstrap super-admin created, change its password")
	case err != nil:
		return err
	}

	return superadmin.Add(ctx, db, p.ID, seedActor)
}
