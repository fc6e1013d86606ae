package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/profile"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// externalIdentity is what a directory or OIDC provider tells about a principal.
type externalIdentity struct {
	Source     models.AuthSource
	ExternalID string
	Username   string
	Email      string
	FirstName  string
	LastName   string
}

// upsertExternal finds the profile of id by source and external id, creating it on
// first sign-in and refreshing name and email afterwards.
func upsertExternal(ctx context.Context, db *gorm.DB, id externalIdentity) (*models.Profile, error) {
	u, err := profile.GetByExternalID(ctx, db, id.Source, id.ExternalID)

	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		username := id.Username
		if username == "" {
			username = id.Email
		}

		if username == "" {
			username = string(id.Source) + ":" + id.ExternalID
		}

		u = &models.Profile{
			Active:     true,
			Username:   username,
			Email:      id.Email,
			FirstName:  id.FirstName,
			LastName:   id.LastName,
			AuthSource: id.Source,
			ExternalID: id.ExternalID,
		}

		if err = profile.Create(ctx, db, u); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		return u, nil
	case err != nil:
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !u.Active {
		return nil, ErrUserAccountDisabled
	}

	u.Email = id.Email
	u.FirstName = id.FirstName
	u.LastName = id.LastName

	if err = profile.Save(ctx, db, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}
