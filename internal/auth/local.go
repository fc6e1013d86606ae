package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/profile"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{db: db}
}

// Authenticate checks username and password of a local profile.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.Profile, error) {
	u, err := profile.GetByUsername(ctx, p.db, username)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if u.AuthSource != models.AuthSourceLocal {
		return nil, ErrUserNotFound
	}

	if !u.Active {
		return nil, ErrUserAccountDisabled
	}

	if !u.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return u, nil
}

// CreateUser creates an active local profile.
func (p *LocalProvider) CreateUser(
	ctx context.Context, username, email, password, firstName, lastName string,
) (*models.Profile, error) {
	hash, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.Profile{
		Active:     true,
		Username:   username,
		Email:      email,
		Password:   hash,
		FirstName:  firstName,
		LastName:   lastName,
		AuthSource: models.AuthSourceLocal,
	}

	if err = profile.Create(ctx, p.db, u); err != nil {
		return nil, err
	}

	return u, nil
}

// ResetPassword sets a new password on a local profile.
func (p *LocalProvider) ResetPassword(ctx context.Context, userID, newPassword string) error {
	hash, err := models.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	res := p.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ? AND auth_source = ?", userID, models.AuthSourceLocal).
		Update("password", hash)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
