// Package profile provides database operations for identity profiles.
package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	portaldb "github.com/UnifiedPortal/UnifiedPortal/internal/db"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrProfileNotFound is returned when no profile matches.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrUsernameEmpty is returned when a profile without username is created.
	ErrUsernameEmpty = errors.New("profile username cannot be empty")
	// ErrUsernameTaken is returned when the username is already used.
	ErrUsernameTaken = errors.New("profile username already exists")
)

// Get retrieves a profile by id.
func Get(ctx context.Context, db *gorm.DB, id string) (*models.Profile, error) {
	return first(ctx, db, "id = ?", id)
}

// GetByUsername retrieves a profile by its unique username.
func GetByUsername(ctx context.Context, db *gorm.DB, username string) (*models.Profile, error) {
	return first(ctx, db, "username = ?", username)
}

// GetByEmail retrieves the first profile with the given email, case insensitive.
func GetByEmail(ctx context.Context, db *gorm.DB, email string) (*models.Profile, error) {
	return first(ctx, db, "LOWER(email) = ?", strings.ToLower(email))
}

// GetByExternalID retrieves a profile by auth source and external id.
func GetByExternalID(ctx context.Context, db *gorm.DB, source models.AuthSource, externalID string) (*models.Profile, error) {
	return first(ctx, db, "auth_source = ? AND external_id = ?", source, externalID)
}

func first(ctx context.Context, db *gorm.DB, query string, args ...any) (*models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Profile

	err := db.WithContext(ctx).Where(query, args...).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Create inserts p. An empty id is replaced by a new UUID.
func Create(ctx context.Context, db *gorm.DB, p *models.Profile) error {
	if db == nil {
		return ErrDBNil
	}

	if p.Username == "" {
		return ErrUsernameEmpty
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	err := db.WithContext(ctx).Create(p).Error
	if portaldb.IsDuplicate(err) {
		return ErrUsernameTaken
	}

	return err
}

// Save updates all fields of an existing profile.
func Save(ctx context.Context, db *gorm.DB, p *models.Profile) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).Save(p).Error
}

// Ensure creates a minimal profile for id unless one exists.
// An existing profile without email gets the given one. The created profile has no
// password and can not sign in locally until one is set.
func Ensure(ctx context.Context, db *gorm.DB, id, email string) error {
	if db == nil {
		return ErrDBNil
	}

	username := email
	if username == "" {
		username = id
	}

	p := models.Profile{
		ID:         id,
		Active:     true,
		Username:   username,
		Email:      email,
		AuthSource: models.AuthSourceLocal,
	}

	tx := db.WithContext(ctx)

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
		return err
	}

	if email == "" {
		return nil
	}

	return tx.Model(&models.Profile{}).
		Where("id = ? AND (email = '' OR email IS NULL)", id).
		Update("email", email).Error
}

// List returns all profiles ordered by username.
func List(ctx context.Context, db *gorm.DB) ([]models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var profiles []models.Profile

	err := db.WithContext(ctx).Order("username").Find(&profiles).Error

	return profiles, err
}
