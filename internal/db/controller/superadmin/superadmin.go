// Package superadmin provides database operations for the super-admin flag table.
package superadmin

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNotSuperAdmin is returned by Remove for unknown users.
	ErrNotSuperAdmin = errors.New("user is not a super-admin")
)

// Is reports whether userID is flagged as super-admin.
func Is(ctx context.Context, db *gorm.DB, userID string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	if userID == "" {
		return false, nil
	}

	var count int64

	err := db.WithContext(ctx).Model(&models.SuperAdmin{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Add flags userID. Adding twice is a no-op.
func Add(ctx context.Context, db *gorm.DB, userID, addedBy string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SuperAdmin{UserID: userID, AddedBy: addedBy}).Error
}

// Remove drops the flag of userID.
func Remove(ctx context.Context, db *gorm.DB, userID string) error {
	if db == nil {
		return ErrDBNil
	}

	res := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.SuperAdmin{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrNotSuperAdmin
	}

	return nil
}

// List returns all flagged user ids ordered by creation.
func List(ctx context.Context, db *gorm.DB) ([]models.SuperAdmin, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.SuperAdmin

	err := db.WithContext(ctx).Order("created_at").Find(&out).Error

	return out, err
}
