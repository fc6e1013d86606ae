// Package role provides database operations for per-application role assignments.
package role

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrRoleNotFound is returned when the user holds no role for the application.
	ErrRoleNotFound = errors.New("role assignment not found")
)

// Get returns the role assignment of userID for app.
func Get(ctx context.Context, db *gorm.DB, userID, app string) (*models.RoleAssignment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var ra models.RoleAssignment

	err := db.WithContext(ctx).Where("user_id = ? AND app = ?", userID, app).First(&ra).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, err
	}

	return &ra, nil
}

// Upsert sets the role of userID for app, replacing an existing assignment.
func Upsert(ctx context.Context, db *gorm.DB, userID, app, role, grantedBy string) error {
	if db == nil {
		return ErrDBNil
	}

	ra := models.RoleAssignment{
		UserID:    userID,
		App:       app,
		Role:      role,
		GrantedBy: grantedBy,
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "app"}},
		DoUpdates: clause.Assignments(map[string]any{
			"role":       role,
			"granted_by": grantedBy,
			"updated_at": time.Now(),
		}),
	}).Create(&ra).Error
}

// ListByUser returns every assignment of userID ordered by application.
func ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]models.RoleAssignment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.RoleAssignment

	err := db.WithContext(ctx).Where("user_id = ?", userID).Order("app").Find(&out).Error

	return out, err
}
