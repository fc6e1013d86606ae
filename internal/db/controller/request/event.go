package request

import (
	"context"

	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// RecordEvent appends e to the audit trail.
func RecordEvent(ctx context.Context, db *gorm.DB, e *models.ApprovalEvent) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).Create(e).Error
}

// Events returns the trail of requestID, oldest first.
func Events(ctx context.Context, db *gorm.DB, requestID string) ([]models.ApprovalEvent, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.ApprovalEvent

	err := db.WithContext(ctx).Where("request_id = ?", requestID).Order("id").Find(&out).Error

	return out, err
}
