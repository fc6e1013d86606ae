// Package request provides database operations for access requests and their audit events.
package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	portaldb "github.com/UnifiedPortal/UnifiedPortal/internal/db"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrRequestNotFound is returned when no request matches the id.
	ErrRequestNotFound = errors.New("access request not found")
	// ErrRequestAlreadyPending is returned when the user already waits for a decision on the app.
	ErrRequestAlreadyPending = errors.New("access request already pending")
	// ErrRequestNotPending is returned when a decided request is decided again.
	ErrRequestNotPending = errors.New("access request is not pending")
)

// Filter narrows List. The zero value lists everything.
type Filter struct {
	Status models.RequestStatus
	UserID string
	App    string
}

// Create inserts r as a pending request.
// The id, status and pending key are set here.
func Create(ctx context.Context, db *gorm.DB, r *models.AccessRequest) error {
	if db == nil {
		return ErrDBNil
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	r.Status = models.RequestPending
	r.PendingKey = models.PendingKey(r.UserID, r.App)

	err := db.WithContext(ctx).Create(r).Error
	if portaldb.IsDuplicate(err) {
		return ErrRequestAlreadyPending
	}

	return err
}

// Get retrieves a request by id.
func Get(ctx context.Context, db *gorm.DB, id string) (*models.AccessRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.AccessRequest

	err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}

	if err != nil {
		return nil, err
	}

	return &r, nil
}

// Pending returns the pending request of userID for app.
func Pending(ctx context.Context, db *gorm.DB, userID, app string) (*models.AccessRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.AccessRequest

	err := db.WithContext(ctx).Where("pending_key = ?", *models.PendingKey(userID, app)).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}

	if err != nil {
		return nil, err
	}

	return &r, nil
}

// List returns requests matching f, newest first.
func List(ctx context.Context, db *gorm.DB, f Filter) ([]models.AccessRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.WithContext(ctx).Model(&models.AccessRequest{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}

	if f.App != "" {
		q = q.Where("app = ?", f.App)
	}

	var out []models.AccessRequest

	err := q.Order("created_at DESC").Order("id").Find(&out).Error

	return out, err
}

// Decide moves a pending request to status. grantedRole is stored for approvals.
// The update only matches pending rows so concurrent decisions cannot both win.
func Decide(
	ctx context.Context, db *gorm.DB, id string, status models.RequestStatus, grantedRole, decidedBy string,
) (*models.AccessRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	now := time.Now()

	res := db.WithContext(ctx).Model(&models.AccessRequest{}).
		Where("id = ? AND status = ?", id, models.RequestPending).
		Updates(map[string]any{
			"status":       status,
			"granted_role": grantedRole,
			"decided_by":   decidedBy,
			"decided_at":   now,
			"pending_key":  nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	r, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if res.RowsAffected == 0 {
		return r, ErrRequestNotPending
	}

	return r, nil
}

// Delete removes the request. Its events stay.
func Delete(ctx context.Context, db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	res := db.WithContext(ctx).Where("id = ?", id).Delete(&models.AccessRequest{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}
