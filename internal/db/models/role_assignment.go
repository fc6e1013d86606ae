package models

import "time"

// RoleAssignment grants one role in one application to a profile.
// A profile holds at most one role per application.
type RoleAssignment struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID string `gorm:"size:36;not null;uniqueIndex:idx_role_assignment_user_app"`
	App    string `gorm:"size:16;not null;uniqueIndex:idx_role_assignment_user_app"`
	Role   string `gorm:"size:32;not null"`
	// GrantedBy is the profile id of the approver, "cli" for operator grants.
	GrantedBy string `gorm:"size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the gorm default.
func (RoleAssignment) TableName() string {
	return "role_assignments"
}
