package models

import "time"

// SuperAdmin marks a profile as allowed to decide access requests.
type SuperAdmin struct {
	UserID    string `gorm:"primaryKey;size:36"`
	AddedBy   string `gorm:"size:100"`
	CreatedAt time.Time
}

// TableName overrides the gorm default.
func (SuperAdmin) TableName() string {
	return "super_admins"
}
