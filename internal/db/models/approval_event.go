package models

import "time"

// ApprovalAction names a step in the access request workflow.
type ApprovalAction string

const (
	ActionSubmit  ApprovalAction = "submit"
	ActionApprove ApprovalAction = "approve"
	ActionReject  ApprovalAction = "reject"
	ActionDelete  ApprovalAction = "delete"
	ActionGrant   ApprovalAction = "grant"
)

// ApprovalEvent is an append-only audit record. Events outlive deleted requests.
type ApprovalEvent struct {
	ID        uint64         `gorm:"primaryKey"`
	RequestID string         `gorm:"size:36;index"`
	UserID    string         `gorm:"size:36;index"` // subject of the request
	Actor     string         `gorm:"size:36;not null"`
	Action    ApprovalAction `gorm:"type:varchar(16);not null"`
	App       string         `gorm:"size:16"`
	Role      string         `gorm:"size:32"`
	Note      string         `gorm:"size:255"`
	CreatedAt time.Time
}

// TableName overrides the gorm default.
func (ApprovalEvent) TableName() string {
	return "approval_events"
}
