package models

import "time"

// RequestStatus is the lifecycle state of an access request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// AccessRequest is a user's ask to be granted a role in an application.
type AccessRequest struct {
	ID            string        `gorm:"primaryKey;size:36"`
	UserID        string        `gorm:"size:36;not null;index"`
	Email         string        `gorm:"size:255"`
	App           string        `gorm:"size:16;not null;index"`
	RequestedRole string        `gorm:"size:32;not null"`
	Status        RequestStatus `gorm:"type:varchar(16);not null;index"`
	GrantedRole   string        `gorm:"size:32"`
	DecidedBy     string        `gorm:"size:36"`
	DecidedAt     *time.Time
	// PendingKey is user|app while pending and NULL afterwards.
	// Its unique index admits one pending request per user and application.
	PendingKey *string `gorm:"size:64;uniqueIndex"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the gorm default.
func (AccessRequest) TableName() string {
	return "access_requests"
}

// PendingKey builds the value of AccessRequest.PendingKey.
func PendingKey(userID, app string) *string {
	k := userID + "|" + app

	return &k
}
