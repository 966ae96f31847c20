package models

import (
	"fmt"
	"time"
)

// AuditLog is an append-only record of a single user action. Entries are
// never updated or deleted.
type AuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Action       string    `json:"action" gorm:"type:varchar(50);not null;index"`
	ResourceType string    `json:"resource_type" gorm:"type:varchar(50);not null"`
	ResourceID   *uint     `json:"resource_id"`
	Details      JSONMap   `json:"details" gorm:"type:text"`
	IPAddress    string    `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent    string    `json:"user_agent" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// Serialize returns the response shape for an audit entry.
func (a *AuditLog) Serialize() map[string]any {
	var username any
	if a.User != nil {
		username = a.User.Username
	}

	return map[string]any{
		"id":            a.ID,
		"user_id":       a.UserID,
		"username":      username,
		"action":        a.Action,
		"resource_type": a.ResourceType,
		"resource_id":   a.ResourceID,
		"details":       a.Details.Map(),
		"ip_address":    a.IPAddress,
		"user_agent":    a.UserAgent,
		"created_at":    a.CreatedAt,
	}
}

// Actor returns the username for exports, falling back to a numeric label
// when the user row is gone.
func (a *AuditLog) Actor() string {
	if a.User != nil {
		return a.User.Username
	}
	return fmt.Sprintf("User #%d", a.UserID)
}
