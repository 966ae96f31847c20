package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(80);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	IsActive     bool      `json:"is_active" gorm:"default:true;not null"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Configurations []Configuration `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Serialize returns the response shape for a user. Email, active flag and
// updated_at are only exposed to the authenticated user themselves.
func (u *User) Serialize(includeEmail bool) map[string]any {
	data := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"is_admin":   u.IsAdmin,
		"created_at": u.CreatedAt,
	}

	if includeEmail {
		data["email"] = u.Email
		data["is_active"] = u.IsActive
		data["updated_at"] = u.UpdatedAt
	}

	return data
}
