package models

import (
	"time"

	"gorm.io/gorm"
)

type Configuration struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	ConfigType  string    `json:"config_type" gorm:"type:varchar(50);not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Data        JSONMap   `json:"data" gorm:"type:text;not null"`
	Tags        TagList   `json:"tags" gorm:"type:varchar(500)"`
	IsTemplate  bool      `json:"is_template" gorm:"default:false;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Versions []ConfigurationVersion `json:"-" gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE"`

	// Populated by the configuration service on read paths.
	VersionCount int64 `json:"version_count" gorm:"-"`
}

// Serialize returns the response shape for a configuration. List endpoints
// exclude the data payload.
func (c *Configuration) Serialize(includeData bool) map[string]any {
	data := map[string]any{
		"id":            c.ID,
		"user_id":       c.UserID,
		"config_type":   c.ConfigType,
		"name":          c.Name,
		"description":   c.Description,
		"tags":          c.Tags.List(),
		"is_template":   c.IsTemplate,
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
		"version_count": c.VersionCount,
	}

	if includeData {
		data["data"] = c.Data.Map()
	}

	return data
}

// ConfigurationVersion is an immutable snapshot of a configuration's data
// payload. Version numbers are contiguous from 1 per configuration; the
// composite unique index is the safety net against concurrent writers.
type ConfigurationVersion struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	ConfigID          uint      `json:"config_id" gorm:"not null;index;uniqueIndex:idx_config_version"`
	Version           int       `json:"version" gorm:"not null;uniqueIndex:idx_config_version"`
	Data              JSONMap   `json:"data" gorm:"type:text;not null"`
	ChangeDescription string    `json:"change_description" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	CreatedBy         uint      `json:"created_by" gorm:"not null"`

	Creator *User `json:"-" gorm:"foreignKey:CreatedBy"`
}

// Serialize returns the response shape for a version.
func (v *ConfigurationVersion) Serialize(includeData bool) map[string]any {
	data := map[string]any{
		"id":                 v.ID,
		"config_id":          v.ConfigID,
		"version":            v.Version,
		"change_description": v.ChangeDescription,
		"created_at":         v.CreatedAt,
		"created_by":         v.CreatedBy,
	}

	if includeData {
		data["data"] = v.Data.Map()
	}

	return data
}

// NextVersionNumber returns max(existing version)+1 for a configuration,
// or 1 if it has no versions yet.
func NextVersionNumber(db *gorm.DB, configID uint) (int, error) {
	var max int64
	err := db.Model(&ConfigurationVersion{}).
		Where("config_id = ?", configID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return int(max) + 1, nil
}
