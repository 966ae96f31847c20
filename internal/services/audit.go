package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"

	"netvault/internal/models"

	"gorm.io/gorm"
)

// exportRowLimit caps CSV exports so an unfiltered download stays bounded.
const exportRowLimit = 10000

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log appends one immutable audit entry. The write is best-effort: a failure
// is logged server-side and never propagated, so it cannot mask the outcome
// of the operation being audited.
func (s *AuditService) Log(userID uint, action, resourceType string, resourceID *uint, details map[string]any, meta RequestMeta) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      models.JSONMap(details),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}

	if err := s.db.Create(entry).Error; err != nil {
		log.Printf("audit: failed to record %s on %s: %v", action, resourceType, err)
	}
}

// AuditFilters narrows audit queries. Zero values mean no filtering.
type AuditFilters struct {
	Action       string
	UserID       uint
	ResourceType string
}

// Query returns a page of audit entries, newest first.
func (s *AuditService) Query(f AuditFilters, page, perPage int) ([]models.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 100 {
		perPage = 100
	}

	query := s.filtered(f)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// ExportCSV renders filtered audit entries as CSV, newest first, capped at
// exportRowLimit rows.
func (s *AuditService) ExportCSV(f AuditFilters) ([]byte, error) {
	var logs []models.AuditLog
	err := s.filtered(f).Preload("User").
		Order("created_at DESC").
		Limit(exportRowLimit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Timestamp", "Username", "Action", "Resource Type", "Resource ID", "Details", "IP Address"}); err != nil {
		return nil, err
	}

	for i := range logs {
		entry := &logs[i]

		resourceID := ""
		if entry.ResourceID != nil {
			resourceID = fmt.Sprintf("%d", *entry.ResourceID)
		}

		record := []string{
			entry.CreatedAt.Format("2006-01-02T15:04:05"),
			entry.Actor(),
			entry.Action,
			entry.ResourceType,
			resourceID,
			fmt.Sprintf("%v", entry.Details.Map()),
			entry.IPAddress,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *AuditService) filtered(f AuditFilters) *gorm.DB {
	query := s.db.Model(&models.AuditLog{})

	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.ResourceType != "" {
		query = query.Where("resource_type = ?", f.ResourceType)
	}

	return query
}
