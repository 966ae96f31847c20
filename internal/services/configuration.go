package services

import (
	"errors"
	"fmt"
	"strings"

	"netvault/internal/models"
	"netvault/internal/validation"

	"gorm.io/gorm"
)

type ConfigurationService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewConfigurationService(db *gorm.DB, audit *AuditService) *ConfigurationService {
	return &ConfigurationService{db: db, audit: audit}
}

type CreateConfigurationInput struct {
	Name        string
	ConfigType  string
	Description string
	Data        map[string]any
	Tags        any
	IsTemplate  bool
}

type UpdateConfigurationInput struct {
	Name              *string
	Description       *string
	Tags              any
	IsTemplate        *bool
	Data              map[string]any
	ChangeDescription string
}

type ListFilters struct {
	ConfigType string
	IsTemplate *bool
	Search     string
	Tags       []string
}

// Create persists a new configuration and, atomically with it, version #1
// holding the same data.
func (s *ConfigurationService) Create(userID uint, input CreateConfigurationInput, meta RequestMeta) (*models.Configuration, error) {
	fieldErrors := ValidationErrors{}
	if ok, msg := validation.ValidateConfigType(input.ConfigType); !ok {
		fieldErrors["config_type"] = msg
	}
	if ok, msg := validation.ValidateTags(input.Tags); !ok {
		fieldErrors["tags"] = msg
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	tags, _ := validation.NormalizeTags(input.Tags)

	config := &models.Configuration{
		UserID:      userID,
		ConfigType:  input.ConfigType,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Data:        models.JSONMap(input.Data),
		Tags:        models.TagList(tags),
		IsTemplate:  input.IsTemplate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(config).Error; err != nil {
			return err
		}
		version := &models.ConfigurationVersion{
			ConfigID:          config.ID,
			Version:           1,
			Data:              config.Data,
			ChangeDescription: "Initial version",
			CreatedBy:         userID,
		}
		return tx.Create(version).Error
	})
	if err != nil {
		return nil, err
	}

	config.VersionCount = 1

	s.audit.Log(userID, "create", "configuration", &config.ID,
		map[string]any{"name": config.Name, "config_type": config.ConfigType}, meta)

	return config, nil
}

// List returns a page of the owner's configurations, most recently updated
// first. The data payload is excluded from list responses by the handler.
func (s *ConfigurationService) List(userID uint, f ListFilters, page, perPage int) ([]models.Configuration, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	query := s.db.Model(&models.Configuration{}).Where("user_id = ?", userID)

	if f.ConfigType != "" {
		query = query.Where("config_type = ?", f.ConfigType)
	}
	if f.IsTemplate != nil {
		query = query.Where("is_template = ?", *f.IsTemplate)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if len(f.Tags) > 0 {
		cond := s.db.Where("LOWER(tags) LIKE ?", "%"+strings.ToLower(f.Tags[0])+"%")
		for _, tag := range f.Tags[1:] {
			cond = cond.Or("LOWER(tags) LIKE ?", "%"+strings.ToLower(tag)+"%")
		}
		query = query.Where(cond)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var configs []models.Configuration
	err := query.Order("updated_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&configs).Error
	if err != nil {
		return nil, 0, err
	}

	if err := s.fillVersionCounts(configs); err != nil {
		return nil, 0, err
	}

	return configs, total, nil
}

// Get loads a configuration. Existence is checked before ownership, so a
// missing id reports not-found even to a non-owner.
func (s *ConfigurationService) Get(id, callerID uint) (*models.Configuration, error) {
	config, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if config.UserID != callerID {
		return nil, ErrNotOwner
	}

	if err := s.fillVersionCount(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Update applies a partial patch. If and only if the patch carries a new
// data payload, the next sequential version is appended atomically with the
// record update.
func (s *ConfigurationService) Update(id, callerID uint, patch UpdateConfigurationInput, meta RequestMeta) (*models.Configuration, error) {
	config, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if config.UserID != callerID {
		return nil, ErrNotOwner
	}

	if patch.Name != nil {
		config.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		config.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Tags != nil {
		if ok, msg := validation.ValidateTags(patch.Tags); !ok {
			return nil, ValidationErrors{"tags": msg}
		}
		tags, _ := validation.NormalizeTags(patch.Tags)
		config.Tags = models.TagList(tags)
	}
	if patch.IsTemplate != nil {
		config.IsTemplate = *patch.IsTemplate
	}

	dataChanged := patch.Data != nil
	if dataChanged {
		config.Data = models.JSONMap(patch.Data)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(config).Error; err != nil {
			return err
		}

		if !dataChanged {
			return nil
		}

		next, err := models.NextVersionNumber(tx, config.ID)
		if err != nil {
			return err
		}

		changeDescription := patch.ChangeDescription
		if changeDescription == "" {
			changeDescription = "Configuration updated"
		}

		version := &models.ConfigurationVersion{
			ConfigID:          config.ID,
			Version:           next,
			Data:              config.Data,
			ChangeDescription: changeDescription,
			CreatedBy:         callerID,
		}
		return tx.Create(version).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.fillVersionCount(config); err != nil {
		return nil, err
	}

	s.audit.Log(callerID, "update", "configuration", &config.ID,
		map[string]any{"name": config.Name, "data_changed": dataChanged}, meta)

	return config, nil
}

// Delete removes a configuration and all of its versions.
func (s *ConfigurationService) Delete(id, callerID uint, meta RequestMeta) error {
	config, err := s.load(id)
	if err != nil {
		return err
	}
	if config.UserID != callerID {
		return ErrNotOwner
	}

	name := config.Name

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("config_id = ?", id).Delete(&models.ConfigurationVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Configuration{}, id).Error
	})
	if err != nil {
		return err
	}

	s.audit.Log(callerID, "delete", "configuration", &id,
		map[string]any{"name": name}, meta)

	return nil
}

// ListVersions returns the version history, newest version first.
func (s *ConfigurationService) ListVersions(id, callerID uint) ([]models.ConfigurationVersion, error) {
	config, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if config.UserID != callerID {
		return nil, ErrNotOwner
	}

	var versions []models.ConfigurationVersion
	err = s.db.Where("config_id = ?", id).
		Order("version DESC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// GetVersion returns one full version snapshot.
func (s *ConfigurationService) GetVersion(id uint, versionNumber int, callerID uint) (*models.ConfigurationVersion, error) {
	config, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if config.UserID != callerID {
		return nil, ErrNotOwner
	}

	var version models.ConfigurationVersion
	err = s.db.Where("config_id = ? AND version = ?", id, versionNumber).First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}

// ListTemplates returns every template record across all owners. The shared
// template library is the one deliberate exception to per-owner isolation.
func (s *ConfigurationService) ListTemplates() ([]models.Configuration, error) {
	var templates []models.Configuration
	err := s.db.Where("is_template = ?", true).
		Order("updated_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}

	if err := s.fillVersionCounts(templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// InstantiateTemplate copies a template into a new non-template record
// owned by the caller, with version #1 referencing the source.
func (s *ConfigurationService) InstantiateTemplate(templateID, callerID uint, meta RequestMeta) (*models.Configuration, error) {
	template, err := s.load(templateID)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if !template.IsTemplate {
		return nil, ErrNotTemplate
	}

	config := &models.Configuration{
		UserID:      callerID,
		ConfigType:  template.ConfigType,
		Name:        fmt.Sprintf("%s - New", template.Name),
		Description: fmt.Sprintf("Created from template: %s", template.Name),
		Data:        template.Data,
		Tags:        template.Tags,
		IsTemplate:  false,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(config).Error; err != nil {
			return err
		}
		version := &models.ConfigurationVersion{
			ConfigID:          config.ID,
			Version:           1,
			Data:              config.Data,
			ChangeDescription: fmt.Sprintf("Created from template %q", template.Name),
			CreatedBy:         callerID,
		}
		return tx.Create(version).Error
	})
	if err != nil {
		return nil, err
	}

	config.VersionCount = 1

	s.audit.Log(callerID, "create_from_template", "configuration", &config.ID,
		map[string]any{"template_id": template.ID, "template_name": template.Name}, meta)

	return config, nil
}

func (s *ConfigurationService) load(id uint) (*models.Configuration, error) {
	var config models.Configuration
	if err := s.db.First(&config, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return &config, nil
}

func (s *ConfigurationService) fillVersionCount(config *models.Configuration) error {
	var count int64
	err := s.db.Model(&models.ConfigurationVersion{}).
		Where("config_id = ?", config.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	config.VersionCount = count
	return nil
}

func (s *ConfigurationService) fillVersionCounts(configs []models.Configuration) error {
	if len(configs) == 0 {
		return nil
	}

	ids := make([]uint, len(configs))
	for i := range configs {
		ids[i] = configs[i].ID
	}

	type countRow struct {
		ConfigID uint
		Total    int64
	}
	var rows []countRow
	err := s.db.Model(&models.ConfigurationVersion{}).
		Select("config_id, COUNT(*) AS total").
		Where("config_id IN ?", ids).
		Group("config_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ConfigID] = r.Total
	}
	for i := range configs {
		configs[i].VersionCount = counts[configs[i].ID]
	}
	return nil
}
