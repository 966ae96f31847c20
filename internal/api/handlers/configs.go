package handlers

import (
	"strconv"
	"strings"

	"netvault/internal/services"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	configService *services.ConfigurationService
}

func NewConfigHandler(configService *services.ConfigurationService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

type CreateConfigRequest struct {
	ConfigType  string         `json:"config_type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data"`
	Tags        any            `json:"tags"`
	IsTemplate  bool           `json:"is_template"`
}

type UpdateConfigRequest struct {
	Name              *string        `json:"name"`
	Description       *string        `json:"description"`
	Data              map[string]any `json:"data"`
	Tags              any            `json:"tags"`
	IsTemplate        *bool          `json:"is_template"`
	ChangeDescription string         `json:"change_description"`
}

// List returns the caller's configurations, filtered and paginated. The
// data payload is excluded from list items.
func (h *ConfigHandler) List(c *gin.Context) {
	page, perPage := paginationParams(c, 20)

	filters := services.ListFilters{
		ConfigType: c.Query("config_type"),
		Search:     strings.TrimSpace(c.Query("search")),
	}

	if v := c.Query("is_template"); v != "" {
		isTemplate := strings.EqualFold(v, "true")
		filters.IsTemplate = &isTemplate
	}

	if tags := strings.TrimSpace(c.Query("tags")); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
	}

	configs, total, err := h.configService.List(currentUserID(c), filters, page, perPage)
	if err != nil {
		FailFromError(c, err)
		return
	}

	items := make([]map[string]any, 0, len(configs))
	for i := range configs {
		items = append(items, configs[i].Serialize(false))
	}

	Paginated(c, items, page, perPage, total)
}

// Create stores a new configuration together with version #1.
func (h *ConfigHandler) Create(c *gin.Context) {
	var req CreateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, 400, "No data provided")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		Fail(c, 400, "Configuration name is required")
		return
	}
	if req.ConfigType == "" {
		Fail(c, 400, "Configuration type is required")
		return
	}
	if len(req.Data) == 0 {
		Fail(c, 400, "Configuration data is required")
		return
	}

	config, err := h.configService.Create(currentUserID(c), services.CreateConfigurationInput{
		Name:        req.Name,
		ConfigType:  req.ConfigType,
		Description: req.Description,
		Data:        req.Data,
		Tags:        req.Tags,
		IsTemplate:  req.IsTemplate,
	}, requestMeta(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 201, "Configuration created successfully", config.Serialize(true))
}

// Get returns one configuration with its data payload.
func (h *ConfigHandler) Get(c *gin.Context) {
	id, ok := configID(c)
	if !ok {
		return
	}

	config, err := h.configService.Get(id, currentUserID(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 200, "", config.Serialize(true))
}

// Update applies a partial patch and appends a version when the data
// payload changes.
func (h *ConfigHandler) Update(c *gin.Context) {
	id, ok := configID(c)
	if !ok {
		return
	}

	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, 400, "No data provided")
		return
	}

	config, err := h.configService.Update(id, currentUserID(c), services.UpdateConfigurationInput{
		Name:              req.Name,
		Description:       req.Description,
		Data:              req.Data,
		Tags:              req.Tags,
		IsTemplate:        req.IsTemplate,
		ChangeDescription: req.ChangeDescription,
	}, requestMeta(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 200, "Configuration updated successfully", config.Serialize(true))
}

// Delete removes a configuration and its version history.
func (h *ConfigHandler) Delete(c *gin.Context) {
	id, ok := configID(c)
	if !ok {
		return
	}

	if err := h.configService.Delete(id, currentUserID(c), requestMeta(c)); err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 200, "Configuration deleted successfully", nil)
}

// ListVersions returns version summaries, newest first, data excluded.
func (h *ConfigHandler) ListVersions(c *gin.Context) {
	id, ok := configID(c)
	if !ok {
		return
	}

	versions, err := h.configService.ListVersions(id, currentUserID(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	items := make([]map[string]any, 0, len(versions))
	for i := range versions {
		items = append(items, versions[i].Serialize(false))
	}

	Success(c, 200, "", gin.H{"versions": items})
}

// GetVersion returns one full version snapshot.
func (h *ConfigHandler) GetVersion(c *gin.Context) {
	id, ok := configID(c)
	if !ok {
		return
	}

	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		Fail(c, 400, "Invalid version number")
		return
	}

	version, err := h.configService.GetVersion(id, versionNumber, currentUserID(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 200, "", version.Serialize(true))
}

func configID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		Fail(c, 400, "Invalid configuration ID")
		return 0, false
	}
	return uint(id), true
}

func paginationParams(c *gin.Context, defaultPerPage int) (int, int) {
	page := 1
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		page = v
	}

	perPage := defaultPerPage
	if v, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage))); err == nil && v > 0 {
		perPage = v
	}
	if perPage > 100 {
		perPage = 100
	}

	return page, perPage
}
