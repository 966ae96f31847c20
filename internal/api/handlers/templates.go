package handlers

import (
	"strconv"

	"netvault/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	configService *services.ConfigurationService
}

func NewTemplateHandler(configService *services.ConfigurationService) *TemplateHandler {
	return &TemplateHandler{configService: configService}
}

// List returns every template across all owners. The template library is
// shared; this endpoint intentionally skips the per-owner scope.
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.configService.ListTemplates()
	if err != nil {
		FailFromError(c, err)
		return
	}

	items := make([]map[string]any, 0, len(templates))
	for i := range templates {
		items = append(items, templates[i].Serialize(false))
	}

	Success(c, 200, "", items)
}

// CreateFromTemplate instantiates a template into a new configuration owned
// by the caller.
func (h *TemplateHandler) CreateFromTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		Fail(c, 400, "Invalid template ID")
		return
	}

	config, err := h.configService.InstantiateTemplate(uint(id), currentUserID(c), requestMeta(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 201, "Configuration created from template", config.Serialize(true))
}
