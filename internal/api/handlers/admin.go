package handlers

import (
	"strconv"

	"netvault/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	auditService *services.AuditService
}

func NewAdminHandler(auditService *services.AuditService) *AdminHandler {
	return &AdminHandler{auditService: auditService}
}

// ListAuditLogs returns filtered audit entries, newest first.
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	page, perPage := paginationParams(c, 50)

	logs, total, err := h.auditService.Query(auditFilters(c), page, perPage)
	if err != nil {
		FailFromError(c, err)
		return
	}

	items := make([]map[string]any, 0, len(logs))
	for i := range logs {
		items = append(items, logs[i].Serialize())
	}

	Paginated(c, items, page, perPage, total)
}

// ExportAuditLogs streams filtered audit entries as a CSV attachment.
func (h *AdminHandler) ExportAuditLogs(c *gin.Context) {
	content, err := h.auditService.ExportCSV(auditFilters(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=audit-logs.csv")
	c.Data(200, "text/csv", content)
}

func auditFilters(c *gin.Context) services.AuditFilters {
	filters := services.AuditFilters{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
	}

	if v, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		filters.UserID = uint(v)
	}

	return filters
}
