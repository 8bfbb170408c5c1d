package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/service"
)

type AuditLogsHandler struct{ svc service.AuditService }

func NewAuditLogsHandler(svc service.AuditService) *AuditLogsHandler {
	return &AuditLogsHandler{svc: svc}
}

// List godoc
// @Summary      List audit log entries
// @Description  Entries are recorded asynchronously after commit; a sale may appear here with a short delay.
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        user_id     query int    false "Filter by acting user"
// @Param        entity_type query string false "item | customer | sale | user"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Rows per page (default 20)"
// @Success      200 {object} dto.AuditLogListResponse
// @Router       /v1/audit-logs [get]
func (h *AuditLogsHandler) List(c *gin.Context) {
	var filter dto.AuditLogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
