package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/service"
)

type AnalyticsHandler struct{ svc service.AnalyticsService }

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) bindRange(c *gin.Context) (dto.AnalyticsRange, bool) {
	var rng dto.AnalyticsRange
	if err := c.ShouldBindQuery(&rng); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return rng, false
	}
	return rng, true
}

// Summary godoc
// @Summary      Sales summary over a date range
// @Description  Revenue, discount, tax, profit and transaction count. Defaults to the current month.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {object} dto.AnalyticsSummary
// @Router       /v1/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	rng, ok := h.bindRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopCategories godoc
// @Summary      Best-selling categories
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Param        limit      query int    false "Max rows (default 10)"
// @Success      200 {array} dto.CategorySales
// @Router       /v1/analytics/categories [get]
func (h *AnalyticsHandler) TopCategories(c *gin.Context) {
	rng, ok := h.bindRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.TopCategories(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CashierPerformance godoc
// @Summary      Monthly sales totals per cashier
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {array} dto.CashierPerformance
// @Router       /v1/analytics/cashiers [get]
func (h *AnalyticsHandler) CashierPerformance(c *gin.Context) {
	rng, ok := h.bindRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.CashierPerformance(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
