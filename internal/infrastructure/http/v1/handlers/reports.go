package handlers

import (
	"github.com/gin-gonic/gin"

	"facturier/internal/domain/reports"
)

// ReportsHandler handles HTTP requests for analytics.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Summary handles GET /analytics/summary.
func (h *ReportsHandler) Summary(c *gin.Context) {
	filter := reports.SummaryFilter{
		DateFrom: h.ParseDateQuery(c, "dateFrom"),
		DateTo:   h.ParseDateQuery(c, "dateTo"),
	}

	summary, err := h.service.GetRevenueSummary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}

// StatusDistribution handles GET /analytics/status.
func (h *ReportsHandler) StatusDistribution(c *gin.Context) {
	kind := c.DefaultQuery("kind", reports.KindInvoice)

	dist, err := h.service.GetStatusDistribution(c.Request.Context(), kind)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dist)
}

// MonthlyRevenue handles GET /analytics/monthly.
func (h *ReportsHandler) MonthlyRevenue(c *gin.Context) {
	year := h.ParseIntQuery(c, "year", 0)

	report, err := h.service.GetMonthlyRevenue(c.Request.Context(), year)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// TodayStats handles GET /analytics/today.
func (h *ReportsHandler) TodayStats(c *gin.Context) {
	stats, err := h.service.GetTodayStats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, stats)
}
