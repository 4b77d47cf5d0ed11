package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartbill/smartbill-api/internal/application/service"
	"github.com/smartbill/smartbill-api/internal/presentation/http/dto/response"
)

// ReportsHandler handles reporting HTTP requests
type ReportsHandler struct {
	reportsService *service.ReportsService
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(reportsService *service.ReportsService) *ReportsHandler {
	return &ReportsHandler{reportsService: reportsService}
}

// Sales handles the daily sales report
func (h *ReportsHandler) Sales(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	report, err := h.reportsService.GetSalesReport(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report retrieved successfully", report)
}

// Daily handles the per-day sales breakdown for an optional date range
func (h *ReportsHandler) Daily(c *gin.Context) {
	var start, end time.Time

	if v := c.Query("start"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		// End date is inclusive
		end = parsed.AddDate(0, 0, 1)
	}

	daily, err := h.reportsService.GetDailyBreakdown(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily sales retrieved successfully", daily)
}

// TopProducts handles the best-sellers listing
func (h *ReportsHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	top, err := h.reportsService.GetTopProducts(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top products retrieved successfully", top)
}

// Monthly handles the month-over-month report
func (h *ReportsHandler) Monthly(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))

	report, err := h.reportsService.GetMonthlyReport(c.Request.Context(), months)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Monthly report retrieved successfully", report)
}
