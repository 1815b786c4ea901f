package handler

import (
	"net/http"
	"strconv"

	"smartpass/internal/middleware"
	"smartpass/internal/model"
	"smartpass/internal/service"
	"smartpass/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	guard         middleware.Guard
}

func NewReportHandler(reportService service.ReportService, guard middleware.Guard) *ReportHandler {
	return &ReportHandler{reportService: reportService, guard: guard}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/reports", h.guard.Auth())
	{
		group.GET("/stats", h.GetStats)
		group.GET("/growth", h.GetGrowth)
		group.GET("/activity", h.guard.Can(model.CapViewEmployees), h.GetRecentActivity)
		group.POST("/custom", h.guard.Can(model.CapViewEmployees), h.GenerateCustomReport)
	}
}

// GetStats handles GET /api/reports/stats
// @Summary      Headline counters
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.EmployeeStats}
// @Router       /api/reports/stats [get]
func (h *ReportHandler) GetStats(c *gin.Context) {
	stats, err := h.reportService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetGrowth handles GET /api/reports/growth
// @Summary      Employee growth series
// @Description  7days and 30days are bucketed by day, quarter by month. Unknown ranges use 30days.
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        range  query  string  false  "7days, 30days or quarter"
// @Success      200  {object}  response.Response{data=[]model.GrowthPoint}
// @Router       /api/reports/growth [get]
func (h *ReportHandler) GetGrowth(c *gin.Context) {
	points, err := h.reportService.GetGrowth(c.Request.Context(), c.DefaultQuery("range", service.GrowthRange30Days))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}

// GetRecentActivity handles GET /api/reports/activity
// @Summary      Recently added employees
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query  int  false  "Number of items (default 5)"
// @Success      200  {object}  response.Response{data=[]model.RecentActivityItem}
// @Router       /api/reports/activity [get]
func (h *ReportHandler) GetRecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultRecentLimit)))

	items, err := h.reportService.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// GenerateCustomReport handles POST /api/reports/custom
// @Summary      Custom employee report
// @Description  dateTo includes its whole day. Dates are YYYY-MM-DD or RFC3339.
// @Tags         reports
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CustomReportRequest  true  "Filters"
// @Success      200      {object}  response.Response{data=service.CustomReportResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/reports/custom [post]
func (h *ReportHandler) GenerateCustomReport(c *gin.Context) {
	var req service.CustomReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	report, err := h.reportService.GenerateCustomReport(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
