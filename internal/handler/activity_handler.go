package handler

import (
	"bytes"
	"net/http"

	"smartpass/internal/middleware"
	"smartpass/internal/service"
	"smartpass/internal/websocket"
	"smartpass/pkg/pagination"
	"smartpass/pkg/response"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService service.ActivityService
	guard           middleware.Guard
	hub             *websocket.Hub
}

// NewActivityHandler wires the activity endpoints. hub may be nil, which disables the live feed.
func NewActivityHandler(activityService service.ActivityService, guard middleware.Guard, hub *websocket.Hub) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, guard: guard, hub: hub}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/activity")
	group.GET("", h.guard.Auth(), h.ListActivity)
	group.GET("/export", h.guard.Auth(), h.ExportActivity)
	if h.hub != nil {
		group.GET("/ws", middleware.RequireAuthOrQuery(h.guard.Tokens), h.Subscribe)
	}
}

// ListActivity handles GET /api/activity
// @Summary      List activity log
// @Tags         activity
// @Security     BearerAuth
// @Produce      json
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        limit      query  int     false  "Items per page (default 10, max 100)"
// @Param        search     query  string  false  "Actor first or last name"
// @Param        action     query  string  false  "Exact action"
// @Param        dateRange  query  string  false  "Last 7 Days, Last 30 Days or All Time"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.ActivityFilter{
		Search:    c.Query("search"),
		Action:    c.Query("action"),
		DateRange: c.Query("dateRange"),
	}

	logs, total, err := h.activityService.ListActivity(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"logs":       logs,
		"total":      total,
		"page":       p.Page,
		"limit":      p.Limit,
		"totalPages": pagination.TotalPages(total, p.Limit),
	}))
}

// ExportActivity handles GET /api/activity/export
// @Summary      Export activity log as CSV
// @Tags         activity
// @Security     BearerAuth
// @Produce      text/csv
// @Success      200  {file}  file
// @Router       /api/activity/export [get]
func (h *ActivityHandler) ExportActivity(c *gin.Context) {
	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.activityService.ExportCSV(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="activity-log.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// Subscribe handles GET /api/activity/ws
// @Summary      Live activity feed
// @Description  WebSocket. Each frame is {"event":"activity.created","data":{...}}. The token may be passed as ?token=.
// @Tags         activity
// @Security     BearerAuth
// @Param        token  query  string  false  "Bearer token"
// @Success      101  {string}  string  "Switching Protocols"
// @Router       /api/activity/ws [get]
func (h *ActivityHandler) Subscribe(c *gin.Context) {
	h.hub.ServeWs(c, middleware.UserID(c))
}
