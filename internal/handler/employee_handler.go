package handler

import (
	"net/http"

	"smartpass/internal/middleware"
	"smartpass/internal/model"
	"smartpass/internal/service"
	"smartpass/pkg/pagination"
	"smartpass/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
	guard           middleware.Guard
}

func NewEmployeeHandler(employeeService service.EmployeeService, guard middleware.Guard) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, guard: guard}
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/employees/public/:slug", h.GetPublicEmployee)

	group := router.Group("/api/employees", h.guard.Auth())
	{
		group.GET("", h.guard.Can(model.CapViewEmployees), h.ListEmployees)
		group.GET("/:id", h.guard.Can(model.CapViewEmployees), h.GetEmployee)
		group.POST("", h.guard.Can(model.CapAddEmployees), h.CreateEmployee)
		group.PUT("/:id", h.guard.Can(model.CapEditEmployees), h.UpdateEmployee)
		group.PATCH("/:id/status", h.guard.Can(model.CapDeactivateEmployees), h.SetEmployeeStatus)
		group.DELETE("/:id", h.guard.Can(model.CapDeactivateEmployees), h.DeleteEmployee)
		group.POST("/:id/qrcode", h.guard.Can(model.CapGenerateQRCodes), h.GenerateQRCode)
		group.DELETE("/:id/qrcode", h.guard.Can(model.CapRevokeQRCodes), h.RevokeQRCode)
	}
}

// ListEmployees handles GET /api/employees
// @Summary      List employees
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        limit      query  int     false  "Items per page (default 10, max 100)"
// @Param        search     query  string  false  "Matches name, email, cargo, department, company, employeeId"
// @Param        company    query  string  false  "Exact company"
// @Param        status     query  string  false  "Active or Inactive"
// @Param        dateRange  query  string  false  "Last 7 Days, Last 30 Days or All Time"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.EmployeeFilter{
		Company:   c.Query("company"),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		DateRange: c.Query("dateRange"),
	}

	employees, total, err := h.employeeService.ListEmployees(c.Request.Context(), middleware.UserID(c), filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"employees":  employees,
		"total":      total,
		"page":       p.Page,
		"limit":      p.Limit,
		"totalPages": pagination.TotalPages(total, p.Limit),
	}))
}

// GetEmployee handles GET /api/employees/:id
// @Summary      Get employee
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// CreateEmployee handles POST /api/employees
// @Summary      Create employee
// @Description  Assigns the employeeId and, when the caller may generate QR codes, the QR payload
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateEmployeeRequest  true  "Employee"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// UpdateEmployee handles PUT /api/employees/:id
// @Summary      Update employee
// @Description  Partial update. Changing status also requires deactivateEmployees.
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Employee ID"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// SetEmployeeStatus handles PATCH /api/employees/:id/status
// @Summary      Activate or deactivate employee
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Employee ID"
// @Param        payload  body      setStatusRequest  true  "Active or Inactive"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/employees/{id}/status [patch]
func (h *EmployeeHandler) SetEmployeeStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	employee, err := h.employeeService.SetEmployeeStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// DeleteEmployee handles DELETE /api/employees/:id
// @Summary      Delete employee
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Employee deleted successfully"}))
}

// GenerateQRCode handles POST /api/employees/:id/qrcode
// @Summary      Generate QR code
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id}/qrcode [post]
func (h *EmployeeHandler) GenerateQRCode(c *gin.Context) {
	employee, err := h.employeeService.GenerateQRCode(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// RevokeQRCode handles DELETE /api/employees/:id/qrcode
// @Summary      Revoke QR code
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id}/qrcode [delete]
func (h *EmployeeHandler) RevokeQRCode(c *gin.Context) {
	employee, err := h.employeeService.RevokeQRCode(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// GetPublicEmployee handles GET /api/employees/public/:slug without authentication
// @Summary      Public employee card
// @Description  Resolves the slug as an object id first, then as an employeeId
// @Tags         employees
// @Produce      json
// @Param        slug  path      string  true  "Object id or employeeId"
// @Success      200   {object}  response.Response{data=model.PublicEmployee}
// @Failure      404   {object}  response.Response
// @Router       /api/employees/public/{slug} [get]
func (h *EmployeeHandler) GetPublicEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetPublicEmployee(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}
