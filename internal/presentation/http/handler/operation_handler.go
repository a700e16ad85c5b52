package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/application/service"
	"github.com/mpopescu/atelier-api/internal/presentation/http/dto/response"
)

// OperationHandler handles operation catalog HTTP requests
type OperationHandler struct {
	operationService *service.OperationService
}

// NewOperationHandler creates a new operation handler
func NewOperationHandler(operationService *service.OperationService) *OperationHandler {
	return &OperationHandler{operationService: operationService}
}

// List handles listing catalog operations
func (h *OperationHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	input := &service.ListOperationsInput{
		Page:       page,
		PerPage:    perPage,
		Search:     c.Query("search"),
		ActiveOnly: c.DefaultQuery("active_only", "true") != "false",
	}
	if category := c.Query("category"); category != "" {
		input.Category = &category
	}

	result, err := h.operationService.ListOperations(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Operations retrieved successfully", result)
}

// Categories handles listing the distinct catalog categories
func (h *OperationHandler) Categories(c *gin.Context) {
	categories, err := h.operationService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// Create handles adding an operation to the catalog
func (h *OperationHandler) Create(c *gin.Context) {
	var req struct {
		Code        *string `json:"code"`
		Name        string  `json:"name" binding:"required"`
		Category    *string `json:"category"`
		NormMinutes float64 `json:"norm_minutes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	operation, err := h.operationService.CreateOperation(c.Request.Context(), &service.CreateOperationInput{
		Code:        req.Code,
		Name:        req.Name,
		Category:    req.Category,
		NormMinutes: sanitizeFloat(req.NormMinutes),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Operation created successfully", operation)
}

// Get handles getting a single operation
func (h *OperationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid operation ID")
		return
	}

	operation, err := h.operationService.GetOperation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Operation retrieved successfully", operation)
}

// Update handles editing a catalog operation
func (h *OperationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid operation ID")
		return
	}

	var req struct {
		Code        *string  `json:"code"`
		Name        *string  `json:"name"`
		Category    *string  `json:"category"`
		NormMinutes *float64 `json:"norm_minutes"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	operation, err := h.operationService.UpdateOperation(c.Request.Context(), &service.UpdateOperationInput{
		ID:          id,
		Code:        req.Code,
		Name:        req.Name,
		Category:    req.Category,
		NormMinutes: sanitizeFloatPtr(req.NormMinutes),
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Operation updated successfully", operation)
}

// Deactivate handles retiring an operation from the catalog without
// touching the jobs that already reference it.
func (h *OperationHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid operation ID")
		return
	}

	inactive := false
	operation, err := h.operationService.UpdateOperation(c.Request.Context(), &service.UpdateOperationInput{
		ID:       id,
		IsActive: &inactive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Operation deactivated successfully", operation)
}

// Delete handles removing an operation that no job item references
func (h *OperationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid operation ID")
		return
	}

	if err := h.operationService.DeleteOperation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Operation deleted successfully", nil)
}
