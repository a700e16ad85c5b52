package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/application/service"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/internal/presentation/http/dto/response"
	"github.com/mpopescu/atelier-api/pkg/pagination"
)

// jobItemRequest is the wire shape of a deviz line, shared by job
// creation, item addition and vehicle intake.
type jobItemRequest struct {
	ItemType           enum.JobItemType `json:"item_type" binding:"required"`
	Title              string           `json:"title" binding:"required"`
	Quantity           float64          `json:"quantity"`
	UnitPrice          float64          `json:"unit_price"`
	OperationID        *uuid.UUID       `json:"operation_id"`
	NormMinutes        *float64         `json:"norm_minutes"`
	LaborTotalOverride *float64         `json:"labor_total_override"`
}

func (r *jobItemRequest) toInput() service.JobItemInput {
	return service.JobItemInput{
		ItemType:           r.ItemType,
		Title:              r.Title,
		Quantity:           sanitizeFloat(r.Quantity),
		UnitPrice:          sanitizeFloat(r.UnitPrice),
		OperationID:        r.OperationID,
		NormMinutes:        sanitizeFloatPtr(r.NormMinutes),
		LaborTotalOverride: sanitizeFloatPtr(r.LaborTotalOverride),
	}
}

// JobHandler handles work order HTTP requests
type JobHandler struct {
	jobService *service.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// List handles listing jobs (supports both page-based and cursor-based pagination)
func (h *JobHandler) List(c *gin.Context) {
	search := c.Query("search")

	var progress *enum.JobProgress
	if progressStr := c.Query("progress"); progressStr != "" {
		parsed, err := enum.ParseJobProgress(progressStr)
		if err != nil {
			response.BadRequest(c, "Invalid job progress")
			return
		}
		progress = &parsed
	}

	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, search, progress)
		return
	}

	// Default to page-based pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	input := &service.ListJobsInput{
		Page:       page,
		PerPage:    perPage,
		Search:     search,
		Progress:   progress,
		CustomerID: queryUUID(c, "customer_id"),
		VehicleID:  queryUUID(c, "vehicle_id"),
		StartDate:  queryDate(c, "start_date"),
		EndDate:    queryDate(c, "end_date"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if paidStr := c.Query("is_paid"); paidStr != "" {
		isPaid := paidStr == "true"
		input.IsPaid = &isPaid
	}

	result, err := h.jobService.ListJobs(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Jobs retrieved successfully", result)
}

// listWithCursor handles listing jobs with cursor-based pagination
func (h *JobHandler) listWithCursor(c *gin.Context, search string, progress *enum.JobProgress) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	result, err := h.jobService.ListJobsWithCursor(c.Request.Context(), &service.ListJobsWithCursorInput{
		Cursor:     cursor,
		Direction:  pagination.CursorDirection(direction),
		Limit:      limit,
		Search:     search,
		Progress:   progress,
		CustomerID: queryUUID(c, "customer_id"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Jobs retrieved successfully", result)
}

// Create handles opening a work order, optionally with initial deviz lines
func (h *JobHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		CustomerID    *uuid.UUID       `json:"customer_id"`
		VehicleID     *uuid.UUID       `json:"vehicle_id"`
		AppointmentID *uuid.UUID       `json:"appointment_id"`
		Notes         *string          `json:"notes"`
		Items         []jobItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.JobItemInput, 0, len(req.Items))
	for i := range req.Items {
		items = append(items, req.Items[i].toInput())
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), &service.CreateJobInput{
		CustomerID:    req.CustomerID,
		VehicleID:     req.VehicleID,
		AppointmentID: req.AppointmentID,
		Notes:         req.Notes,
		CreatedByID:   *userID,
		Items:         items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Job created successfully", job)
}

// Get handles getting a job with its priced deviz
func (h *JobHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job retrieved successfully", job)
}

// Update handles editing a job's header fields
func (h *JobHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		CustomerID    *uuid.UUID `json:"customer_id"`
		VehicleID     *uuid.UUID `json:"vehicle_id"`
		Notes         *string    `json:"notes"`
		DiscountValue *float64   `json:"discount_value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), &service.UpdateJobInput{
		ID:            id,
		CustomerID:    req.CustomerID,
		VehicleID:     req.VehicleID,
		Notes:         req.Notes,
		DiscountValue: sanitizeFloatPtr(req.DiscountValue),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job updated successfully", job)
}

// UpdateProgress handles moving a job through its workflow
func (h *JobHandler) UpdateProgress(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		Progress string  `json:"progress" binding:"required"`
		Note     *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	progress, err := enum.ParseJobProgress(req.Progress)
	if err != nil {
		response.BadRequest(c, "Invalid job progress")
		return
	}

	job, err := h.jobService.UpdateProgress(c.Request.Context(), &service.UpdateProgressInput{
		JobID:       id,
		Progress:    progress,
		Note:        req.Note,
		ChangedByID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job progress updated successfully", job)
}

// History handles listing a job's progress trail
func (h *JobHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	events, err := h.jobService.GetProgressHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Progress history retrieved successfully", events)
}

// Pay handles marking a job paid or unpaid
func (h *JobHandler) Pay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		IsPaid *bool `json:"is_paid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobService.MarkPaid(c.Request.Context(), id, *req.IsPaid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job payment status updated successfully", job)
}

// Advance handles recording an advance payment against a job
func (h *JobHandler) Advance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobService.RecordAdvance(c.Request.Context(), id, sanitizeFloat(req.Amount))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Advance recorded successfully", job)
}

// Delete handles deleting a job and its lines
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job deleted successfully", nil)
}

// AddItem handles appending a deviz line to a job
func (h *JobHandler) AddItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req jobItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.jobService.AddJobItem(c.Request.Context(), &service.AddJobItemInput{
		JobID: id,
		Item:  req.toInput(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item added successfully", item)
}

// UpdateItem handles editing a deviz line
func (h *JobHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req struct {
		Title              *string    `json:"title"`
		Quantity           *float64   `json:"quantity"`
		UnitPrice          *float64   `json:"unit_price"`
		OperationID        *uuid.UUID `json:"operation_id"`
		NormMinutes        *float64   `json:"norm_minutes"`
		LaborTotalOverride *float64   `json:"labor_total_override"`
		ClearLaborOverride bool       `json:"clear_labor_override"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.jobService.UpdateJobItem(c.Request.Context(), &service.UpdateJobItemInput{
		JobID:              id,
		ItemID:             itemID,
		Title:              req.Title,
		Quantity:           sanitizeFloatPtr(req.Quantity),
		UnitPrice:          sanitizeFloatPtr(req.UnitPrice),
		OperationID:        req.OperationID,
		NormMinutes:        sanitizeFloatPtr(req.NormMinutes),
		LaborTotalOverride: sanitizeFloatPtr(req.LaborTotalOverride),
		ClearLaborOverride: req.ClearLaborOverride,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}

// RemoveItem handles deleting a deviz line
func (h *JobHandler) RemoveItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.jobService.RemoveJobItem(c.Request.Context(), id, itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed successfully", nil)
}

// ReorderItems handles re-sequencing a job's deviz lines; the body must
// list every line exactly once.
func (h *JobHandler) ReorderItems(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		ItemIDs []uuid.UUID `json:"item_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items, err := h.jobService.ReorderJobItems(c.Request.Context(), id, req.ItemIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Items reordered successfully", items)
}
