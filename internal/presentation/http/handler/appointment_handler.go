package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/application/service"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/internal/presentation/http/dto/response"
)

// AppointmentHandler handles appointment-related HTTP requests
type AppointmentHandler struct {
	appointmentService *service.AppointmentService
	jobService         *service.JobService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointmentService *service.AppointmentService, jobService *service.JobService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService, jobService: jobService}
}

// List handles listing appointments with optional status/customer/vehicle/date filters
func (h *AppointmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	input := &service.ListAppointmentsInput{
		Page:       page,
		PerPage:    perPage,
		CustomerID: queryUUID(c, "customer_id"),
		VehicleID:  queryUUID(c, "vehicle_id"),
		From:       queryDate(c, "from"),
		To:         queryDate(c, "to"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := enum.ParseAppointmentStatus(statusStr)
		if err != nil {
			response.BadRequest(c, "Invalid appointment status")
			return
		}
		input.Status = &status
	}

	result, err := h.appointmentService.ListAppointments(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Appointments retrieved successfully", result)
}

// Calendar handles the calendar view: every appointment overlapping [from, to]
func (h *AppointmentHandler) Calendar(c *gin.Context) {
	from := queryDate(c, "from")
	to := queryDate(c, "to")
	if from == nil || to == nil {
		response.BadRequest(c, "Both from and to dates are required (YYYY-MM-DD)")
		return
	}

	appointments, err := h.appointmentService.Calendar(c.Request.Context(), *from, *to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Calendar retrieved successfully", appointments)
}

// Create handles booking an appointment
func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Title      string     `json:"title" binding:"required"`
		StartsAt   time.Time  `json:"starts_at" binding:"required"`
		EndsAt     time.Time  `json:"ends_at" binding:"required"`
		CustomerID *uuid.UUID `json:"customer_id"`
		VehicleID  *uuid.UUID `json:"vehicle_id"`
		Notes      *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	appointment, err := h.appointmentService.CreateAppointment(c.Request.Context(), &service.CreateAppointmentInput{
		Title:       req.Title,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		CustomerID:  req.CustomerID,
		VehicleID:   req.VehicleID,
		Notes:       req.Notes,
		CreatedByID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Appointment created successfully", appointment)
}

// Get handles getting a single appointment with its customer and vehicle
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentService.GetAppointmentWithRelations(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Appointment retrieved successfully", appointment)
}

// Update handles rescheduling / editing an appointment
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid appointment ID")
		return
	}

	var req struct {
		Title      *string    `json:"title"`
		StartsAt   *time.Time `json:"starts_at"`
		EndsAt     *time.Time `json:"ends_at"`
		CustomerID *uuid.UUID `json:"customer_id"`
		VehicleID  *uuid.UUID `json:"vehicle_id"`
		Notes      *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	appointment, err := h.appointmentService.UpdateAppointment(c.Request.Context(), &service.UpdateAppointmentInput{
		ID:         id,
		Title:      req.Title,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		CustomerID: req.CustomerID,
		VehicleID:  req.VehicleID,
		Notes:      req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Appointment updated successfully", appointment)
}

// UpdateStatus handles moving an appointment through its lifecycle
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid appointment ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, err := enum.ParseAppointmentStatus(req.Status)
	if err != nil {
		response.BadRequest(c, "Invalid appointment status")
		return
	}

	appointment, err := h.appointmentService.UpdateAppointmentStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Appointment status updated successfully", appointment)
}

// SpawnJob handles opening a work order from an appointment
func (h *AppointmentHandler) SpawnJob(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid appointment ID")
		return
	}

	job, err := h.jobService.CreateFromAppointment(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Job created successfully", job)
}

// Delete handles deleting an appointment
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid appointment ID")
		return
	}

	if err := h.appointmentService.DeleteAppointment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Appointment deleted successfully", nil)
}
