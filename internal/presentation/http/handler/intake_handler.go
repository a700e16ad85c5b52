package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/application/service"
	"github.com/mpopescu/atelier-api/internal/presentation/http/dto/response"
)

// IntakeHandler handles the front-desk intake flow: one request that
// registers the customer and vehicle and opens the visit.
type IntakeHandler struct {
	intakeService *service.IntakeService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intakeService *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

// Intake handles a combined customer + vehicle + appointment + job intake.
// The steps run in order and are not atomic: on failure the response
// still carries whatever was created, so the desk can resume instead of
// re-entering everything.
func (h *IntakeHandler) Intake(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		CustomerID *uuid.UUID `json:"customer_id"`
		Customer   *struct {
			Name        string  `json:"name" binding:"required"`
			Email       *string `json:"email"`
			Phone       *string `json:"phone"`
			Address     *string `json:"address"`
			CompanyName *string `json:"company_name"`
			TaxID       *string `json:"tax_id"`
			Notes       *string `json:"notes"`
		} `json:"customer"`
		Vehicle struct {
			Plate      string  `json:"plate" binding:"required"`
			Make       string  `json:"make"`
			Model      string  `json:"model"`
			Year       *int    `json:"year"`
			VIN        *string `json:"vin"`
			EngineCode *string `json:"engine_code"`
			Mileage    *int    `json:"mileage"`
			Notes      *string `json:"notes"`
		} `json:"vehicle" binding:"required"`
		Appointment *struct {
			Title    string    `json:"title"`
			StartsAt time.Time `json:"starts_at" binding:"required"`
			EndsAt   time.Time `json:"ends_at" binding:"required"`
			Notes    *string   `json:"notes"`
		} `json:"appointment"`
		Job *struct {
			Notes *string          `json:"notes"`
			Items []jobItemRequest `json:"items"`
		} `json:"job"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.IntakeInput{
		CustomerID: req.CustomerID,
		Vehicle: service.IntakeVehicleInput{
			Plate:      req.Vehicle.Plate,
			Make:       req.Vehicle.Make,
			Model:      req.Vehicle.Model,
			Year:       req.Vehicle.Year,
			VIN:        req.Vehicle.VIN,
			EngineCode: req.Vehicle.EngineCode,
			Mileage:    req.Vehicle.Mileage,
			Notes:      req.Vehicle.Notes,
		},
		CreatedByID: *userID,
	}

	if req.Customer != nil {
		input.Customer = &service.CreateCustomerInput{
			Name:        req.Customer.Name,
			Email:       req.Customer.Email,
			Phone:       req.Customer.Phone,
			Address:     req.Customer.Address,
			CompanyName: req.Customer.CompanyName,
			TaxID:       req.Customer.TaxID,
			Notes:       req.Customer.Notes,
		}
	}

	if req.Appointment != nil {
		input.Appointment = &service.IntakeAppointmentInput{
			Title:    req.Appointment.Title,
			StartsAt: req.Appointment.StartsAt,
			EndsAt:   req.Appointment.EndsAt,
			Notes:    req.Appointment.Notes,
		}
	}

	if req.Job != nil {
		items := make([]service.JobItemInput, 0, len(req.Job.Items))
		for i := range req.Job.Items {
			items = append(items, req.Job.Items[i].toInput())
		}
		input.Job = &service.IntakeJobInput{
			Notes: req.Job.Notes,
			Items: items,
		}
	}

	result, err := h.intakeService.Intake(c.Request.Context(), input)
	if err != nil {
		response.ErrorWithData(c, err, result)
		return
	}

	response.Created(c, "Intake completed successfully", result)
}
