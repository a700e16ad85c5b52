package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/pkg/apperror"
)

// IntakeService runs the front-desk walk-in flow: customer, vehicle,
// optionally an appointment and a job, created as independent sequential
// steps. There is no transaction around them. When a step fails, everything
// created before it stays, and the partial result is handed back with the
// error so the client can show exactly what exists.
type IntakeService struct {
	customers    *CustomerService
	vehicles     *VehicleService
	appointments *AppointmentService
	jobs         *JobService
}

// NewIntakeService creates a new intake service
func NewIntakeService(
	customers *CustomerService,
	vehicles *VehicleService,
	appointments *AppointmentService,
	jobs *JobService,
) *IntakeService {
	return &IntakeService{
		customers:    customers,
		vehicles:     vehicles,
		appointments: appointments,
		jobs:         jobs,
	}
}

// IntakeVehicleInput describes the car at the desk. The plate drives a
// find-or-create: a known plate reuses the existing vehicle.
type IntakeVehicleInput struct {
	Plate      string
	Make       string
	Model      string
	Year       *int
	VIN        *string
	EngineCode *string
	Mileage    *int
	Notes      *string
}

// IntakeAppointmentInput books a slot as part of the intake
type IntakeAppointmentInput struct {
	Title    string
	StartsAt time.Time
	EndsAt   time.Time
	Notes    *string
}

// IntakeJobInput opens a work order as part of the intake
type IntakeJobInput struct {
	Notes *string
	Items []JobItemInput
}

// IntakeInput drives the whole flow. Either CustomerID (returning client)
// or Customer (new client) must be set. Appointment and Job are optional
// steps appended to the sequence.
type IntakeInput struct {
	CustomerID  *uuid.UUID
	Customer    *CreateCustomerInput
	Vehicle     IntakeVehicleInput
	Appointment *IntakeAppointmentInput
	Job         *IntakeJobInput
	CreatedByID uuid.UUID
}

// IntakeResult reports what the flow managed to create. On failure it is
// still populated up to the step that broke.
type IntakeResult struct {
	Customer    *entity.Customer    `json:"customer"`
	Vehicle     *entity.Vehicle     `json:"vehicle"`
	Appointment *entity.Appointment `json:"appointment,omitempty"`
	Job         *JobDetail          `json:"job,omitempty"`
}

// Intake executes the steps in order: customer, vehicle, appointment, job.
// The returned result is non-nil even when err != nil; callers must surface
// the partial state instead of discarding it.
func (s *IntakeService) Intake(ctx context.Context, input *IntakeInput) (*IntakeResult, error) {
	result := &IntakeResult{}

	// Step 1: customer
	customer, err := s.resolveCustomer(ctx, input)
	if err != nil {
		return result, err
	}
	result.Customer = customer

	// Step 2: vehicle, keyed by normalized plate
	vehicle, err := s.resolveVehicle(ctx, customer, &input.Vehicle)
	if err != nil {
		return result, err
	}
	result.Vehicle = vehicle

	// Step 3: appointment (optional)
	if input.Appointment != nil {
		appointment, err := s.createAppointment(ctx, customer, vehicle, input.Appointment, input.CreatedByID)
		if err != nil {
			return result, err
		}
		result.Appointment = appointment
	}

	// Step 4: job (optional)
	if input.Job != nil {
		jobInput := &CreateJobInput{
			CustomerID:  &customer.ID,
			VehicleID:   &vehicle.ID,
			Notes:       input.Job.Notes,
			CreatedByID: input.CreatedByID,
			Items:       input.Job.Items,
		}
		if result.Appointment != nil {
			jobInput.AppointmentID = &result.Appointment.ID
		}

		job, err := s.jobs.CreateJob(ctx, jobInput)
		if err != nil {
			return result, err
		}
		result.Job = job

		// The car is in the shop, so the appointment booked a moment ago
		// flips to arrived. Best effort, same stance as spawning a job
		// from an existing appointment.
		if result.Appointment != nil {
			if updated, err := s.appointments.UpdateAppointmentStatus(ctx, result.Appointment.ID, enum.AppointmentStatusArrived); err == nil {
				result.Appointment = updated
			}
		}
	}

	return result, nil
}

func (s *IntakeService) resolveCustomer(ctx context.Context, input *IntakeInput) (*entity.Customer, error) {
	if input.CustomerID != nil {
		return s.customers.GetCustomer(ctx, *input.CustomerID)
	}
	if input.Customer == nil {
		return nil, apperror.NewFieldError("customer", "Customer details or an existing customer ID are required")
	}
	return s.customers.CreateCustomer(ctx, input.Customer)
}

// resolveVehicle looks the plate up first. A plate already registered to
// this customer is reused; one registered to someone else is a conflict the
// desk has to sort out by hand.
func (s *IntakeService) resolveVehicle(ctx context.Context, customer *entity.Customer, input *IntakeVehicleInput) (*entity.Vehicle, error) {
	existing, err := s.vehicles.GetVehicleByPlate(ctx, input.Plate)
	if err == nil {
		if existing.CustomerID != customer.ID {
			return nil, apperror.NewConflictError("Vehicle with this plate is registered to another customer")
		}
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	return s.vehicles.CreateVehicle(ctx, &CreateVehicleInput{
		CustomerID: customer.ID,
		Plate:      input.Plate,
		Make:       input.Make,
		Model:      input.Model,
		Year:       input.Year,
		VIN:        input.VIN,
		EngineCode: input.EngineCode,
		Mileage:    input.Mileage,
		Notes:      input.Notes,
	})
}

func (s *IntakeService) createAppointment(ctx context.Context, customer *entity.Customer, vehicle *entity.Vehicle, input *IntakeAppointmentInput, createdByID uuid.UUID) (*entity.Appointment, error) {
	title := input.Title
	if title == "" {
		title = customer.Name
	}

	return s.appointments.CreateAppointment(ctx, &CreateAppointmentInput{
		Title:       title,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		CustomerID:  &customer.ID,
		VehicleID:   &vehicle.ID,
		Notes:       input.Notes,
		CreatedByID: createdByID,
	})
}

func isNotFound(err error) bool {
	return apperror.IsAppError(err) && apperror.GetAppError(err).Code == http.StatusNotFound
}
