package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	infraRepo "github.com/mpopescu/atelier-api/internal/infrastructure/repository"
	"github.com/mpopescu/atelier-api/pkg/apperror"
	"github.com/mpopescu/atelier-api/pkg/email"
	"github.com/mpopescu/atelier-api/pkg/pagination"
)

// AppointmentService handles workshop scheduling
type AppointmentService struct {
	appointmentRepo repository.AppointmentRepository
	customerRepo    repository.CustomerRepository
	vehicleRepo     repository.VehicleRepository
	orgRepo         repository.OrganizationRepository
	emailService    *email.EmailService
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	orgRepo repository.OrganizationRepository,
	emailService *email.EmailService,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		customerRepo:    customerRepo,
		vehicleRepo:     vehicleRepo,
		orgRepo:         orgRepo,
		emailService:    emailService,
	}
}

// CreateAppointmentInput represents the create appointment input
type CreateAppointmentInput struct {
	Title       string
	StartsAt    time.Time
	EndsAt      time.Time
	CustomerID  *uuid.UUID
	VehicleID   *uuid.UUID
	Notes       *string
	CreatedByID uuid.UUID
}

// CreateAppointment books a slot. Customer and vehicle are optional so that
// walk-in calls can be penciled in before the client is in the system.
func (s *AppointmentService) CreateAppointment(ctx context.Context, input *CreateAppointmentInput) (*entity.Appointment, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrNoOrganization
	}

	if input.Title == "" {
		return nil, apperror.NewFieldError("title", "Title is required")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, apperror.NewFieldError("ends_at", "End time must be after start time")
	}

	var customer *entity.Customer
	if input.CustomerID != nil {
		var err error
		customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	if input.VehicleID != nil {
		vehicle, err := s.vehicleRepo.GetByID(ctx, *input.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil {
			return nil, apperror.NewNotFoundError("Vehicle")
		}
		if input.CustomerID != nil && vehicle.CustomerID != *input.CustomerID {
			return nil, apperror.NewFieldError("vehicle_id", "Vehicle does not belong to this customer")
		}
	}

	appointment := &entity.Appointment{
		OrganizationID: orgID,
		CustomerID:     input.CustomerID,
		VehicleID:      input.VehicleID,
		Title:          input.Title,
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
		Status:         enum.AppointmentStatusScheduled,
		Notes:          input.Notes,
		CreatedByID:    input.CreatedByID,
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, orgID, customer, appointment)

	return appointment, nil
}

// sendConfirmation emails the customer when the workshop has notifications
// enabled. An SMTP hiccup must never fail the booking, so errors are dropped.
func (s *AppointmentService) sendConfirmation(ctx context.Context, orgID uuid.UUID, customer *entity.Customer, appointment *entity.Appointment) {
	if customer == nil || customer.Email == nil || *customer.Email == "" {
		return
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil || org == nil || !org.Settings.EmailNotifications {
		return
	}

	_ = s.emailService.SendAppointmentConfirmation(*customer.Email, customer.Name, org.Name, appointment.StartsAt)
}

// GetAppointment retrieves an appointment by ID
func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}
	return appointment, nil
}

// GetAppointmentWithRelations retrieves an appointment with its customer,
// vehicle and spawned job preloaded
func (s *AppointmentService) GetAppointmentWithRelations(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}
	return appointment, nil
}

// ListAppointmentsInput represents the filters for listing appointments
type ListAppointmentsInput struct {
	Page       int
	PerPage    int
	Status     *enum.AppointmentStatus
	CustomerID *uuid.UUID
	VehicleID  *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// ListAppointments lists appointments ordered by start time
func (s *AppointmentService) ListAppointments(ctx context.Context, input *ListAppointmentsInput) (*pagination.PaginatedResult[entity.Appointment], error) {
	params := &pagination.PaginationParams{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	params.Validate()

	filter := &repository.AppointmentFilterParams{
		Pagination: params,
		Status:     input.Status,
		CustomerID: input.CustomerID,
		VehicleID:  input.VehicleID,
		From:       input.From,
		To:         input.To,
	}

	appointments, total, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(appointments, pag), nil
}

// Calendar returns every appointment overlapping [from, to), including ones
// that started before the window
func (s *AppointmentService) Calendar(ctx context.Context, from, to time.Time) ([]entity.Appointment, error) {
	if !to.After(from) {
		return nil, apperror.NewFieldError("to", "End of range must be after start")
	}
	return s.appointmentRepo.ListRange(ctx, from, to)
}

// UpdateAppointmentInput represents the update appointment input
type UpdateAppointmentInput struct {
	ID         uuid.UUID
	Title      *string
	StartsAt   *time.Time
	EndsAt     *time.Time
	CustomerID *uuid.UUID
	VehicleID  *uuid.UUID
	Notes      *string
}

// UpdateAppointment updates an appointment's schedule and details
func (s *AppointmentService) UpdateAppointment(ctx context.Context, input *UpdateAppointmentInput) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperror.NewFieldError("title", "Title is required")
		}
		appointment.Title = *input.Title
	}
	if input.StartsAt != nil {
		appointment.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		appointment.EndsAt = *input.EndsAt
	}
	if !appointment.EndsAt.After(appointment.StartsAt) {
		return nil, apperror.NewFieldError("ends_at", "End time must be after start time")
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		appointment.CustomerID = input.CustomerID
	}
	if input.VehicleID != nil {
		vehicle, err := s.vehicleRepo.GetByID(ctx, *input.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil {
			return nil, apperror.NewNotFoundError("Vehicle")
		}
		if appointment.CustomerID != nil && vehicle.CustomerID != *appointment.CustomerID {
			return nil, apperror.NewFieldError("vehicle_id", "Vehicle does not belong to this customer")
		}
		appointment.VehicleID = input.VehicleID
	}
	if input.Notes != nil {
		appointment.Notes = input.Notes
	}

	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	return appointment, nil
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
// Transitions are unrestricted: the front desk corrects mistakes by moving
// statuses backwards, so there is no transition table to fight.
func (s *AppointmentService) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status enum.AppointmentStatus) (*entity.Appointment, error) {
	if !status.Valid() {
		return nil, apperror.NewFieldError("status", "Unknown appointment status")
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}

	if appointment.Status != status {
		if err := s.appointmentRepo.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}
		appointment.Status = status
	}

	return appointment, nil
}

// DeleteAppointment soft-deletes an appointment
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appointment == nil {
		return apperror.NewNotFoundError("Appointment")
	}

	return s.appointmentRepo.Delete(ctx, id)
}
