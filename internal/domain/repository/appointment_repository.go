package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/pkg/pagination"
)

// AppointmentFilterParams contains filtering parameters for appointment queries
type AppointmentFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.AppointmentStatus
	CustomerID *uuid.UUID
	VehicleID  *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	// GetWithRelations retrieves an appointment with customer, vehicle and job preloaded
	GetWithRelations(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *AppointmentFilterParams) ([]entity.Appointment, int64, error)
	// ListRange returns all appointments overlapping [from, to), for calendar views
	ListRange(ctx context.Context, from, to time.Time) ([]entity.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.AppointmentStatus) error
}
