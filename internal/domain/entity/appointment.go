package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Appointment represents a scheduled workshop visit. Appointments live
// independently of jobs; a job may later be spawned from one.
type Appointment struct {
	ID             uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID              `gorm:"type:uuid;not null;index" json:"organization_id"`
	CustomerID     *uuid.UUID             `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	VehicleID      *uuid.UUID             `gorm:"type:uuid;index" json:"vehicle_id,omitempty"`
	Title          string                 `gorm:"size:255;not null" json:"title"`
	StartsAt       time.Time              `gorm:"not null;index" json:"starts_at"`
	EndsAt         time.Time              `gorm:"not null" json:"ends_at"`
	Status         enum.AppointmentStatus `gorm:"default:0" json:"status"`
	Notes          *string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedByID    uuid.UUID              `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	DeletedAt      gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Customer     *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vehicle      *Vehicle     `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	CreatedBy    User         `gorm:"foreignKey:CreatedByID" json:"-"`
	Job          *Job         `gorm:"foreignKey:AppointmentID" json:"job,omitempty"`
}

// BeforeCreate generates a UUID before creating a new appointment
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}
