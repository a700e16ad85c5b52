package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Job represents a work order (the customer-facing deviz). Totals are never
// stored on the row; they are recomputed from the items and the current
// labor rate every time the job is read.
type Job struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Number         string           `gorm:"size:100;unique;not null" json:"number"`
	CustomerID     *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	VehicleID      *uuid.UUID       `gorm:"type:uuid;index" json:"vehicle_id,omitempty"`
	AppointmentID  *uuid.UUID       `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Progress       enum.JobProgress `gorm:"default:0;index" json:"progress"`
	DiscountValue  int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	AdvancePaid    int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	IsPaid         bool             `gorm:"default:false" json:"is_paid"`
	Notes          *string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedByID    uuid.UUID        `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt      time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Customer     *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vehicle      *Vehicle     `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Appointment  *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	CreatedBy    User         `gorm:"foreignKey:CreatedByID" json:"-"`
	Items        []JobItem    `gorm:"foreignKey:JobID" json:"items,omitempty"`
	NetItems     []JobNetItem `gorm:"foreignKey:JobID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (j Job) MarshalJSON() ([]byte, error) {
	type Alias Job
	return json.Marshal(&struct {
		Alias
		DiscountValue float64 `json:"discount_value"`
		AdvancePaid   float64 `json:"advance_paid"`
	}{
		Alias:         Alias(j),
		DiscountValue: float64(j.DiscountValue) / 100,
		AdvancePaid:   float64(j.AdvancePaid) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new job
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Job model
func (Job) TableName() string {
	return "jobs"
}

// JobItem represents one billable line on a job's deviz.
//
// For labor lines the effective subtotal is LaborTotalOverride when set,
// otherwise rate * NormMinutes * Quantity / 60 with the shop rate supplied
// at computation time. Part and other lines price as Quantity * UnitPrice.
type JobItem struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	JobID              uuid.UUID        `gorm:"type:uuid;not null;index" json:"job_id"`
	ItemType           enum.JobItemType `gorm:"default:0" json:"item_type"`
	Title              string           `gorm:"size:255;not null" json:"title"`
	Quantity           float64          `gorm:"not null;default:1" json:"quantity"`
	UnitPrice          int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	OperationID        *uuid.UUID       `gorm:"type:uuid;index" json:"operation_id,omitempty"`
	NormMinutes        *float64         `json:"norm_minutes,omitempty"`
	LaborTotalOverride *int64           `json:"-"` // Stored in cents, excluded from JSON
	Position           int              `gorm:"default:0" json:"position"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	DeletedAt          gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Job       Job        `gorm:"foreignKey:JobID" json:"-"`
	Operation *Operation `gorm:"foreignKey:OperationID" json:"operation,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ji JobItem) MarshalJSON() ([]byte, error) {
	type Alias JobItem
	var override *float64
	if ji.LaborTotalOverride != nil {
		v := float64(*ji.LaborTotalOverride) / 100
		override = &v
	}
	return json.Marshal(&struct {
		Alias
		UnitPrice          float64  `json:"unit_price"`
		LaborTotalOverride *float64 `json:"labor_total_override,omitempty"`
	}{
		Alias:              Alias(ji),
		UnitPrice:          float64(ji.UnitPrice) / 100,
		LaborTotalOverride: override,
	})
}

// BeforeCreate generates a UUID before creating a new job item
func (ji *JobItem) BeforeCreate(tx *gorm.DB) error {
	if ji.ID == uuid.Nil {
		ji.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the JobItem model
func (JobItem) TableName() string {
	return "job_items"
}
