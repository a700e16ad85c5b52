package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle represents a customer's car serviced by the workshop
type Vehicle struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	CustomerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Plate          string         `gorm:"size:20;not null" json:"plate"`
	PlateKey       string         `gorm:"size:20;not null;index" json:"-"` // normalized plate for lookups
	Make           string         `gorm:"size:100" json:"make"`
	Model          string         `gorm:"size:100" json:"model"`
	Year           *int           `json:"year,omitempty"`
	VIN            *string        `gorm:"size:17;column:vin" json:"vin,omitempty"`
	EngineCode     *string        `gorm:"size:50" json:"engine_code,omitempty"`
	Mileage        *int           `json:"mileage,omitempty"`
	Notes          *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Customer     *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Jobs         []Job        `gorm:"foreignKey:VehicleID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new vehicle
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}
