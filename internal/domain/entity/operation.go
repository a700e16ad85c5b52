package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Operation represents a catalog entry of normed labor: a standardized task
// with a reference duration in minutes. Labor job items reference operations
// to inherit their norm minutes; pricing multiplies the norm by the shop's
// hourly rate at read time.
type Operation struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	Code           *string        `gorm:"size:100" json:"code,omitempty"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Category       *string        `gorm:"size:100" json:"category,omitempty"`
	NormMinutes    float64        `gorm:"not null;default:0" json:"norm_minutes"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	JobItems     []JobItem    `gorm:"foreignKey:OperationID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new operation
func (o *Operation) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Operation model
func (Operation) TableName() string {
	return "operations"
}
