package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"gorm.io/gorm"
)

// JobProgressEvent is one append-only history row recording a job progress
// change and who made it. Rows are never updated or deleted.
type JobProgressEvent struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
	JobID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"job_id"`
	FromProgress   enum.JobProgress `gorm:"not null" json:"from_progress"`
	ToProgress     enum.JobProgress `gorm:"not null" json:"to_progress"`
	ChangedByID    uuid.UUID        `gorm:"type:uuid;not null" json:"changed_by_id"`
	Note           *string          `gorm:"type:text" json:"note,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`

	// Relationships
	Job       Job  `gorm:"foreignKey:JobID" json:"-"`
	ChangedBy User `gorm:"foreignKey:ChangedByID" json:"-"`

	// Computed field for JSON response
	ChangedByUser *MemberUser `gorm:"-" json:"changed_by,omitempty"`
}

// PopulateUserDetails populates the ChangedByUser field from the relationship
func (e *JobProgressEvent) PopulateUserDetails() {
	if e.ChangedBy.ID != uuid.Nil {
		e.ChangedByUser = &MemberUser{
			ID:        e.ChangedBy.ID,
			FirstName: e.ChangedBy.FirstName,
			LastName:  e.ChangedBy.LastName,
			Email:     e.ChangedBy.Email,
		}
	}
}

// BeforeCreate generates a UUID before creating a new progress event
func (e *JobProgressEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the JobProgressEvent model
func (JobProgressEvent) TableName() string {
	return "job_progress_events"
}
