package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment represents metadata for a file stored against a job (photos,
// scans, documents). The binary itself lives in object storage under
// StoragePath; reads go through short-lived signed URLs.
type Attachment struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	JobID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"job_id"`
	FileName       string         `gorm:"size:255;not null" json:"file_name"`
	StoragePath    string         `gorm:"size:512;not null" json:"-"`
	ContentType    string         `gorm:"size:100" json:"content_type"`
	SizeBytes      int64          `gorm:"default:0" json:"size_bytes"`
	UploadedByID   uuid.UUID      `gorm:"type:uuid;not null" json:"uploaded_by_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Job          Job          `gorm:"foreignKey:JobID" json:"-"`
	UploadedBy   User         `gorm:"foreignKey:UploadedByID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new attachment
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Attachment model
func (Attachment) TableName() string {
	return "attachments"
}
