package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"gorm.io/gorm"
)

// JobNetItem is an internal-only profit line, decoupled from the
// customer-facing deviz. Part lines derive NetTotal from sale price minus
// purchase cost; labor and other lines carry a staff-entered NetTotal.
//
// Lines imported from job items carry SourceJobItemID; the unique index on
// (job_id, source_job_item_id) makes re-imports no-ops instead of duplicates.
type JobNetItem struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
	JobID            uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:ux_job_net_items_source" json:"job_id"`
	ItemType         enum.JobItemType `gorm:"default:0" json:"item_type"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	TitleKey         string           `gorm:"size:255;not null;index" json:"-"`
	Quantity         float64          `gorm:"not null;default:1" json:"quantity"`
	SaleUnitPrice    int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PurchaseUnitCost *int64           `json:"-"`                  // Stored in cents, excluded from JSON
	NormMinutes      *float64         `json:"norm_minutes,omitempty"`
	NetTotal         int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	SourceJobItemID  *uuid.UUID       `gorm:"type:uuid;uniqueIndex:ux_job_net_items_source" json:"source_job_item_id,omitempty"`
	Position         int              `gorm:"default:0" json:"position"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Job          Job          `gorm:"foreignKey:JobID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ni JobNetItem) MarshalJSON() ([]byte, error) {
	type Alias JobNetItem
	var cost *float64
	if ni.PurchaseUnitCost != nil {
		v := float64(*ni.PurchaseUnitCost) / 100
		cost = &v
	}
	return json.Marshal(&struct {
		Alias
		SaleUnitPrice    float64  `json:"sale_unit_price"`
		PurchaseUnitCost *float64 `json:"purchase_unit_cost,omitempty"`
		NetTotal         float64  `json:"net_total"`
	}{
		Alias:            Alias(ni),
		SaleUnitPrice:    float64(ni.SaleUnitPrice) / 100,
		PurchaseUnitCost: cost,
		NetTotal:         float64(ni.NetTotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new net item
func (ni *JobNetItem) BeforeCreate(tx *gorm.DB) error {
	if ni.ID == uuid.Nil {
		ni.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the JobNetItem model
func (JobNetItem) TableName() string {
	return "job_net_items"
}
