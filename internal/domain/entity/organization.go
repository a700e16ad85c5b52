package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization represents a garage/workshop in the multitenant system
type Organization struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Settings  OrgSettings    `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner   User                     `gorm:"foreignKey:OwnerID" json:"-"`
	Members []OrganizationMembership `gorm:"foreignKey:OrganizationID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new organization
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Organization model
func (Organization) TableName() string {
	return "organizations"
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// OrganizationMembership represents a user's membership in an organization
type OrganizationMembership struct {
	OrganizationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"organization_id"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role           string    `gorm:"size:50;default:'member'" json:"role"` // owner, admin, member
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`

	// Computed field for JSON response
	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// PopulateUserDetails populates the MemberUser field from the User relationship
func (om *OrganizationMembership) PopulateUserDetails() {
	if om.User.ID != uuid.Nil {
		om.MemberUser = &MemberUser{
			ID:        om.User.ID,
			FirstName: om.User.FirstName,
			LastName:  om.User.LastName,
			Email:     om.User.Email,
		}
	}
}

// TableName returns the table name for the OrganizationMembership model
func (OrganizationMembership) TableName() string {
	return "organization_memberships"
}

// OrgSettings holds all customizable workshop configurations
type OrgSettings struct {
	// Branding & Appearance
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`

	// Localization
	Currency   string `json:"currency,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	Locale     string `json:"locale,omitempty"`
	DateFormat string `json:"date_format,omitempty"`

	// Business Configuration
	// LaborRatePerHour is the shop-wide hourly labor rate in currency units.
	// Pricing reads it fresh on every computation; it is never copied onto
	// jobs, so historical jobs re-price when the rate changes.
	LaborRatePerHour float64 `json:"labor_rate_per_hour,omitempty"`
	JobNumberPrefix  string  `json:"job_number_prefix,omitempty"`

	// Contact details printed on customer-facing documents
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`

	// Notification Settings
	EmailNotifications bool `json:"email_notifications,omitempty"`

	// Feature Flags
	Features OrgFeatures `json:"features,omitempty"`
}

// LaborRateCents returns the hourly labor rate in cents for pricing math.
func (s OrgSettings) LaborRateCents() int64 {
	return int64(math.Round(s.LaborRatePerHour * 100))
}

// Scan implements the sql.Scanner interface for OrgSettings
func (s *OrgSettings) Scan(value interface{}) error {
	if value == nil {
		*s = OrgSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan OrgSettings: unsupported type")
	}

	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface for OrgSettings
func (s OrgSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// OrgFeatures holds feature flags for an organization
type OrgFeatures struct {
	EnableAppointments bool `json:"appointments"`
	EnableNetLedger    bool `json:"net_ledger"`
	EnableReports      bool `json:"reports"`
	EnableAttachments  bool `json:"attachments"`
	EnableMultiUser    bool `json:"multi_user"`
}

// DefaultOrgSettings returns default settings for new organizations
func DefaultOrgSettings() OrgSettings {
	return OrgSettings{
		Currency:           "RON",
		Timezone:           "Europe/Bucharest",
		Locale:             "ro-RO",
		DateFormat:         "DD/MM/YYYY",
		LaborRatePerHour:   200,
		JobNumberPrefix:    "JOB-",
		EmailNotifications: true,
		Features: OrgFeatures{
			EnableAppointments: true,
			EnableNetLedger:    true,
			EnableReports:      true,
			EnableAttachments:  true,
			EnableMultiUser:    true,
		},
	}
}
