package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/pkg/pagination"
)

// OrganizationRepository defines the interface for organization data operations
type OrganizationRepository interface {
	// Create creates a new organization
	Create(ctx context.Context, org *entity.Organization) error

	// GetByID retrieves an organization by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error)

	// GetBySlug retrieves an organization by slug
	GetBySlug(ctx context.Context, slug string) (*entity.Organization, error)

	// Update updates an existing organization
	Update(ctx context.Context, org *entity.Organization) error

	// Delete soft-deletes an organization
	Delete(ctx context.Context, id uuid.UUID) error

	// GetUserOrganizations retrieves all organizations a user belongs to with pagination
	GetUserOrganizations(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Organization, int64, error)

	// AddMember adds a user as a member of an organization
	AddMember(ctx context.Context, membership *entity.OrganizationMembership) error

	// RemoveMember removes a user from an organization
	RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error

	// GetMembers retrieves all members of an organization
	GetMembers(ctx context.Context, orgID uuid.UUID) ([]entity.OrganizationMembership, error)

	// IsMember checks if a user is a member of an organization
	IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error)

	// GetMembership retrieves a specific membership
	GetMembership(ctx context.Context, orgID, userID uuid.UUID) (*entity.OrganizationMembership, error)

	// UpdateMemberRole updates a member's role in an organization
	UpdateMemberRole(ctx context.Context, orgID, userID uuid.UUID, role string) error

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Count returns the total number of organizations
	Count(ctx context.Context) (int64, error)
}
