package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	"github.com/mpopescu/atelier-api/pkg/apperror"
	"github.com/mpopescu/atelier-api/pkg/pagination"
	"github.com/mpopescu/atelier-api/pkg/utils"
)

// Membership roles within an organization. These are separate from the
// global RBAC roles: they describe who administers the workshop itself.
const (
	MemberRoleOwner  = "owner"
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

// OrganizationService handles workshop organizations and their memberships
type OrganizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

// CreateOrganizationInput represents the input for creating an organization
type CreateOrganizationInput struct {
	Name    string
	Slug    string
	OwnerID uuid.UUID
}

// CreateOrganization creates a workshop with default settings and registers
// the creator as its owner member.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input *CreateOrganizationInput) (*entity.Organization, error) {
	slug := input.Slug
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}
	if slug == "" {
		return nil, apperror.NewFieldError("slug", "Slug cannot be empty")
	}

	exists, err := s.orgRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("An organization with this slug already exists")
	}

	org := &entity.Organization{
		Name:     input.Name,
		Slug:     slug,
		OwnerID:  input.OwnerID,
		Settings: entity.DefaultOrgSettings(),
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}

	membership := &entity.OrganizationMembership{
		OrganizationID: org.ID,
		UserID:         input.OwnerID,
		Role:           MemberRoleOwner,
	}
	if err := s.orgRepo.AddMember(ctx, membership); err != nil {
		return nil, err
	}

	return org, nil
}

// GetOrganization returns an organization by ID
func (s *OrganizationService) GetOrganization(ctx context.Context, orgID uuid.UUID) (*entity.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.ErrNotFound
	}
	return org, nil
}

// GetOrganizationBySlug returns an organization by its slug
func (s *OrganizationService) GetOrganizationBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	org, err := s.orgRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.ErrNotFound
	}
	return org, nil
}

// GetUserOrganizationsInput represents the input for listing a user's organizations
type GetUserOrganizationsInput struct {
	UserID  uuid.UUID
	Page    int
	PerPage int
}

// GetUserOrganizations returns the organizations a user belongs to
func (s *OrganizationService) GetUserOrganizations(ctx context.Context, input *GetUserOrganizationsInput) (*pagination.PaginatedResult[entity.Organization], error) {
	params := &pagination.PaginationParams{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	params.Validate()

	orgs, total, err := s.orgRepo.GetUserOrganizations(ctx, input.UserID, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(orgs, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateOrganizationInput represents the input for updating an organization
type UpdateOrganizationInput struct {
	OrgID uuid.UUID
	Name  *string
	Slug  *string
}

// UpdateOrganization updates an organization's name and slug
func (s *OrganizationService) UpdateOrganization(ctx context.Context, input *UpdateOrganizationInput) (*entity.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, input.OrgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.ErrNotFound
	}

	if input.Name != nil && *input.Name != "" {
		org.Name = *input.Name
	}
	if input.Slug != nil && *input.Slug != org.Slug {
		slug := utils.Slugify(*input.Slug)
		if slug == "" {
			return nil, apperror.NewFieldError("slug", "Slug cannot be empty")
		}
		exists, err := s.orgRepo.SlugExists(ctx, slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.NewConflictError("An organization with this slug already exists")
		}
		org.Slug = slug
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

// UpdateSettingsInput represents a partial settings update. Nil fields are
// left untouched so clients can PATCH a single knob.
type UpdateSettingsInput struct {
	OrgID uuid.UUID

	LogoURL      *string
	PrimaryColor *string

	Currency   *string
	Timezone   *string
	Locale     *string
	DateFormat *string

	LaborRatePerHour *float64
	JobNumberPrefix  *string

	Address *string
	Phone   *string
	Email   *string

	EmailNotifications *bool
	Features           *entity.OrgFeatures
}

// UpdateSettings applies a partial update to the organization settings
func (s *OrganizationService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, input.OrgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.ErrNotFound
	}

	settings := org.Settings

	if input.LogoURL != nil {
		settings.LogoURL = *input.LogoURL
	}
	if input.PrimaryColor != nil {
		settings.PrimaryColor = *input.PrimaryColor
	}
	if input.Currency != nil {
		settings.Currency = *input.Currency
	}
	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil {
			return nil, apperror.NewFieldError("timezone", "Unknown timezone")
		}
		settings.Timezone = *input.Timezone
	}
	if input.Locale != nil {
		settings.Locale = *input.Locale
	}
	if input.DateFormat != nil {
		settings.DateFormat = *input.DateFormat
	}
	if input.LaborRatePerHour != nil {
		if *input.LaborRatePerHour < 0 {
			return nil, apperror.NewFieldError("labor_rate_per_hour", "Labor rate cannot be negative")
		}
		settings.LaborRatePerHour = *input.LaborRatePerHour
	}
	if input.JobNumberPrefix != nil {
		settings.JobNumberPrefix = *input.JobNumberPrefix
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.Phone != nil {
		settings.Phone = *input.Phone
	}
	if input.Email != nil {
		settings.Email = *input.Email
	}
	if input.EmailNotifications != nil {
		settings.EmailNotifications = *input.EmailNotifications
	}
	if input.Features != nil {
		settings.Features = *input.Features
	}

	org.Settings = settings
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}

	return org, nil
}

// InviteMemberInput represents the input for adding a member
type InviteMemberInput struct {
	OrgID uuid.UUID
	Email string
	Role  string
}

// InviteMember adds an existing user account to the organization
func (s *OrganizationService) InviteMember(ctx context.Context, input *InviteMemberInput) (*entity.OrganizationMembership, error) {
	role := input.Role
	if role == "" {
		role = MemberRoleMember
	}
	if role != MemberRoleAdmin && role != MemberRoleMember {
		return nil, apperror.NewFieldError("role", "Role must be admin or member")
	}

	org, err := s.orgRepo.GetByID(ctx, input.OrgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.ErrNotFound
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	isMember, err := s.orgRepo.IsMember(ctx, input.OrgID, user.ID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, apperror.NewConflictError("User is already a member of this organization")
	}

	membership := &entity.OrganizationMembership{
		OrganizationID: input.OrgID,
		UserID:         user.ID,
		Role:           role,
	}
	if err := s.orgRepo.AddMember(ctx, membership); err != nil {
		return nil, err
	}

	membership.User = *user
	membership.PopulateUserDetails()
	return membership, nil
}

// RemoveMember removes a user from the organization. The owner cannot be removed.
func (s *OrganizationService) RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return apperror.ErrNotFound
	}
	if org.OwnerID == userID {
		return apperror.NewForbiddenError("The organization owner cannot be removed")
	}

	membership, err := s.orgRepo.GetMembership(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperror.NewNotFoundError("Membership")
	}

	return s.orgRepo.RemoveMember(ctx, orgID, userID)
}

// GetMembers returns all members of an organization with their user details
func (s *OrganizationService) GetMembers(ctx context.Context, orgID uuid.UUID) ([]entity.OrganizationMembership, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.ErrNotFound
	}

	members, err := s.orgRepo.GetMembers(ctx, orgID)
	if err != nil {
		return nil, err
	}

	for i := range members {
		members[i].PopulateUserDetails()
	}

	return members, nil
}

// UpdateMemberRoleInput represents the input for changing a member's role
type UpdateMemberRoleInput struct {
	OrgID  uuid.UUID
	UserID uuid.UUID
	Role   string
}

// UpdateMemberRole changes a member's role. The owner's membership is fixed.
func (s *OrganizationService) UpdateMemberRole(ctx context.Context, input *UpdateMemberRoleInput) error {
	if input.Role != MemberRoleAdmin && input.Role != MemberRoleMember {
		return apperror.NewFieldError("role", "Role must be admin or member")
	}

	org, err := s.orgRepo.GetByID(ctx, input.OrgID)
	if err != nil {
		return err
	}
	if org == nil {
		return apperror.ErrNotFound
	}
	if org.OwnerID == input.UserID {
		return apperror.NewForbiddenError("The owner's role cannot be changed")
	}

	membership, err := s.orgRepo.GetMembership(ctx, input.OrgID, input.UserID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperror.NewNotFoundError("Membership")
	}

	return s.orgRepo.UpdateMemberRole(ctx, input.OrgID, input.UserID, input.Role)
}

// DeleteOrganization soft-deletes an organization. Only the owner may do this.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, orgID, actorID uuid.UUID) error {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return apperror.ErrNotFound
	}
	if org.OwnerID != actorID {
		return apperror.NewForbiddenError("Only the owner can delete the organization")
	}

	return s.orgRepo.Delete(ctx, orgID)
}
