package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	domainRepo "github.com/mpopescu/atelier-api/internal/domain/repository"
	"github.com/mpopescu/atelier-api/pkg/pagination"
	"gorm.io/gorm"
)

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) domainRepo.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	var org entity.Organization
	err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &org, err
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	var org entity.Organization
	err := r.db.WithContext(ctx).First(&org, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &org, err
}

func (r *organizationRepository) Update(ctx context.Context, org *entity.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

func (r *organizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Organization{}, "id = ?", id).Error
}

func (r *organizationRepository) GetUserOrganizations(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Organization, int64, error) {
	var orgs []entity.Organization
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Organization{}).
		Joins("JOIN organization_memberships ON organization_memberships.organization_id = organizations.id").
		Where("organization_memberships.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("organizations.name ASC").
		Find(&orgs).Error

	return orgs, total, err
}

func (r *organizationRepository) AddMember(ctx context.Context, membership *entity.OrganizationMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *organizationRepository) RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.OrganizationMembership{}, "organization_id = ? AND user_id = ?", orgID, userID).Error
}

func (r *organizationRepository) GetMembers(ctx context.Context, orgID uuid.UUID) ([]entity.OrganizationMembership, error) {
	var members []entity.OrganizationMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgID).
		Find(&members).Error
	return members, err
}

func (r *organizationRepository) IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *organizationRepository) GetMembership(ctx context.Context, orgID, userID uuid.UUID) (*entity.OrganizationMembership, error) {
	var membership entity.OrganizationMembership
	err := r.db.WithContext(ctx).
		First(&membership, "organization_id = ? AND user_id = ?", orgID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &membership, err
}

func (r *organizationRepository) UpdateMemberRole(ctx context.Context, orgID, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&entity.OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Update("role", role).Error
}

func (r *organizationRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Organization{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *organizationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Organization{}).Count(&count).Error
	return count, err
}
