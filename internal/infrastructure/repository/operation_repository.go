package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	domainRepo "github.com/mpopescu/atelier-api/internal/domain/repository"
	"gorm.io/gorm"
)

type operationRepository struct {
	db *gorm.DB
}

// NewOperationRepository creates a new operation catalog repository
func NewOperationRepository(db *gorm.DB) domainRepo.OperationRepository {
	return &operationRepository{db: db}
}

func (r *operationRepository) Create(ctx context.Context, operation *entity.Operation) error {
	return r.db.WithContext(ctx).Create(operation).Error
}

func (r *operationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Operation, error) {
	var operation entity.Operation
	err := r.db.WithContext(ctx).Scopes(OrgScope(ctx)).First(&operation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &operation, err
}

func (r *operationRepository) GetByCode(ctx context.Context, code string) (*entity.Operation, error) {
	var operation entity.Operation
	err := r.db.WithContext(ctx).Scopes(OrgScope(ctx)).First(&operation, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &operation, err
}

func (r *operationRepository) Update(ctx context.Context, operation *entity.Operation) error {
	return r.db.WithContext(ctx).Save(operation).Error
}

func (r *operationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(OrgScope(ctx)).Delete(&entity.Operation{}, "id = ?", id).Error
}

func (r *operationRepository) List(ctx context.Context, params *domainRepo.OperationFilterParams) ([]entity.Operation, int64, error) {
	var operations []entity.Operation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Operation{}).Scopes(OrgScope(ctx))

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}

	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&operations).Error

	return operations, total, err
}

func (r *operationRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&entity.Operation{}).
		Scopes(OrgScope(ctx)).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}
