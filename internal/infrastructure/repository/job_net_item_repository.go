package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	domainRepo "github.com/mpopescu/atelier-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type jobNetItemRepository struct {
	db *gorm.DB
}

// NewJobNetItemRepository creates a new net ledger repository
func NewJobNetItemRepository(db *gorm.DB) domainRepo.JobNetItemRepository {
	return &jobNetItemRepository{db: db}
}

func (r *jobNetItemRepository) Create(ctx context.Context, item *entity.JobNetItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpsertIgnoreBySource inserts imported lines and lets the unique index on
// (job_id, source_job_item_id) swallow duplicates, so re-running an import
// is a no-op for lines that already landed. Returns the number inserted.
func (r *jobNetItemRepository) UpsertIgnoreBySource(ctx context.Context, items []entity.JobNetItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}, {Name: "source_job_item_id"}},
			DoNothing: true,
		}).
		Create(&items)
	return result.RowsAffected, result.Error
}

func (r *jobNetItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.JobNetItem, error) {
	var item entity.JobNetItem
	err := r.db.WithContext(ctx).Scopes(OrgScope(ctx)).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *jobNetItemRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) ([]entity.JobNetItem, error) {
	var items []entity.JobNetItem
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		Where("job_id = ?", jobID).
		Order("position ASC").
		Find(&items).Error
	return items, err
}

func (r *jobNetItemRepository) Update(ctx context.Context, item *entity.JobNetItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *jobNetItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(OrgScope(ctx)).Delete(&entity.JobNetItem{}, "id = ?", id).Error
}

func (r *jobNetItemRepository) DeleteByJobID(ctx context.Context, jobID uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(OrgScope(ctx)).Delete(&entity.JobNetItem{}, "job_id = ?", jobID).Error
}

// LatestPartCostByTitleKey finds the newest part line across all jobs in the
// org that shares the normalized title and has a known purchase cost. Used
// to suggest costs when importing parts without one.
func (r *jobNetItemRepository) LatestPartCostByTitleKey(ctx context.Context, titleKey string) (*entity.JobNetItem, error) {
	var item entity.JobNetItem
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		Where("title_key = ? AND purchase_unit_cost IS NOT NULL", titleKey).
		Order("created_at DESC").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

// NextPosition returns max(position)+1 so new lines append at the end
func (r *jobNetItemRepository) NextPosition(ctx context.Context, jobID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&entity.JobNetItem{}).
		Where("job_id = ?", jobID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
