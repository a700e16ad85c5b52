package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	domainRepo "github.com/mpopescu/atelier-api/internal/domain/repository"
	"github.com/mpopescu/atelier-api/pkg/pagination"
	"gorm.io/gorm"
)

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) domainRepo.JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var job entity.Job
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		Preload("Customer").
		First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &job, err
}

func (r *jobRepository) GetByNumber(ctx context.Context, number string) (*entity.Job, error) {
	var job entity.Job
	err := r.db.WithContext(ctx).Scopes(OrgScope(ctx)).First(&job, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &job, err
}

func (r *jobRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var job entity.Job
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Appointment").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("job_items.position ASC")
		}).
		Preload("Items.Operation").
		First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &job, err
}

func (r *jobRepository) Update(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(OrgScope(ctx)).Delete(&entity.Job{}, "id = ?", id).Error
}

func (r *jobRepository) List(ctx context.Context, params *domainRepo.JobFilterParams) ([]entity.Job, int64, error) {
	var jobs []entity.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Job{}).Scopes(OrgScope(ctx))

	if params.Search != "" {
		query = query.Where("number ILIKE ?", "%"+params.Search+"%")
	}

	if params.Progress != nil {
		query = query.Where("progress = ?", *params.Progress)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.VehicleID != nil {
		query = query.Where("vehicle_id = ?", *params.VehicleID)
	}

	if params.IsPaid != nil {
		query = query.Where("is_paid = ?", *params.IsPaid)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Vehicle").
		Order(sortBy + " " + sortOrder).
		Find(&jobs).Error

	return jobs, total, err
}

// ListWithCursor returns jobs using cursor-based pagination
func (r *jobRepository) ListWithCursor(ctx context.Context, params *domainRepo.JobCursorFilterParams) ([]entity.Job, error) {
	var jobs []entity.Job

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Job{}).Scopes(OrgScope(ctx))

	if params.Search != "" {
		query = query.Where("number ILIKE ?", "%"+params.Search+"%")
	}

	if params.Progress != nil {
		query = query.Where("progress = ?", *params.Progress)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order("created_at ASC, id ASC").
		Find(&jobs).Error

	return jobs, err
}

func (r *jobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, progress enum.JobProgress) error {
	return r.db.WithContext(ctx).Model(&entity.Job{}).
		Scopes(OrgScope(ctx)).
		Where("id = ?", id).
		Update("progress", progress).Error
}

type jobItemRepository struct {
	db *gorm.DB
}

// NewJobItemRepository creates a new job item repository
func NewJobItemRepository(db *gorm.DB) domainRepo.JobItemRepository {
	return &jobItemRepository{db: db}
}

func (r *jobItemRepository) Create(ctx context.Context, item *entity.JobItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *jobItemRepository) CreateBatch(ctx context.Context, items []entity.JobItem) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *jobItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.JobItem, error) {
	var item entity.JobItem
	err := r.db.WithContext(ctx).
		Preload("Operation").
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *jobItemRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) ([]entity.JobItem, error) {
	var items []entity.JobItem
	err := r.db.WithContext(ctx).
		Preload("Operation").
		Where("job_id = ?", jobID).
		Order("position ASC").
		Find(&items).Error
	return items, err
}

func (r *jobItemRepository) Update(ctx context.Context, item *entity.JobItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *jobItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.JobItem{}, "id = ?", id).Error
}

func (r *jobItemRepository) DeleteByJobID(ctx context.Context, jobID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.JobItem{}, "job_id = ?", jobID).Error
}

// NextPosition returns max(position)+1 so new lines append at the end
func (r *jobItemRepository) NextPosition(ctx context.Context, jobID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&entity.JobItem{}).
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

type jobProgressEventRepository struct {
	db *gorm.DB
}

// NewJobProgressEventRepository creates a new progress event repository
func NewJobProgressEventRepository(db *gorm.DB) domainRepo.JobProgressEventRepository {
	return &jobProgressEventRepository{db: db}
}

func (r *jobProgressEventRepository) Create(ctx context.Context, event *entity.JobProgressEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *jobProgressEventRepository) ListByJobID(ctx context.Context, jobID uuid.UUID) ([]entity.JobProgressEvent, error) {
	var events []entity.JobProgressEvent
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		Preload("ChangedBy").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].PopulateUserDetails()
	}
	return events, nil
}
