package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/pkg/pagination"
)

// JobFilterParams contains filtering parameters for job queries
type JobFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Progress   *enum.JobProgress
	CustomerID *uuid.UUID
	VehicleID  *uuid.UUID
	IsPaid     *bool
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// JobCursorFilterParams contains cursor-based filtering for job queries
type JobCursorFilterParams struct {
	Cursor     *pagination.CursorParams
	Search     string
	Progress   *enum.JobProgress
	CustomerID *uuid.UUID
}

// JobRepository defines the interface for work order data operations
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	GetByNumber(ctx context.Context, number string) (*entity.Job, error)
	// GetWithItems retrieves a job with items, customer, vehicle and
	// appointment preloaded; items come back ordered by position.
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	Update(ctx context.Context, job *entity.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *JobFilterParams) ([]entity.Job, int64, error)
	ListWithCursor(ctx context.Context, params *JobCursorFilterParams) ([]entity.Job, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress enum.JobProgress) error
}

// JobItemRepository defines the interface for deviz line data operations
type JobItemRepository interface {
	Create(ctx context.Context, item *entity.JobItem) error
	CreateBatch(ctx context.Context, items []entity.JobItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.JobItem, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) ([]entity.JobItem, error)
	Update(ctx context.Context, item *entity.JobItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByJobID(ctx context.Context, jobID uuid.UUID) error
	// NextPosition returns the position index for a line appended to a job
	NextPosition(ctx context.Context, jobID uuid.UUID) (int, error)
}

// JobProgressEventRepository defines the interface for the append-only
// progress history. Events are only ever created and listed.
type JobProgressEventRepository interface {
	Create(ctx context.Context, event *entity.JobProgressEvent) error
	ListByJobID(ctx context.Context, jobID uuid.UUID) ([]entity.JobProgressEvent, error)
}
