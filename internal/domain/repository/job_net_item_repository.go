package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
)

// JobNetItemRepository defines the interface for net ledger line operations
type JobNetItemRepository interface {
	Create(ctx context.Context, item *entity.JobNetItem) error
	// UpsertIgnoreBySource inserts imported lines, silently skipping any
	// that collide on (job_id, source_job_item_id). Re-running an import
	// therefore never duplicates lines. Returns the number inserted.
	UpsertIgnoreBySource(ctx context.Context, items []entity.JobNetItem) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.JobNetItem, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) ([]entity.JobNetItem, error)
	Update(ctx context.Context, item *entity.JobNetItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByJobID(ctx context.Context, jobID uuid.UUID) error
	// LatestPartCostByTitleKey returns the most recent part line sharing
	// the normalized title key that has a known purchase cost, or nil
	// when no history exists.
	LatestPartCostByTitleKey(ctx context.Context, titleKey string) (*entity.JobNetItem, error)
	// NextPosition returns the position index for a line appended to a job
	NextPosition(ctx context.Context, jobID uuid.UUID) (int, error)
}
