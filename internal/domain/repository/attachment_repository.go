package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
)

// AttachmentRepository defines the interface for attachment metadata operations
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *entity.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Attachment, error)
	ListByJobID(ctx context.Context, jobID uuid.UUID) ([]entity.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
