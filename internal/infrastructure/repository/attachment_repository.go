package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	domainRepo "github.com/mpopescu/atelier-api/internal/domain/repository"
	"gorm.io/gorm"
)

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *gorm.DB) domainRepo.AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Attachment, error) {
	var attachment entity.Attachment
	err := r.db.WithContext(ctx).Scopes(OrgScope(ctx)).First(&attachment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &attachment, err
}

func (r *attachmentRepository) ListByJobID(ctx context.Context, jobID uuid.UUID) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

func (r *attachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(OrgScope(ctx)).Delete(&entity.Attachment{}, "id = ?", id).Error
}
