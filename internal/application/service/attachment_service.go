package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	infraRepo "github.com/mpopescu/atelier-api/internal/infrastructure/repository"
	"github.com/mpopescu/atelier-api/internal/infrastructure/storage"
	"github.com/mpopescu/atelier-api/pkg/apperror"
	"github.com/mpopescu/atelier-api/pkg/utils"
)

// AttachmentService handles file uploads attached to jobs. Metadata lives in
// the database; blobs live behind the storage abstraction and are only read
// through short-lived signed tokens.
type AttachmentService struct {
	attachmentRepo repository.AttachmentRepository
	jobRepo        repository.JobRepository
	store          storage.Storage
	jwtManager     *utils.JWTManager
	maxUploadSize  int64
	signedURLTTL   time.Duration
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	jobRepo repository.JobRepository,
	store storage.Storage,
	jwtManager *utils.JWTManager,
	maxUploadSize int64,
	signedURLTTL time.Duration,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		jobRepo:        jobRepo,
		store:          store,
		jwtManager:     jwtManager,
		maxUploadSize:  maxUploadSize,
		signedURLTTL:   signedURLTTL,
	}
}

// UploadInput represents an incoming file upload
type UploadInput struct {
	JobID        uuid.UUID
	FileName     string
	ContentType  string
	Size         int64
	Content      io.Reader
	UploadedByID uuid.UUID
}

// Upload stores a file against a job and records its metadata. The stored
// size is whatever was actually written, not what the client declared.
func (s *AttachmentService) Upload(ctx context.Context, input *UploadInput) (*entity.Attachment, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrNoOrganization
	}

	if s.maxUploadSize > 0 && input.Size > s.maxUploadSize {
		return nil, apperror.NewUnprocessableError(fmt.Sprintf("File exceeds the %d MB upload limit", s.maxUploadSize/(1024*1024)))
	}

	job, err := s.jobRepo.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	// Drop any path the client smuggled into the filename
	fileName := filepath.Base(input.FileName)
	if fileName == "." || fileName == string(filepath.Separator) || fileName == "" {
		fileName = "file"
	}

	relPath := fmt.Sprintf("%s/%s/%s_%s", orgID, input.JobID, uuid.New().String(), fileName)

	written, err := s.store.Save(ctx, relPath, input.Content)
	if err != nil {
		return nil, err
	}

	attachment := &entity.Attachment{
		OrganizationID: orgID,
		JobID:          input.JobID,
		FileName:       fileName,
		StoragePath:    relPath,
		ContentType:    input.ContentType,
		SizeBytes:      written,
		UploadedByID:   input.UploadedByID,
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		// Don't leave an orphaned blob behind the failed metadata row
		_ = s.store.Delete(ctx, relPath)
		return nil, err
	}

	return attachment, nil
}

// GetAttachment retrieves attachment metadata by ID
func (s *AttachmentService) GetAttachment(ctx context.Context, id uuid.UUID) (*entity.Attachment, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if attachment == nil {
		return nil, apperror.NewNotFoundError("Attachment")
	}
	return attachment, nil
}

// ListByJob returns a job's attachments, newest first
func (s *AttachmentService) ListByJob(ctx context.Context, jobID uuid.UUID) ([]entity.Attachment, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	return s.attachmentRepo.ListByJobID(ctx, jobID)
}

// SignedURL is a time-limited grant to download one attachment
type SignedURL struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetSignedURL issues a download token for the attachment. The token carries
// the organization so the public download endpoint can scope its lookup.
func (s *AttachmentService) GetSignedURL(ctx context.Context, id uuid.UUID) (*SignedURL, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if attachment == nil {
		return nil, apperror.NewNotFoundError("Attachment")
	}

	token, err := s.jwtManager.GenerateFileToken(attachment.ID, attachment.OrganizationID, s.signedURLTTL)
	if err != nil {
		return nil, err
	}

	return &SignedURL{
		Token:     token,
		ExpiresAt: time.Now().Add(s.signedURLTTL),
	}, nil
}

// Download validates a signed token and opens the file it grants. The caller
// owns the returned reader. This path serves unauthenticated requests; the
// token is the whole authorization.
func (s *AttachmentService) Download(ctx context.Context, token string) (*entity.Attachment, io.ReadCloser, error) {
	claims, err := s.jwtManager.ValidateFileToken(token)
	if err != nil {
		return nil, nil, apperror.ErrInvalidToken
	}

	// Scope the lookup with the organization baked into the token
	ctx = infraRepo.WithOrganization(ctx, claims.OrganizationID)

	attachment, err := s.attachmentRepo.GetByID(ctx, claims.AttachmentID)
	if err != nil {
		return nil, nil, err
	}
	if attachment == nil {
		return nil, nil, apperror.NewNotFoundError("Attachment")
	}

	reader, err := s.store.Open(ctx, attachment.StoragePath)
	if err != nil {
		return nil, nil, err
	}

	return attachment, reader, nil
}

// Delete removes the metadata row, then best-effort removes the blob. A
// storage failure leaves an orphan file but never a dangling metadata row.
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if attachment == nil {
		return apperror.NewNotFoundError("Attachment")
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.store.Delete(ctx, attachment.StoragePath)
	return nil
}
