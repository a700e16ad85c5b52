package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	infraRepo "github.com/mpopescu/atelier-api/internal/infrastructure/repository"
	"github.com/mpopescu/atelier-api/pkg/apperror"
	"github.com/mpopescu/atelier-api/pkg/pagination"
)

// OperationService manages the normed-labor catalog
type OperationService struct {
	operationRepo repository.OperationRepository
}

// NewOperationService creates a new operation service
func NewOperationService(operationRepo repository.OperationRepository) *OperationService {
	return &OperationService{operationRepo: operationRepo}
}

// CreateOperationInput represents the create operation input
type CreateOperationInput struct {
	Code        *string
	Name        string
	Category    *string
	NormMinutes float64
}

// CreateOperation adds a catalog entry. Codes are optional but unique within
// the workshop when present.
func (s *OperationService) CreateOperation(ctx context.Context, input *CreateOperationInput) (*entity.Operation, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrNoOrganization
	}

	if input.Name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}
	if input.NormMinutes < 0 {
		return nil, apperror.NewFieldError("norm_minutes", "Norm minutes cannot be negative")
	}

	if input.Code != nil && *input.Code != "" {
		existing, err := s.operationRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("An operation with this code already exists")
		}
	}

	operation := &entity.Operation{
		OrganizationID: orgID,
		Code:           input.Code,
		Name:           input.Name,
		Category:       input.Category,
		NormMinutes:    input.NormMinutes,
		IsActive:       true,
	}

	if err := s.operationRepo.Create(ctx, operation); err != nil {
		return nil, err
	}

	return operation, nil
}

// GetOperation retrieves an operation by ID
func (s *OperationService) GetOperation(ctx context.Context, id uuid.UUID) (*entity.Operation, error) {
	operation, err := s.operationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if operation == nil {
		return nil, apperror.NewNotFoundError("Operation")
	}
	return operation, nil
}

// GetOperationByCode retrieves an operation by its catalog code
func (s *OperationService) GetOperationByCode(ctx context.Context, code string) (*entity.Operation, error) {
	operation, err := s.operationRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if operation == nil {
		return nil, apperror.NewNotFoundError("Operation")
	}
	return operation, nil
}

// ListOperationsInput represents the filters for listing operations
type ListOperationsInput struct {
	Page       int
	PerPage    int
	Search     string
	Category   *string
	ActiveOnly bool
}

// ListOperations lists catalog entries ordered by name
func (s *OperationService) ListOperations(ctx context.Context, input *ListOperationsInput) (*pagination.PaginatedResult[entity.Operation], error) {
	params := &pagination.PaginationParams{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	params.Validate()

	filter := &repository.OperationFilterParams{
		Pagination: params,
		Search:     input.Search,
		Category:   input.Category,
		ActiveOnly: input.ActiveOnly,
	}

	operations, total, err := s.operationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(operations, pag), nil
}

// ListCategories returns the distinct categories used in the catalog
func (s *OperationService) ListCategories(ctx context.Context) ([]string, error) {
	return s.operationRepo.ListCategories(ctx)
}

// UpdateOperationInput represents the update operation input
type UpdateOperationInput struct {
	ID          uuid.UUID
	Code        *string
	Name        *string
	Category    *string
	NormMinutes *float64
	IsActive    *bool
}

// UpdateOperation updates a catalog entry. Existing deviz lines keep the
// norm they snapshotted when they were added; only new lines pick up the
// changed norm.
func (s *OperationService) UpdateOperation(ctx context.Context, input *UpdateOperationInput) (*entity.Operation, error) {
	operation, err := s.operationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if operation == nil {
		return nil, apperror.NewNotFoundError("Operation")
	}

	if input.Code != nil {
		if *input.Code != "" {
			existing, err := s.operationRepo.GetByCode(ctx, *input.Code)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != operation.ID {
				return nil, apperror.NewConflictError("An operation with this code already exists")
			}
		}
		operation.Code = input.Code
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewFieldError("name", "Name is required")
		}
		operation.Name = *input.Name
	}
	if input.Category != nil {
		operation.Category = input.Category
	}
	if input.NormMinutes != nil {
		if *input.NormMinutes < 0 {
			return nil, apperror.NewFieldError("norm_minutes", "Norm minutes cannot be negative")
		}
		operation.NormMinutes = *input.NormMinutes
	}
	if input.IsActive != nil {
		operation.IsActive = *input.IsActive
	}

	if err := s.operationRepo.Update(ctx, operation); err != nil {
		return nil, err
	}

	return operation, nil
}

// DeleteOperation soft-deletes a catalog entry. Existing job items keep their
// snapshot of the norm, so history is unaffected.
func (s *OperationService) DeleteOperation(ctx context.Context, id uuid.UUID) error {
	operation, err := s.operationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if operation == nil {
		return apperror.NewNotFoundError("Operation")
	}

	return s.operationRepo.Delete(ctx, id)
}
