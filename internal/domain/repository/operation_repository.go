package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/pkg/pagination"
)

// OperationFilterParams contains filtering parameters for catalog queries
type OperationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   *string
	// ActiveOnly hides deactivated catalog entries when true
	ActiveOnly bool
}

// OperationRepository defines the interface for the normed-labor catalog
type OperationRepository interface {
	Create(ctx context.Context, operation *entity.Operation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Operation, error)
	GetByCode(ctx context.Context, code string) (*entity.Operation, error)
	Update(ctx context.Context, operation *entity.Operation) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *OperationFilterParams) ([]entity.Operation, int64, error)
	// ListCategories returns the distinct category labels in use
	ListCategories(ctx context.Context) ([]string, error)
}
