package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	"github.com/mpopescu/atelier-api/pkg/apperror"
	"github.com/mpopescu/atelier-api/pkg/pagination"
)

// UserService handles staff account management
type UserService struct {
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	permissionRepo repository.PermissionRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

// ListUsersInput represents the input for listing users
type ListUsersInput struct {
	Page    int
	PerPage int
	Search  string
}

// ListUsers returns a paginated list of users with their roles
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*pagination.PaginatedResult[entity.User], error) {
	params := &pagination.PaginationParams{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	params.Validate()

	users, total, err := s.userRepo.List(ctx, params, input.Search)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(users, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// GetUser returns a user by ID with roles and permissions
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// UpdateUserRolesInput represents the input for updating user roles
type UpdateUserRolesInput struct {
	UserID  uuid.UUID
	RoleIDs []uint
}

// UpdateUserRoles replaces the roles assigned to a user. Roles not in the
// input are removed, new ones are assigned, unknown IDs are skipped.
func (s *UserService) UpdateUserRoles(ctx context.Context, input *UpdateUserRolesInput) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	desired := make(map[uint]bool)
	for _, roleID := range input.RoleIDs {
		desired[roleID] = true
	}

	current := make(map[uint]bool)
	for _, role := range user.Roles {
		current[role.ID] = true
	}

	for _, role := range user.Roles {
		if !desired[role.ID] {
			if err := s.userRepo.RemoveRole(ctx, input.UserID, role.ID); err != nil {
				return nil, err
			}
		}
	}

	for roleID := range desired {
		if current[roleID] {
			continue
		}
		role, err := s.roleRepo.GetByID(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			continue
		}
		if err := s.userRepo.AssignRole(ctx, input.UserID, roleID); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetWithRoles(ctx, input.UserID)
}

// DeleteUser soft deletes a user. Users cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	return s.userRepo.Delete(ctx, userID)
}

// ListRoles returns all available roles
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}

// GetRole returns a role with its permissions
func (s *UserService) GetRole(ctx context.Context, roleID uint) (*entity.Role, error) {
	role, err := s.roleRepo.GetWithPermissions(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.ErrNotFound
	}
	return role, nil
}

// UpdateRolePermissionsInput represents the input for syncing role permissions
type UpdateRolePermissionsInput struct {
	RoleID        uint
	PermissionIDs []uint
}

// UpdateRolePermissions replaces the permission set of a role
func (s *UserService) UpdateRolePermissions(ctx context.Context, input *UpdateRolePermissionsInput) (*entity.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, input.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.ErrNotFound
	}
	if role.Name == "super-admin" {
		return nil, apperror.NewForbiddenError("The super-admin role cannot be modified")
	}

	valid := make([]uint, 0, len(input.PermissionIDs))
	for _, permissionID := range input.PermissionIDs {
		permission, err := s.permissionRepo.GetByID(ctx, permissionID)
		if err != nil {
			return nil, err
		}
		if permission == nil {
			continue
		}
		valid = append(valid, permissionID)
	}

	if err := s.roleRepo.SyncPermissions(ctx, input.RoleID, valid); err != nil {
		return nil, err
	}

	return s.roleRepo.GetWithPermissions(ctx, input.RoleID)
}

// ListPermissions returns all available permissions
func (s *UserService) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	return s.permissionRepo.List(ctx)
}
