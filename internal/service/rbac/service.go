package rbac

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
	"github.com/medora-health/emr-admin-api/pkg/access"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

type Service struct {
	repo     repository.RBACRepository
	userRepo repository.UserRepository
}

func NewService(repo repository.RBACRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
	}
}

func (s *Service) CreateRole(ctx context.Context, role *model.Role) error {
	if err := s.repo.CreateRole(ctx, role); err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (s *Service) GetRole(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	return s.repo.GetRole(ctx, id)
}

func (s *Service) UpdateRole(ctx context.Context, role *model.Role) error {
	if err := s.repo.UpdateRole(ctx, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

// DeleteRole removes a role. A role still assigned to users cannot be
// deleted; reassign those users first.
func (s *Service) DeleteRole(ctx context.Context, id uuid.UUID) error {
	count, err := s.userRepo.CountByRole(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count role assignments: %w", err)
	}
	if count > 0 {
		return apperrors.NewConflict(fmt.Sprintf("role is assigned to %d user(s)", count), nil)
	}
	return s.repo.DeleteRole(ctx, id)
}

func (s *Service) ListRoles(ctx context.Context, clinicID *uuid.UUID) ([]*model.Role, error) {
	return s.repo.ListRoles(ctx, clinicID)
}

func (s *Service) CreateModule(ctx context.Context, module *model.Module) error {
	if err := s.repo.CreateModule(ctx, module); err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}
	return nil
}

func (s *Service) GetModule(ctx context.Context, id uuid.UUID) (*model.Module, error) {
	return s.repo.GetModule(ctx, id)
}

func (s *Service) ListModules(ctx context.Context) ([]*model.Module, error) {
	return s.repo.ListModules(ctx)
}

func (s *Service) DeleteModule(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteModule(ctx, id)
}

func (s *Service) CreateOperation(ctx context.Context, operation *model.Operation) error {
	if err := s.repo.CreateOperation(ctx, operation); err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}
	return nil
}

func (s *Service) ListOperations(ctx context.Context) ([]*model.Operation, error) {
	return s.repo.ListOperations(ctx)
}

func (s *Service) DeleteOperation(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOperation(ctx, id)
}

// CreateModuleOperation registers a grantable (module, operation) pair.
// The pair must be unique.
func (s *Service) CreateModuleOperation(ctx context.Context, mo *model.ModuleOperation) error {
	existing, err := s.repo.GetModuleOperationByPair(ctx, mo.ModuleID, mo.OperationID)
	if err != nil && !apperrors.IsNotFound(err) {
		return fmt.Errorf("failed to check module operation: %w", err)
	}
	if existing != nil {
		return apperrors.NewConflict("module operation already exists", nil)
	}

	if err := s.repo.CreateModuleOperation(ctx, mo); err != nil {
		return fmt.Errorf("failed to create module operation: %w", err)
	}
	return nil
}

func (s *Service) ListModuleOperations(ctx context.Context) ([]*model.ModuleOperationDetail, error) {
	return s.repo.ListModuleOperations(ctx)
}

func (s *Service) DeleteModuleOperation(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteModuleOperation(ctx, id)
}

// AssignPermission grants a module operation to a role. Both sides must
// exist and the grant must not already be present.
func (s *Service) AssignPermission(ctx context.Context, roleID, moduleOperationID uuid.UUID) error {
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.repo.GetModuleOperation(ctx, moduleOperationID); err != nil {
		return err
	}

	exists, err := s.repo.HasPermission(ctx, roleID, moduleOperationID)
	if err != nil {
		return fmt.Errorf("failed to check permission: %w", err)
	}
	if exists {
		return apperrors.NewConflict("permission already assigned to role", nil)
	}

	if err := s.repo.AssignPermission(ctx, roleID, moduleOperationID); err != nil {
		return fmt.Errorf("failed to assign permission: %w", err)
	}
	return nil
}

func (s *Service) RemovePermission(ctx context.Context, roleID, moduleOperationID uuid.UUID) error {
	return s.repo.RemovePermission(ctx, roleID, moduleOperationID)
}

func (s *Service) ListRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*model.ModuleOperationDetail, error) {
	return s.repo.ListRolePermissions(ctx, roleID)
}

// GetPermissionSet loads a role's grants in the shape the access resolver
// consumes. A role with no grants yields an empty set, which denies
// everything non-public.
func (s *Service) GetPermissionSet(ctx context.Context, roleID uuid.UUID) (access.PermissionSet, error) {
	details, err := s.repo.GetPermissionSet(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permission set: %w", err)
	}

	set := make(access.PermissionSet, 0, len(details))
	for _, d := range details {
		set = append(set, d.Grant())
	}
	return set, nil
}
