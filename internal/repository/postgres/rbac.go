package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/model"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

func (r *rbacRepository) CreateRole(ctx context.Context, role *model.Role) error {
	query := `
		INSERT INTO roles (id, name, description, clinic_id, is_practice_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	role.ID = uuid.New()
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		role.ID,
		role.Name,
		role.Description,
		role.ClinicID,
		role.IsPracticeRole,
		role.CreatedAt,
		role.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (r *rbacRepository) GetRole(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	query := `
		SELECT id, name, description, clinic_id, is_practice_role, created_at, updated_at
		FROM roles
		WHERE id = $1
	`
	var role model.Role
	err := r.db.GetContext(ctx, &role, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("role", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &role, nil
}

func (r *rbacRepository) UpdateRole(ctx context.Context, role *model.Role) error {
	query := `
		UPDATE roles
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`
	role.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		role.Name,
		role.Description,
		role.UpdatedAt,
		role.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("role", nil)
	}

	return nil
}

func (r *rbacRepository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM roles
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("role", nil)
	}

	return nil
}

func (r *rbacRepository) ListRoles(ctx context.Context, clinicID *uuid.UUID) ([]*model.Role, error) {
	var query string
	var args []interface{}

	if clinicID != nil {
		query = `
			SELECT id, name, description, clinic_id, is_practice_role, created_at, updated_at
			FROM roles
			WHERE clinic_id = $1 OR is_practice_role = false
			ORDER BY created_at DESC
		`
		args = append(args, *clinicID)
	} else {
		query = `
			SELECT id, name, description, clinic_id, is_practice_role, created_at, updated_at
			FROM roles
			ORDER BY created_at DESC
		`
	}

	var roles []*model.Role
	err := r.db.SelectContext(ctx, &roles, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (r *rbacRepository) CreateModule(ctx context.Context, module *model.Module) error {
	query := `
		INSERT INTO modules (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	module.ID = uuid.New()
	module.CreatedAt = time.Now()
	module.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		module.ID,
		module.Name,
		module.Description,
		module.CreatedAt,
		module.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}
	return nil
}

func (r *rbacRepository) GetModule(ctx context.Context, id uuid.UUID) (*model.Module, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM modules
		WHERE id = $1
	`
	var module model.Module
	err := r.db.GetContext(ctx, &module, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("module", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return &module, nil
}

func (r *rbacRepository) ListModules(ctx context.Context) ([]*model.Module, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM modules
		ORDER BY name ASC
	`
	var modules []*model.Module
	err := r.db.SelectContext(ctx, &modules, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	return modules, nil
}

func (r *rbacRepository) DeleteModule(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("module", nil)
	}
	return nil
}

func (r *rbacRepository) CreateOperation(ctx context.Context, operation *model.Operation) error {
	query := `
		INSERT INTO operations (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	operation.ID = uuid.New()
	operation.CreatedAt = time.Now()
	operation.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		operation.ID,
		operation.Name,
		operation.CreatedAt,
		operation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}
	return nil
}

func (r *rbacRepository) ListOperations(ctx context.Context) ([]*model.Operation, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM operations
		ORDER BY name ASC
	`
	var operations []*model.Operation
	err := r.db.SelectContext(ctx, &operations, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	return operations, nil
}

func (r *rbacRepository) DeleteOperation(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("operation", nil)
	}
	return nil
}

func (r *rbacRepository) CreateModuleOperation(ctx context.Context, mo *model.ModuleOperation) error {
	query := `
		INSERT INTO module_operations (id, module_id, operation_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	mo.ID = uuid.New()
	mo.CreatedAt = time.Now()
	mo.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		mo.ID,
		mo.ModuleID,
		mo.OperationID,
		mo.CreatedAt,
		mo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create module operation: %w", err)
	}
	return nil
}

func (r *rbacRepository) GetModuleOperation(ctx context.Context, id uuid.UUID) (*model.ModuleOperation, error) {
	query := `
		SELECT id, module_id, operation_id, created_at, updated_at
		FROM module_operations
		WHERE id = $1
	`
	var mo model.ModuleOperation
	err := r.db.GetContext(ctx, &mo, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("module operation", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module operation: %w", err)
	}
	return &mo, nil
}

func (r *rbacRepository) GetModuleOperationByPair(ctx context.Context, moduleID, operationID uuid.UUID) (*model.ModuleOperation, error) {
	query := `
		SELECT id, module_id, operation_id, created_at, updated_at
		FROM module_operations
		WHERE module_id = $1 AND operation_id = $2
	`
	var mo model.ModuleOperation
	err := r.db.GetContext(ctx, &mo, query, moduleID, operationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("module operation", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module operation: %w", err)
	}
	return &mo, nil
}

func (r *rbacRepository) ListModuleOperations(ctx context.Context) ([]*model.ModuleOperationDetail, error) {
	query := `
		SELECT mo.id, mo.module_id, mo.operation_id, m.name AS module_name, o.name AS operation_name
		FROM module_operations mo
		JOIN modules m ON m.id = mo.module_id
		JOIN operations o ON o.id = mo.operation_id
		ORDER BY m.name, o.name
	`
	var details []*model.ModuleOperationDetail
	err := r.db.SelectContext(ctx, &details, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list module operations: %w", err)
	}
	return details, nil
}

func (r *rbacRepository) DeleteModuleOperation(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM module_operations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete module operation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("module operation", nil)
	}
	return nil
}

func (r *rbacRepository) AssignPermission(ctx context.Context, roleID, moduleOperationID uuid.UUID) error {
	query := `
		INSERT INTO role_permissions (id, role_id, module_operation_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query, uuid.New(), roleID, moduleOperationID, now, now)
	if err != nil {
		return fmt.Errorf("failed to assign permission to role: %w", err)
	}
	return nil
}

func (r *rbacRepository) RemovePermission(ctx context.Context, roleID, moduleOperationID uuid.UUID) error {
	query := `
		DELETE FROM role_permissions
		WHERE role_id = $1 AND module_operation_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, roleID, moduleOperationID)
	if err != nil {
		return fmt.Errorf("failed to remove permission from role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("role permission", nil)
	}

	return nil
}

func (r *rbacRepository) HasPermission(ctx context.Context, roleID, moduleOperationID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM role_permissions
			WHERE role_id = $1 AND module_operation_id = $2
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, roleID, moduleOperationID)
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}
	return exists, nil
}

func (r *rbacRepository) ListRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*model.ModuleOperationDetail, error) {
	return r.GetPermissionSet(ctx, roleID)
}

// GetPermissionSet flattens role_permissions -> module_operations ->
// modules/operations into the name pairs the access resolver consumes.
func (r *rbacRepository) GetPermissionSet(ctx context.Context, roleID uuid.UUID) ([]*model.ModuleOperationDetail, error) {
	query := `
		SELECT mo.id, mo.module_id, mo.operation_id, m.name AS module_name, o.name AS operation_name
		FROM role_permissions rp
		JOIN module_operations mo ON mo.id = rp.module_operation_id
		JOIN modules m ON m.id = mo.module_id
		JOIN operations o ON o.id = mo.operation_id
		WHERE rp.role_id = $1
		ORDER BY m.name, o.name
	`
	var details []*model.ModuleOperationDetail
	err := r.db.SelectContext(ctx, &details, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permission set: %w", err)
	}
	return details, nil
}
