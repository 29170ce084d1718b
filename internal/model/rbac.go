package model

import (
	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/pkg/access"
)

// Canonical module names used when declaring route requirements. Modules
// are data (rows in the modules table); these constants only name the ones
// the API itself is guarded by.
const (
	ModuleClinics      = "Clinic Management"
	ModuleUsers        = "User Management"
	ModuleAccess       = "Access Control"
	ModulePatients     = "Patient Management"
	ModuleDoctors      = "Doctor Scheduling"
	ModuleAppointments = "Appointment Management"
	ModuleTasks        = "Task Board"
	ModuleForms        = "Forms"
)

// Canonical operation names.
const (
	OperationRead   = "Read"
	OperationCreate = "Create"
	OperationUpdate = "Update"
	OperationDelete = "Delete"
)

// Role groups a set of granted module operations. Practice roles are scoped
// to a single clinic; global roles apply everywhere.
type Role struct {
	Base
	Name           string     `db:"name" json:"name"`
	Description    string     `db:"description" json:"description"`
	ClinicID       *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	IsPracticeRole bool       `db:"is_practice_role" json:"is_practice_role"`
}

// Module is a named functional area subject to access control,
// e.g. "Patient Management". Static reference data.
type Module struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// Operation is a named action type (Read, Create, Update, Delete).
// Static reference data.
type Operation struct {
	Base
	Name string `db:"name" json:"name"`
}

// ModuleOperation is one grantable capability: a module paired with an
// operation. Unique per (module_id, operation_id).
type ModuleOperation struct {
	Base
	ModuleID    uuid.UUID `db:"module_id" json:"module_id"`
	OperationID uuid.UUID `db:"operation_id" json:"operation_id"`
}

// ModuleOperationDetail is a ModuleOperation joined with its module and
// operation names, the shape handed to the access resolver.
type ModuleOperationDetail struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ModuleID      uuid.UUID `db:"module_id" json:"module_id"`
	OperationID   uuid.UUID `db:"operation_id" json:"operation_id"`
	ModuleName    string    `db:"module_name" json:"module_name"`
	OperationName string    `db:"operation_name" json:"operation_name"`
}

// Grant converts the detail row to the resolver's grant shape.
func (d *ModuleOperationDetail) Grant() access.Grant {
	return access.Grant{Module: d.ModuleName, Operation: d.OperationName}
}

// RolePermission assigns one ModuleOperation to one Role. No duplicate
// (role_id, module_operation_id) pairs.
type RolePermission struct {
	Base
	RoleID            uuid.UUID `db:"role_id" json:"role_id"`
	ModuleOperationID uuid.UUID `db:"module_operation_id" json:"module_operation_id"`
}

type CreateRoleRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	ClinicID       *string `json:"clinic_id"`
	IsPracticeRole bool    `json:"is_practice_role"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateModuleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreateOperationRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateModuleOperationRequest struct {
	ModuleID    string `json:"module_id" binding:"required,uuid"`
	OperationID string `json:"operation_id" binding:"required,uuid"`
}
