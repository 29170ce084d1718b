package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
		CountByRole(ctx context.Context, roleID uuid.UUID) (int64, error)
	}

	ClinicRepository interface {
		Create(ctx context.Context, clinic *model.Clinic) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		Update(ctx context.Context, clinic *model.Clinic) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Clinic, error)
		ListStaff(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error)
	}

	RBACRepository interface {
		CreateRole(ctx context.Context, role *model.Role) error
		GetRole(ctx context.Context, id uuid.UUID) (*model.Role, error)
		UpdateRole(ctx context.Context, role *model.Role) error
		DeleteRole(ctx context.Context, id uuid.UUID) error
		ListRoles(ctx context.Context, clinicID *uuid.UUID) ([]*model.Role, error)

		CreateModule(ctx context.Context, module *model.Module) error
		GetModule(ctx context.Context, id uuid.UUID) (*model.Module, error)
		ListModules(ctx context.Context) ([]*model.Module, error)
		DeleteModule(ctx context.Context, id uuid.UUID) error

		CreateOperation(ctx context.Context, operation *model.Operation) error
		ListOperations(ctx context.Context) ([]*model.Operation, error)
		DeleteOperation(ctx context.Context, id uuid.UUID) error

		CreateModuleOperation(ctx context.Context, mo *model.ModuleOperation) error
		GetModuleOperation(ctx context.Context, id uuid.UUID) (*model.ModuleOperation, error)
		GetModuleOperationByPair(ctx context.Context, moduleID, operationID uuid.UUID) (*model.ModuleOperation, error)
		ListModuleOperations(ctx context.Context) ([]*model.ModuleOperationDetail, error)
		DeleteModuleOperation(ctx context.Context, id uuid.UUID) error

		AssignPermission(ctx context.Context, roleID, moduleOperationID uuid.UUID) error
		RemovePermission(ctx context.Context, roleID, moduleOperationID uuid.UUID) error
		HasPermission(ctx context.Context, roleID, moduleOperationID uuid.UUID) (bool, error)
		ListRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*model.ModuleOperationDetail, error)
		GetPermissionSet(ctx context.Context, roleID uuid.UUID) ([]*model.ModuleOperationDetail, error)
	}

	DoctorRepository interface {
		CreateSchedule(ctx context.Context, schedule *model.DoctorSchedule) error
		GetSchedule(ctx context.Context, id uuid.UUID) (*model.DoctorSchedule, error)
		UpdateSchedule(ctx context.Context, schedule *model.DoctorSchedule) error
		DeleteSchedule(ctx context.Context, id uuid.UUID) error
		ListSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorSchedule, error)
		ListSchedulesForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) ([]*model.DoctorSchedule, error)

		CreateTimeOff(ctx context.Context, timeOff *model.DoctorTimeOff) error
		DeleteTimeOff(ctx context.Context, id uuid.UUID) error
		ListTimeOff(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorTimeOff, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		CheckConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime, endTime string, excludeID *uuid.UUID) (bool, error)
	}

	TaskRepository interface {
		Create(ctx context.Context, task *model.Task) error
		Get(ctx context.Context, id uuid.UUID) (*model.Task, error)
		Update(ctx context.Context, task *model.Task) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.TaskFilters) ([]*model.Task, error)
		NextPosition(ctx context.Context, clinicID uuid.UUID, status model.TaskStatus) (int, error)
		Move(ctx context.Context, task *model.Task, status model.TaskStatus, position int) error
	}

	FormRepository interface {
		Create(ctx context.Context, form *model.Form) error
		Get(ctx context.Context, id uuid.UUID) (*model.Form, error)
		Update(ctx context.Context, form *model.Form) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, clinicID uuid.UUID) ([]*model.Form, error)
		SetPublished(ctx context.Context, id uuid.UUID, published bool) error

		CreateSubmission(ctx context.Context, submission *model.FormSubmission) error
		GetSubmission(ctx context.Context, id uuid.UUID) (*model.FormSubmission, error)
		ListSubmissions(ctx context.Context, formID uuid.UUID) ([]*model.FormSubmission, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
