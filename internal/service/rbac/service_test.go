package rbac

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

type fakeRBACRepo struct {
	repository.RBACRepository
	roles            map[uuid.UUID]*model.Role
	moduleOperations map[uuid.UUID]*model.ModuleOperation
	assignments      map[uuid.UUID][]uuid.UUID // roleID -> moduleOperationIDs
	permissionSets   map[uuid.UUID][]*model.ModuleOperationDetail
}

func newFakeRBACRepo() *fakeRBACRepo {
	return &fakeRBACRepo{
		roles:            make(map[uuid.UUID]*model.Role),
		moduleOperations: make(map[uuid.UUID]*model.ModuleOperation),
		assignments:      make(map[uuid.UUID][]uuid.UUID),
		permissionSets:   make(map[uuid.UUID][]*model.ModuleOperationDetail),
	}
}

func (f *fakeRBACRepo) GetRole(_ context.Context, id uuid.UUID) (*model.Role, error) {
	if r, ok := f.roles[id]; ok {
		return r, nil
	}
	return nil, apperrors.NewNotFound("role", nil)
}

func (f *fakeRBACRepo) DeleteRole(_ context.Context, id uuid.UUID) error {
	if _, ok := f.roles[id]; !ok {
		return apperrors.NewNotFound("role", nil)
	}
	delete(f.roles, id)
	return nil
}

func (f *fakeRBACRepo) GetModuleOperation(_ context.Context, id uuid.UUID) (*model.ModuleOperation, error) {
	if mo, ok := f.moduleOperations[id]; ok {
		return mo, nil
	}
	return nil, apperrors.NewNotFound("module operation", nil)
}

func (f *fakeRBACRepo) GetModuleOperationByPair(_ context.Context, moduleID, operationID uuid.UUID) (*model.ModuleOperation, error) {
	for _, mo := range f.moduleOperations {
		if mo.ModuleID == moduleID && mo.OperationID == operationID {
			return mo, nil
		}
	}
	return nil, apperrors.NewNotFound("module operation", nil)
}

func (f *fakeRBACRepo) CreateModuleOperation(_ context.Context, mo *model.ModuleOperation) error {
	mo.ID = uuid.New()
	f.moduleOperations[mo.ID] = mo
	return nil
}

func (f *fakeRBACRepo) HasPermission(_ context.Context, roleID, moduleOperationID uuid.UUID) (bool, error) {
	for _, id := range f.assignments[roleID] {
		if id == moduleOperationID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRBACRepo) AssignPermission(_ context.Context, roleID, moduleOperationID uuid.UUID) error {
	f.assignments[roleID] = append(f.assignments[roleID], moduleOperationID)
	return nil
}

func (f *fakeRBACRepo) GetPermissionSet(_ context.Context, roleID uuid.UUID) ([]*model.ModuleOperationDetail, error) {
	return f.permissionSets[roleID], nil
}

type fakeUserCounter struct {
	repository.UserRepository
	counts map[uuid.UUID]int64
}

func (f *fakeUserCounter) CountByRole(_ context.Context, roleID uuid.UUID) (int64, error) {
	return f.counts[roleID], nil
}

func TestDeleteRoleInUse(t *testing.T) {
	repo := newFakeRBACRepo()
	roleID := uuid.New()
	repo.roles[roleID] = &model.Role{Name: "Receptionist"}

	svc := NewService(repo, &fakeUserCounter{counts: map[uuid.UUID]int64{roleID: 3}})

	err := svc.DeleteRole(context.Background(), roleID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assigned to 3 user(s)")
	assert.Contains(t, repo.roles, roleID, "role must survive a refused delete")
}

func TestDeleteRoleUnused(t *testing.T) {
	repo := newFakeRBACRepo()
	roleID := uuid.New()
	repo.roles[roleID] = &model.Role{Name: "Obsolete"}

	svc := NewService(repo, &fakeUserCounter{counts: map[uuid.UUID]int64{}})

	require.NoError(t, svc.DeleteRole(context.Background(), roleID))
	assert.NotContains(t, repo.roles, roleID)
}

func TestCreateModuleOperationDuplicatePair(t *testing.T) {
	repo := newFakeRBACRepo()
	svc := NewService(repo, &fakeUserCounter{})
	ctx := context.Background()

	moduleID, operationID := uuid.New(), uuid.New()
	first := &model.ModuleOperation{ModuleID: moduleID, OperationID: operationID}
	require.NoError(t, svc.CreateModuleOperation(ctx, first))

	dup := &model.ModuleOperation{ModuleID: moduleID, OperationID: operationID}
	err := svc.CreateModuleOperation(ctx, dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAssignPermission(t *testing.T) {
	repo := newFakeRBACRepo()
	svc := NewService(repo, &fakeUserCounter{})
	ctx := context.Background()

	roleID := uuid.New()
	repo.roles[roleID] = &model.Role{Name: "Receptionist"}
	moID := uuid.New()
	repo.moduleOperations[moID] = &model.ModuleOperation{}

	require.NoError(t, svc.AssignPermission(ctx, roleID, moID))

	err := svc.AssignPermission(ctx, roleID, moID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already assigned")

	err = svc.AssignPermission(ctx, uuid.New(), moID)
	assert.True(t, apperrors.IsNotFound(err), "unknown role is rejected")

	err = svc.AssignPermission(ctx, roleID, uuid.New())
	assert.True(t, apperrors.IsNotFound(err), "unknown module operation is rejected")
}

func TestGetPermissionSet(t *testing.T) {
	repo := newFakeRBACRepo()
	roleID := uuid.New()
	repo.permissionSets[roleID] = []*model.ModuleOperationDetail{
		{ModuleName: "Appointment Management", OperationName: "Read"},
		{ModuleName: "Appointment Management", OperationName: "Create"},
	}
	svc := NewService(repo, &fakeUserCounter{})

	set, err := svc.GetPermissionSet(context.Background(), roleID)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.True(t, set.Holds("Appointment Management", "Read"))
	assert.True(t, set.Holds("Appointment Management", "Create"))
	assert.False(t, set.Holds("Patient Management", "Read"))

	empty, err := svc.GetPermissionSet(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
