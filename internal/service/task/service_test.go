package task

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

type fakeTaskRepo struct {
	repository.TaskRepository
	tasks map[uuid.UUID]*model.Task
	moved []*model.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*model.Task)}
}

func (f *fakeTaskRepo) Create(_ context.Context, t *model.Task) error {
	t.ID = uuid.New()
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeTaskRepo) Get(_ context.Context, id uuid.UUID) (*model.Task, error) {
	if t, ok := f.tasks[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, apperrors.NewNotFound("task", nil)
}

func (f *fakeTaskRepo) NextPosition(_ context.Context, clinicID uuid.UUID, status model.TaskStatus) (int, error) {
	next := 0
	for _, t := range f.tasks {
		if t.ClinicID == clinicID && t.Status == status && t.Position >= next {
			next = t.Position + 1
		}
	}
	return next, nil
}

func (f *fakeTaskRepo) Move(_ context.Context, t *model.Task, status model.TaskStatus, position int) error {
	stored := f.tasks[t.ID]
	stored.Status = status
	stored.Position = position
	t.Status = status
	t.Position = position
	f.moved = append(f.moved, stored)
	return nil
}

func TestCreateAppendsToTodo(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo)
	ctx := context.Background()
	clinicID := uuid.New()
	createdBy := uuid.New()

	first, err := svc.Create(ctx, &model.CreateTaskRequest{ClinicID: clinicID.String(), Title: "Order supplies"}, createdBy)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusTodo, first.Status)
	assert.Equal(t, 0, first.Position)

	second, err := svc.Create(ctx, &model.CreateTaskRequest{ClinicID: clinicID.String(), Title: "Call back patient"}, createdBy)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position, "new cards land at the bottom of todo")
	assert.Equal(t, createdBy, second.CreatedBy)
}

func TestMoveAcrossColumns(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo)
	ctx := context.Background()
	clinicID := uuid.New()

	card, err := svc.Create(ctx, &model.CreateTaskRequest{ClinicID: clinicID.String(), Title: "Review labs"}, uuid.New())
	require.NoError(t, err)

	moved, err := svc.Move(ctx, card.ID, &model.MoveTaskRequest{Status: model.TaskStatusInProgress, Position: 0})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, moved.Status)
	assert.Equal(t, 0, moved.Position)
}

func TestMoveClampsPosition(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo)
	ctx := context.Background()
	clinicID := uuid.New()

	card, err := svc.Create(ctx, &model.CreateTaskRequest{ClinicID: clinicID.String(), Title: "File paperwork"}, uuid.New())
	require.NoError(t, err)

	// The in_progress column is empty, so any large position clamps to 0.
	moved, err := svc.Move(ctx, card.ID, &model.MoveTaskRequest{Status: model.TaskStatusInProgress, Position: 99})
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Position)
}

func TestMoveNoOp(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo)
	ctx := context.Background()
	clinicID := uuid.New()

	card, err := svc.Create(ctx, &model.CreateTaskRequest{ClinicID: clinicID.String(), Title: "Restock"}, uuid.New())
	require.NoError(t, err)

	_, err = svc.Move(ctx, card.ID, &model.MoveTaskRequest{Status: model.TaskStatusTodo, Position: card.Position})
	require.NoError(t, err)
	assert.Empty(t, repo.moved, "moving a card onto itself does nothing")
}

func TestMoveValidation(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Move(ctx, uuid.New(), &model.MoveTaskRequest{Status: "archived", Position: 0})
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = svc.Move(ctx, uuid.New(), &model.MoveTaskRequest{Status: model.TaskStatusDone, Position: -1})
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = svc.Move(ctx, uuid.New(), &model.MoveTaskRequest{Status: model.TaskStatusDone, Position: 0})
	assert.True(t, apperrors.IsNotFound(err))
}
