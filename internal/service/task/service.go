package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

type Service struct {
	repo repository.TaskRepository
}

func NewService(repo repository.TaskRepository) *Service {
	return &Service{repo: repo}
}

// Create adds a card to the bottom of the todo column.
func (s *Service) Create(ctx context.Context, req *model.CreateTaskRequest, createdBy uuid.UUID) (*model.Task, error) {
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		return nil, apperrors.NewInvalidArgument("malformed clinic id")
	}

	position, err := s.repo.NextPosition(ctx, clinicID, model.TaskStatusTodo)
	if err != nil {
		return nil, fmt.Errorf("failed to get next position: %w", err)
	}

	task := &model.Task{
		ClinicID:    clinicID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatusTodo,
		Position:    position,
		CreatedBy:   createdBy,
		DueDate:     req.DueDate,
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return nil, apperrors.NewInvalidArgument("malformed assignee id")
		}
		task.AssigneeID = &assigneeID
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return nil, apperrors.NewInvalidArgument("malformed assignee id")
		}
		task.AssigneeID = &assigneeID
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.TaskFilters) ([]*model.Task, error) {
	return s.repo.List(ctx, filters)
}

// Move relocates a card to a column and position. Positions past the end
// of the destination column clamp to the bottom.
func (s *Service) Move(ctx context.Context, id uuid.UUID, req *model.MoveTaskRequest) (*model.Task, error) {
	if !model.ValidTaskStatus(req.Status) {
		return nil, apperrors.NewInvalidArgument(fmt.Sprintf("unknown board column %q", req.Status))
	}
	if req.Position < 0 {
		return nil, apperrors.NewInvalidArgument("position must not be negative")
	}

	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	position := req.Position
	max, err := s.repo.NextPosition(ctx, task.ClinicID, req.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to get column size: %w", err)
	}
	if task.Status == req.Status {
		// The card itself occupies a slot in the destination column.
		max--
	}
	if position > max {
		position = max
	}

	if task.Status == req.Status && task.Position == position {
		return task, nil
	}

	if err := s.repo.Move(ctx, task, req.Status, position); err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}
	return task, nil
}
