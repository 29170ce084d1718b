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

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, clinic_id, title, description, status, position, assignee_id, created_by, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	task.ID = uuid.New()
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.ClinicID,
		task.Title,
		task.Description,
		task.Status,
		task.Position,
		task.AssigneeID,
		task.CreatedBy,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *taskRepository) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	query := `
		SELECT id, clinic_id, title, description, status, position, assignee_id, created_by, due_date, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND deleted_at IS NULL
	`
	var task model.Task
	err := r.db.GetContext(ctx, &task, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("task", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, assignee_id = $3, due_date = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	task.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.AssigneeID,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("task", nil)
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var task model.Task
	err = tx.GetContext(ctx, &task, `
		SELECT id, clinic_id, status, position FROM tasks
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFound("task", err)
	}
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET deleted_at = $1, updated_at = $1 WHERE id = $2
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	// Close the gap so positions stay dense within the column.
	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET position = position - 1, updated_at = $1
		WHERE clinic_id = $2 AND status = $3 AND position > $4 AND deleted_at IS NULL
	`, time.Now(), task.ClinicID, task.Status, task.Position)
	if err != nil {
		return fmt.Errorf("failed to compact task positions: %w", err)
	}

	return tx.Commit()
}

func (r *taskRepository) List(ctx context.Context, filters *model.TaskFilters) ([]*model.Task, error) {
	query := `
		SELECT id, clinic_id, title, description, status, position, assignee_id, created_by, due_date, created_at, updated_at
		FROM tasks
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}
	argIdx := 1

	if filters != nil {
		if filters.ClinicID != uuid.Nil {
			query += fmt.Sprintf(" AND clinic_id = $%d", argIdx)
			args = append(args, filters.ClinicID)
			argIdx++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argIdx)
			args = append(args, filters.Status)
			argIdx++
		}
		if filters.AssigneeID != uuid.Nil {
			query += fmt.Sprintf(" AND assignee_id = $%d", argIdx)
			args = append(args, filters.AssigneeID)
			argIdx++
		}
	}
	query += " ORDER BY status, position"

	var tasks []*model.Task
	err := r.db.SelectContext(ctx, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) NextPosition(ctx context.Context, clinicID uuid.UUID, status model.TaskStatus) (int, error) {
	query := `
		SELECT COALESCE(MAX(position) + 1, 0) FROM tasks
		WHERE clinic_id = $1 AND status = $2 AND deleted_at IS NULL
	`
	var position int
	err := r.db.GetContext(ctx, &position, query, clinicID, status)
	if err != nil {
		return 0, fmt.Errorf("failed to get next task position: %w", err)
	}
	return position, nil
}

// Move relocates a card to (status, position), shifting neighbours so
// positions stay dense in both the source and destination columns.
func (r *taskRepository) Move(ctx context.Context, task *model.Task, status model.TaskStatus, position int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	if task.Status == status {
		// Same column: shift the cards between the old and new slots.
		if position > task.Position {
			_, err = tx.ExecContext(ctx, `
				UPDATE tasks SET position = position - 1, updated_at = $1
				WHERE clinic_id = $2 AND status = $3 AND position > $4 AND position <= $5 AND deleted_at IS NULL
			`, now, task.ClinicID, status, task.Position, position)
		} else if position < task.Position {
			_, err = tx.ExecContext(ctx, `
				UPDATE tasks SET position = position + 1, updated_at = $1
				WHERE clinic_id = $2 AND status = $3 AND position >= $4 AND position < $5 AND deleted_at IS NULL
			`, now, task.ClinicID, status, position, task.Position)
		}
		if err != nil {
			return fmt.Errorf("failed to shift task positions: %w", err)
		}
	} else {
		// Cross-column: close the gap in the source, open one in the destination.
		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET position = position - 1, updated_at = $1
			WHERE clinic_id = $2 AND status = $3 AND position > $4 AND deleted_at IS NULL
		`, now, task.ClinicID, task.Status, task.Position)
		if err != nil {
			return fmt.Errorf("failed to compact source column: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET position = position + 1, updated_at = $1
			WHERE clinic_id = $2 AND status = $3 AND position >= $4 AND deleted_at IS NULL
		`, now, task.ClinicID, status, position)
		if err != nil {
			return fmt.Errorf("failed to open destination slot: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET status = $1, position = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`, status, position, now, task.ID)
	if err != nil {
		return fmt.Errorf("failed to move task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("task", nil)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task move: %w", err)
	}

	task.Status = status
	task.Position = position
	task.UpdatedAt = now
	return nil
}
