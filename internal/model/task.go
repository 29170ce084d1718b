package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

// Board columns, in display order.
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// ValidTaskStatus reports whether s names a board column.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

// Task is one kanban card. Position orders cards within a column;
// positions are dense (0..n-1) per (clinic_id, status).
type Task struct {
	Base
	ClinicID    uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      TaskStatus `db:"status" json:"status"`
	Position    int        `db:"position" json:"position"`
	AssigneeID  *uuid.UUID `db:"assignee_id" json:"assignee_id,omitempty"`
	CreatedBy   uuid.UUID  `db:"created_by" json:"created_by"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
}

type CreateTaskRequest struct {
	ClinicID    string     `json:"clinic_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	AssigneeID  *string    `json:"assignee_id" binding:"omitempty,uuid"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	AssigneeID  *string    `json:"assignee_id" binding:"omitempty,uuid"`
	DueDate     *time.Time `json:"due_date"`
}

// MoveTaskRequest relocates a card to a column and position on the board.
type MoveTaskRequest struct {
	Status   TaskStatus `json:"status" binding:"required,oneof=todo in_progress review done"`
	Position int        `json:"position" binding:"min=0"`
}

type TaskFilters struct {
	ClinicID   uuid.UUID
	Status     TaskStatus
	AssigneeID uuid.UUID
}
