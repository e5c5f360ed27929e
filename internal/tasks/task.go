// Package tasks implements project tasks, their column ordering and
// dependencies, and the Kanban and Gantt projections over them.
package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses, in board column order.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []string{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// Task is a unit of work within a project.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	ReporterID  uuid.UUID  `json:"reporter_id"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Progress    int        `json:"progress"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Dependency records that TaskID cannot finish before DependsOnID.
type Dependency struct {
	TaskID      uuid.UUID `json:"task_id"`
	DependsOnID uuid.UUID `json:"depends_on_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to create a task. The reporter is the
// caller. Status defaults to todo and Priority to medium.
type CreateCommand struct {
	ProjectID   uuid.UUID  `json:"project_id" validate:"required"`
	Title       string     `json:"title" validate:"required,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress review done"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Progress    int        `json:"progress" validate:"min=0,max=100"`
}

// UpdateCommand replaces a task's editable fields. Status and position change
// through Move.
type UpdateCommand struct {
	Title       string     `json:"title" validate:"required,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Priority    string     `json:"priority" validate:"required,oneof=low medium high urgent"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Progress    int        `json:"progress" validate:"min=0,max=100"`
}

// MoveCommand places a task at Position within the Status column.
// Positions past the end of the column are clamped.
type MoveCommand struct {
	Status   string `json:"status" validate:"required,oneof=todo in_progress review done"`
	Position int    `json:"position" validate:"min=0"`
}

// DependencyCommand names the task the path task depends on.
type DependencyCommand struct {
	DependsOnID uuid.UUID `json:"depends_on_id" validate:"required"`
}

func validateDates(start, due *time.Time) error {
	if start != nil && due != nil && due.Before(*start) {
		return ErrInvalidDates
	}
	return nil
}

// shouldNotify reports whether an assignment change warrants a task.assigned
// event: the new assignee is set, differs from the previous one, and is not
// the actor assigning the task to themselves.
func shouldNotify(previous, next *uuid.UUID, actor uuid.UUID) bool {
	if next == nil || *next == actor {
		return false
	}
	return previous == nil || *previous != *next
}
