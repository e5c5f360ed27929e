// Package projects implements projects and their aggregate summaries.
package projects

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses.
const (
	StatusPlanned   = "planned"
	StatusActive    = "active"
	StatusOnHold    = "on_hold"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Project is a unit of planned work owned by a user.
type Project struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Status       string     `json:"status"`
	DepartmentID *uuid.UUID `json:"department_id"`
	TeamID       *uuid.UUID `json:"team_id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateCommand carries the data needed to create a project.
// OwnerID defaults to the caller and Status to planned.
type CreateCommand struct {
	Name         string     `json:"name" validate:"required,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=5000"`
	Status       string     `json:"status" validate:"omitempty,oneof=planned active on_hold completed archived"`
	DepartmentID *uuid.UUID `json:"department_id"`
	TeamID       *uuid.UUID `json:"team_id"`
	OwnerID      *uuid.UUID `json:"owner_id"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

// UpdateCommand replaces a project's fields.
type UpdateCommand struct {
	Name         string     `json:"name" validate:"required,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=5000"`
	Status       string     `json:"status" validate:"required,oneof=planned active on_hold completed archived"`
	DepartmentID *uuid.UUID `json:"department_id"`
	TeamID       *uuid.UUID `json:"team_id"`
	OwnerID      uuid.UUID  `json:"owner_id" validate:"required"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

// Summary aggregates task progress for a project.
type Summary struct {
	ProjectID         uuid.UUID      `json:"project_id"`
	TasksByStatus     map[string]int `json:"tasks_by_status"`
	TotalTasks        int            `json:"total_tasks"`
	OverdueTasks      int            `json:"overdue_tasks"`
	CompletionPercent float64        `json:"completion_percent"`
	TeamMemberCount   int            `json:"team_member_count"`
}

var taskStatuses = []string{"todo", "in_progress", "review", "done"}

func newSummary(id uuid.UUID, counts map[string]int, overdue, members int) Summary {
	s := Summary{
		ProjectID:       id,
		TasksByStatus:   make(map[string]int, len(taskStatuses)),
		OverdueTasks:    overdue,
		TeamMemberCount: members,
	}

	for _, status := range taskStatuses {
		s.TasksByStatus[status] = counts[status]
		s.TotalTasks += counts[status]
	}

	if s.TotalTasks > 0 {
		pct := float64(counts["done"]) * 100 / float64(s.TotalTasks)
		s.CompletionPercent = float64(int(pct*10+0.5)) / 10
	}

	return s
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDates
	}
	return nil
}
