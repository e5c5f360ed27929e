package tasks

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

const returningColumns = `id, project_id, title, description, status, priority, assignee_id,
	reporter_id, start_date, due_date, progress, position, created_at, updated_at`

var projection = query.
	NewProjectionMap("public", "tasks", "t").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("title", "Title").
	Project("description", "Description").
	Project("status", "Status").
	Project("priority", "Priority").
	Project("assignee_id", "AssigneeID").
	Project("reporter_id", "ReporterID").
	Project("start_date", "StartDate").
	Project("due_date", "DueDate").
	Project("progress", "Progress").
	Project("position", "Position").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = []query.SortField{
	{Field: "Position"},
	{Field: "CreatedAt"},
}

// Filters contains optional filtering criteria for task queries.
type Filters struct {
	ProjectID  *uuid.UUID `json:"project_id,omitempty"`
	Status     *string    `json:"status,omitempty"`
	Priority   *string    `json:"priority,omitempty"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ProjectID", f.ProjectID).
		WhereEquals("Status", f.Status).
		WhereEquals("Priority", f.Priority).
		WhereEquals("AssigneeID", f.AssigneeID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	f.ProjectID = parseUUID(values.Get("project_id"))
	f.AssigneeID = parseUUID(values.Get("assignee_id"))

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if p := values.Get("priority"); p != "" {
		f.Priority = &p
	}

	return f
}

func parseUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func scanTask(s repository.Scanner) (Task, error) {
	var t Task
	err := s.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.AssigneeID,
		&t.ReporterID,
		&t.StartDate,
		&t.DueDate,
		&t.Progress,
		&t.Position,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func scanDependency(s repository.Scanner) (Dependency, error) {
	var d Dependency
	err := s.Scan(&d.TaskID, &d.DependsOnID, &d.CreatedAt)
	return d, err
}

func scanID(s repository.Scanner) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.Scan(&id)
	return id, err
}
