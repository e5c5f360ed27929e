package projects

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

const returningColumns = `id, name, description, status, department_id, team_id, owner_id,
	start_date, end_date, created_at, updated_at`

var projection = query.
	NewProjectionMap("public", "projects", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("status", "Status").
	Project("department_id", "DepartmentID").
	Project("team_id", "TeamID").
	Project("owner_id", "OwnerID").
	Project("start_date", "StartDate").
	Project("end_date", "EndDate").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for project queries.
type Filters struct {
	Status       *string    `json:"status,omitempty"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	TeamID       *uuid.UUID `json:"team_id,omitempty"`
	OwnerID      *uuid.UUID `json:"owner_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("DepartmentID", f.DepartmentID).
		WhereEquals("TeamID", f.TeamID).
		WhereEquals("OwnerID", f.OwnerID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	f.DepartmentID = parseUUID(values.Get("department_id"))
	f.TeamID = parseUUID(values.Get("team_id"))
	f.OwnerID = parseUUID(values.Get("owner_id"))

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

func scanProject(s repository.Scanner) (Project, error) {
	var p Project
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.DepartmentID,
		&p.TeamID,
		&p.OwnerID,
		&p.StartDate,
		&p.EndDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
