package users

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

const returningColumns = "id, email, name, role, department_id, active, created_at, updated_at"

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("email", "Email").
	Project("name", "Name").
	Project("role", "Role").
	Project("department_id", "DepartmentID").
	Project("active", "Active").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for user queries.
type Filters struct {
	Role         *string    `json:"role,omitempty"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	Active       *bool      `json:"active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Role", f.Role).
		WhereEquals("DepartmentID", f.DepartmentID).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if r := values.Get("role"); r != "" {
		f.Role = &r
	}

	if d := values.Get("department_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DepartmentID = &id
		}
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Role,
		&u.DepartmentID,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
