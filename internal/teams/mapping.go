package teams

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "teams", "t").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("department_id", "DepartmentID").
	Project("lead_id", "LeadID").
	ProjectExpr("(SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.id)", "MemberCount").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

var memberProjection = query.
	NewProjectionMap("public", "team_members", "tm").
	Project("team_id", "TeamID").
	Project("added_at", "AddedAt").
	Join("public", "users", "u", "JOIN", "u.id = tm.user_id").
	Project("id", "UserID").
	Project("email", "Email").
	Project("name", "Name").
	Project("role", "Role")

// Filters contains optional filtering criteria for team queries.
type Filters struct {
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	LeadID       *uuid.UUID `json:"lead_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DepartmentID", f.DepartmentID).
		WhereEquals("LeadID", f.LeadID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("department_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DepartmentID = &id
		}
	}

	if l := values.Get("lead_id"); l != "" {
		if id, err := uuid.Parse(l); err == nil {
			f.LeadID = &id
		}
	}

	return f
}

func scanTeam(s repository.Scanner) (Team, error) {
	var t Team
	err := s.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.DepartmentID,
		&t.LeadID,
		&t.MemberCount,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func scanMember(s repository.Scanner) (Member, error) {
	var (
		m      Member
		teamID uuid.UUID
	)
	err := s.Scan(&teamID, &m.AddedAt, &m.UserID, &m.Email, &m.Name, &m.Role)
	return m, err
}
