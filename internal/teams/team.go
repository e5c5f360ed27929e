// Package teams implements teams and their membership.
package teams

import (
	"time"

	"github.com/google/uuid"
)

// Team groups users, optionally within a department and under a lead.
type Team struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	DepartmentID *uuid.UUID `json:"department_id"`
	LeadID       *uuid.UUID `json:"lead_id"`
	MemberCount  int        `json:"member_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Member is a user's membership in a team.
type Member struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"added_at"`
}

// CreateCommand carries the data needed to create a team.
type CreateCommand struct {
	Name         string     `json:"name" validate:"required,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=2000"`
	DepartmentID *uuid.UUID `json:"department_id"`
	LeadID       *uuid.UUID `json:"lead_id"`
}

// UpdateCommand replaces a team's fields.
type UpdateCommand = CreateCommand

// AddMemberCommand names the user to add to a team.
type AddMemberCommand struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}
