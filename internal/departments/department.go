// Package departments implements the organizational department domain.
package departments

import (
	"time"

	"github.com/google/uuid"
)

// Department is an organizational unit that users, teams, and projects belong to.
type Department struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to create a department.
type CreateCommand struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateCommand replaces a department's fields.
type UpdateCommand = CreateCommand
