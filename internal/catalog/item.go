// Package catalog implements the service catalog: requestable items, each
// with a dynamic request form and an ordered approval chain.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Item is a requestable service in the catalog.
type Item struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Category    string      `json:"category"`
	Form        Form        `json:"form"`
	Approvers   []uuid.UUID `json:"approvers"`
	Active      bool        `json:"active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateCommand carries the data needed to create a catalog item. A nil Form
// stores no definition and the item serves DefaultForm.
type CreateCommand struct {
	Name        string      `json:"name" validate:"required,max=200"`
	Description *string     `json:"description" validate:"omitempty,max=5000"`
	Category    string      `json:"category" validate:"required,max=100"`
	Form        *Form       `json:"form"`
	Approvers   []uuid.UUID `json:"approvers"`
	Active      *bool       `json:"active"`
}

// UpdateCommand replaces a catalog item's fields.
type UpdateCommand struct {
	Name        string      `json:"name" validate:"required,max=200"`
	Description *string     `json:"description" validate:"omitempty,max=5000"`
	Category    string      `json:"category" validate:"required,max=100"`
	Form        *Form       `json:"form"`
	Approvers   []uuid.UUID `json:"approvers"`
	Active      bool        `json:"active"`
}

// checkApproverList rejects duplicate or nil approver ids.
func checkApproverList(approvers []uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(approvers))
	for _, id := range approvers {
		if id == uuid.Nil {
			return ErrInvalidApprovers
		}
		if seen[id] {
			return ErrInvalidApprovers
		}
		seen[id] = true
	}
	return nil
}
