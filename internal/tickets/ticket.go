// Package tickets implements service requests submitted against catalog
// items and their walk through the item's sequential approval chain.
package tickets

import (
	"time"

	"github.com/google/uuid"
)

// Ticket statuses.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Approval decisions.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Ticket is a request for a catalog item. Approvers is the item's approval
// chain captured at submission; CurrentStep indexes the pending approver.
type Ticket struct {
	ID              uuid.UUID      `json:"id"`
	Number          int64          `json:"number"`
	CatalogItemID   uuid.UUID      `json:"catalog_item_id"`
	RequesterID     uuid.UUID      `json:"requester_id"`
	Title           string         `json:"title"`
	FormData        map[string]any `json:"form_data"`
	Approvers       []uuid.UUID    `json:"approvers"`
	CurrentStep     int            `json:"current_step"`
	CurrentApprover *uuid.UUID     `json:"current_approver_id"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	ClosedAt        *time.Time     `json:"closed_at"`
}

// Approval is a recorded decision on one step of a ticket's chain.
type Approval struct {
	ID         uuid.UUID `json:"id"`
	TicketID   uuid.UUID `json:"ticket_id"`
	Step       int       `json:"step"`
	ApproverID uuid.UUID `json:"approver_id"`
	Decision   string    `json:"decision"`
	Comment    *string   `json:"comment"`
	DecidedAt  time.Time `json:"decided_at"`
}

// Detail is a ticket with its approval history.
type Detail struct {
	Ticket
	Approvals []Approval `json:"approvals"`
}

// SubmitCommand carries a request against a catalog item.
type SubmitCommand struct {
	CatalogItemID uuid.UUID      `json:"catalog_item_id" validate:"required"`
	Title         string         `json:"title" validate:"required,max=300"`
	FormData      map[string]any `json:"form_data"`
}

// DecisionCommand carries an approver's optional comment.
type DecisionCommand struct {
	Comment string `json:"comment" validate:"max=2000"`
}

// currentApprover returns the approver at the ticket's current step while it
// is pending.
func (t Ticket) currentApprover() (uuid.UUID, bool) {
	if t.Status != StatusPending || t.CurrentStep < 0 || t.CurrentStep >= len(t.Approvers) {
		return uuid.Nil, false
	}
	return t.Approvers[t.CurrentStep], true
}
