package tickets

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/events"
	"github.com/JaimeStill/steward/pkg/principal"
)

// outcome is the state a ticket moves to and the event announcing it.
type outcome struct {
	Status    string
	Step      int
	Closed    bool
	Topic     string
	Recipient uuid.UUID
}

// submitted returns the initial state of a ticket with the given chain. An
// empty chain approves the ticket immediately.
func submitted(requester uuid.UUID, approvers []uuid.UUID) outcome {
	if len(approvers) == 0 {
		return outcome{
			Status:    StatusApproved,
			Closed:    true,
			Topic:     events.TopicTicketApproved,
			Recipient: requester,
		}
	}
	return outcome{
		Status:    StatusPending,
		Topic:     events.TopicTicketSubmitted,
		Recipient: approvers[0],
	}
}

// decide applies an approver's decision to a pending ticket. Only the
// approver at the current step or an admin may decide.
func decide(t Ticket, actor principal.Principal, decision string) (outcome, error) {
	if decision != DecisionApproved && decision != DecisionRejected {
		return outcome{}, ErrInvalidAction
	}

	if t.Status != StatusPending {
		return outcome{}, ErrNotPending
	}

	approver, ok := t.currentApprover()
	if !ok {
		return outcome{}, ErrNotPending
	}

	if approver != actor.UserID && !actor.IsAdmin() {
		return outcome{}, ErrNotApprover
	}

	if decision == DecisionRejected {
		return outcome{
			Status:    StatusRejected,
			Step:      t.CurrentStep,
			Closed:    true,
			Topic:     events.TopicTicketRejected,
			Recipient: t.RequesterID,
		}, nil
	}

	next := t.CurrentStep + 1
	if next >= len(t.Approvers) {
		return outcome{
			Status:    StatusApproved,
			Step:      next,
			Closed:    true,
			Topic:     events.TopicTicketApproved,
			Recipient: t.RequesterID,
		}, nil
	}

	return outcome{
		Status:    StatusPending,
		Step:      next,
		Topic:     events.TopicTicketAdvanced,
		Recipient: t.Approvers[next],
	}, nil
}

// cancel withdraws a pending ticket. Only the requester or an admin may
// cancel; the pending approver is told.
func cancel(t Ticket, actor principal.Principal) (outcome, error) {
	if t.Status != StatusPending {
		return outcome{}, ErrNotPending
	}

	if t.RequesterID != actor.UserID && !actor.IsAdmin() {
		return outcome{}, ErrNotRequester
	}

	recipient, ok := t.currentApprover()
	if !ok {
		recipient = t.RequesterID
	}

	return outcome{
		Status:    StatusCancelled,
		Step:      t.CurrentStep,
		Closed:    true,
		Topic:     events.TopicTicketCancelled,
		Recipient: recipient,
	}, nil
}
