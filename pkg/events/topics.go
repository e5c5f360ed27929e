package events

import "github.com/google/uuid"

const (
	TopicTaskAssigned    = "task.assigned"
	TopicTicketSubmitted = "ticket.submitted"
	TopicTicketAdvanced  = "ticket.advanced"
	TopicTicketApproved  = "ticket.approved"
	TopicTicketRejected  = "ticket.rejected"
	TopicTicketCancelled = "ticket.cancelled"
)

// TicketTopics lists every ticket lifecycle topic.
var TicketTopics = []string{
	TopicTicketSubmitted,
	TopicTicketAdvanced,
	TopicTicketApproved,
	TopicTicketRejected,
	TopicTicketCancelled,
}

// TaskAssigned is published when a task gains a new assignee.
type TaskAssigned struct {
	TaskID     uuid.UUID `json:"task_id"`
	ProjectID  uuid.UUID `json:"project_id"`
	Title      string    `json:"title"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	ActorID    uuid.UUID `json:"actor_id"`
}

// TicketChanged is published on every ticket state transition.
// RecipientID is the user the event concerns: the pending approver for
// submitted, advanced, and cancelled; the requester otherwise.
type TicketChanged struct {
	TicketID    uuid.UUID `json:"ticket_id"`
	Number      int64     `json:"number"`
	Title       string    `json:"title"`
	RequesterID uuid.UUID `json:"requester_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	ActorID     uuid.UUID `json:"actor_id"`
	Comment     string    `json:"comment,omitempty"`
}
