package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/JaimeStill/steward/pkg/events"
	"github.com/JaimeStill/steward/pkg/metrics"
)

// Subscriber turns domain events into notifications. Failed deliveries are
// logged by the bus and not retried.
type Subscriber struct {
	sys    System
	logger *slog.Logger
}

// NewSubscriber creates a Subscriber that stores notifications through sys.
func NewSubscriber(sys System, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		sys:    sys,
		logger: logger.With("system", "notifications.subscriber"),
	}
}

// Register subscribes to every notifying topic. It must be called before
// the bus starts.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(events.TopicTaskAssigned, s.taskAssigned)
	for _, topic := range events.TicketTopics {
		bus.Subscribe(topic, s.ticketChanged(topic))
	}
}

func (s *Subscriber) taskAssigned(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[events.TaskAssigned](msg)
	if err != nil {
		return err
	}
	return s.deliver(ctx, fromTaskAssigned(evt))
}

func (s *Subscriber) ticketChanged(topic string) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[events.TicketChanged](msg)
		if err != nil {
			return err
		}
		return s.deliver(ctx, fromTicketChanged(topic, evt))
	}
}

func (s *Subscriber) deliver(ctx context.Context, cmd CreateCommand) error {
	n, err := s.sys.Create(ctx, cmd)
	if err != nil {
		return fmt.Errorf("deliver %s to %s: %w", cmd.Kind, cmd.UserID, err)
	}

	metrics.RecordNotification(cmd.Kind)
	s.logger.Info("notification delivered", "id", n.ID, "user_id", n.UserID, "kind", n.Kind)
	return nil
}

func fromTaskAssigned(evt events.TaskAssigned) CreateCommand {
	return CreateCommand{
		UserID:       evt.AssigneeID,
		Kind:         events.TopicTaskAssigned,
		Title:        "Task assigned: " + evt.Title,
		Body:         "You have been assigned a task.",
		ResourceType: ResourceTask,
		ResourceID:   evt.TaskID,
	}
}

func fromTicketChanged(topic string, evt events.TicketChanged) CreateCommand {
	ref := fmt.Sprintf("#%d %s", evt.Number, evt.Title)

	cmd := CreateCommand{
		UserID:       evt.RecipientID,
		Kind:         topic,
		ResourceType: ResourceTicket,
		ResourceID:   evt.TicketID,
	}

	switch topic {
	case events.TopicTicketSubmitted, events.TopicTicketAdvanced:
		cmd.Title = "Approval requested: " + ref
		cmd.Body = "A ticket is waiting for your decision."
	case events.TopicTicketApproved:
		cmd.Title = "Ticket approved: " + ref
		cmd.Body = "Your request has been approved."
	case events.TopicTicketRejected:
		cmd.Title = "Ticket rejected: " + ref
		cmd.Body = "Your request has been rejected."
	case events.TopicTicketCancelled:
		cmd.Title = "Ticket cancelled: " + ref
		cmd.Body = "A ticket awaiting your decision was cancelled."
	default:
		cmd.Title = "Ticket updated: " + ref
	}

	if evt.Comment != "" {
		cmd.Body += "\n\n" + evt.Comment
	}

	return cmd
}
