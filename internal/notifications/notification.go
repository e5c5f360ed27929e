// Package notifications stores per-user notifications produced from domain
// events and serves them to their owners.
package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Resource types a notification can point at.
const (
	ResourceTask   = "task"
	ResourceTicket = "ticket"
)

// Notification is a message addressed to a single user.
type Notification struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Kind         string     `json:"kind"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	ResourceType string     `json:"resource_type"`
	ResourceID   uuid.UUID  `json:"resource_id"`
	ReadAt       *time.Time `json:"read_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateCommand carries a notification produced from an event.
type CreateCommand struct {
	UserID       uuid.UUID
	Kind         string
	Title        string
	Body         string
	ResourceType string
	ResourceID   uuid.UUID
}

// UnreadCount is the number of unread notifications for a user.
type UnreadCount struct {
	Unread int `json:"unread"`
}

// MarkAllResult reports how many notifications MarkAllRead changed.
type MarkAllResult struct {
	Updated int `json:"updated"`
}
