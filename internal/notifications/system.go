package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for notification operations. Every
// read and write is scoped to the owning user.
type System interface {
	Handler() *Handler

	List(ctx context.Context, user uuid.UUID, page pagination.PageRequest, unread bool) (*pagination.PageResult[Notification], error)
	UnreadCount(ctx context.Context, user uuid.UUID) (int, error)
	MarkRead(ctx context.Context, user, id uuid.UUID) error
	MarkAllRead(ctx context.Context, user uuid.UUID) (int, error)
	Delete(ctx context.Context, user, id uuid.UUID) error
	Create(ctx context.Context, cmd CreateCommand) (*Notification, error)
}
