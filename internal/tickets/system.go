package tickets

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
)

// System defines the public contract for ticket domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, caller uuid.UUID, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Ticket], error)
	Pending(ctx context.Context, approver uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Ticket], error)
	Find(ctx context.Context, id uuid.UUID) (*Detail, error)
	Submit(ctx context.Context, requester uuid.UUID, cmd SubmitCommand) (*Ticket, error)
	Approve(ctx context.Context, actor principal.Principal, id uuid.UUID, cmd DecisionCommand) (*Ticket, error)
	Reject(ctx context.Context, actor principal.Principal, id uuid.UUID, cmd DecisionCommand) (*Ticket, error)
	Cancel(ctx context.Context, actor principal.Principal, id uuid.UUID) (*Ticket, error)
}
