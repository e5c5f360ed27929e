package teams

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for team domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Team], error)
	Find(ctx context.Context, id uuid.UUID) (*Team, error)
	Create(ctx context.Context, cmd CreateCommand) (*Team, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Team, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Members(ctx context.Context, id uuid.UUID) ([]Member, error)
	AddMember(ctx context.Context, id, userID uuid.UUID) error
	RemoveMember(ctx context.Context, id, userID uuid.UUID) error
}
