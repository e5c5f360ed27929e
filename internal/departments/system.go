package departments

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for department domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Department], error)
	Find(ctx context.Context, id uuid.UUID) (*Department, error)
	Create(ctx context.Context, cmd CreateCommand) (*Department, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
