package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for catalog domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Item], error)
	Find(ctx context.Context, id uuid.UUID) (*Item, error)
	Create(ctx context.Context, cmd CreateCommand) (*Item, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]string, error)
}
