package tasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for task domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Task], error)
	Find(ctx context.Context, id uuid.UUID) (*Task, error)
	Create(ctx context.Context, actor uuid.UUID, cmd CreateCommand) (*Task, error)
	Update(ctx context.Context, actor, id uuid.UUID, cmd UpdateCommand) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, id uuid.UUID, cmd MoveCommand) (*Task, error)

	Dependencies(ctx context.Context, id uuid.UUID) ([]Dependency, error)
	AddDependency(ctx context.Context, id, dependsOn uuid.UUID) error
	RemoveDependency(ctx context.Context, id, dependsOn uuid.UUID) error

	Board(ctx context.Context, projectID uuid.UUID) (*Board, error)
	Gantt(ctx context.Context, projectID uuid.UUID) (*Gantt, error)
}
