package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
)

// System defines the public contract for user domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[User], error)
	Find(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, cmd CreateCommand) (*User, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*User, error)
	ChangePassword(ctx context.Context, actor principal.Principal, id uuid.UUID, cmd ChangePasswordCommand) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Authenticate verifies email and password for an active account.
	// Every failure returns ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// FindActiveByEmail resolves an externally authenticated identity.
	FindActiveByEmail(ctx context.Context, email string) (*User, error)

	// Bootstrap creates an admin account when no users exist.
	// It reports whether an account was created.
	Bootstrap(ctx context.Context, email, name, password string) (bool, error)
}
