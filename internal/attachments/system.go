package attachments

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/storage"
)

// System defines the public contract for attachment operations.
type System interface {
	Detacher

	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Attachment], error)

	Find(ctx context.Context, id uuid.UUID) (*Attachment, error)
	// Download returns the attachment and an open blob stream. The caller
	// must close the stream.
	Download(ctx context.Context, id uuid.UUID) (*Attachment, *storage.DownloadResult, error)
	Create(ctx context.Context, cmd CreateCommand) (*Attachment, error)
	// Delete removes an attachment. Only the uploader or an administrator
	// may delete.
	Delete(ctx context.Context, caller principal.Principal, id uuid.UUID) error
}
