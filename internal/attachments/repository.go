package attachments

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/formatting"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
	"github.com/JaimeStill/steward/pkg/storage"
)

var resourceTables = map[string]string{
	ResourceProject: "projects",
	ResourceTask:    "tasks",
	ResourceTicket:  "tickets",
}

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an attachment repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "attachments"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Attachment], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "ContentType")

	filters.Apply(qb)

	if err := qb.OrderByFields(page.Sort); err != nil {
		return nil, err
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryScalar[int](ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count attachments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAttachment)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAttachment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Attachment, *storage.DownloadResult, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	blob, err := r.storage.Download(ctx, a.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("attachment blob missing", "id", a.ID, "key", a.StorageKey)
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("download attachment blob: %w", err)
	}

	return a, blob, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Attachment, error) {
	if err := r.resourceExists(ctx, cmd.ResourceType, cmd.ResourceID); err != nil {
		return nil, err
	}

	id := uuid.New()
	key := buildStorageKey(cmd.ResourceType, cmd.ResourceID, id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload attachment blob: %w", err)
	}

	q := `
		INSERT INTO attachments(id, resource_type, resource_id, filename, content_type, size_bytes, page_count, storage_key, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, resource_type, resource_id, filename, content_type, size_bytes, page_count, storage_key, uploaded_by, uploaded_at`

	insertArgs := []any{
		id,
		cmd.ResourceType,
		cmd.ResourceID,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		cmd.UploadedBy,
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Attachment, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanAttachment)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"attachment created",
		"id", a.ID,
		"resource_type", a.ResourceType,
		"resource_id", a.ResourceID,
		"filename", a.Filename,
		"size", formatting.FormatBytes(a.SizeBytes, 1),
	)
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, caller principal.Principal, id uuid.UUID) error {
	a, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if !canDelete(caller, a) {
		return ErrForbidden
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM attachments WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.Purge(ctx, []string{a.StorageKey})

	r.logger.Info("attachment deleted", "id", id, "actor", caller.UserID)
	return nil
}

func (r *repo) resourceExists(ctx context.Context, resourceType string, id uuid.UUID) error {
	table, ok := resourceTables[resourceType]
	if !ok {
		return ErrInvalidResourceType
	}

	exists, err := repository.Exists(ctx, r.db, table, id)
	if err != nil {
		return fmt.Errorf("check %s: %w", resourceType, err)
	}
	if !exists {
		return ErrResourceNotFound
	}
	return nil
}

func canDelete(caller principal.Principal, a *Attachment) bool {
	return caller.IsAdmin() || caller.UserID == a.UploadedBy
}

func buildStorageKey(resourceType string, resourceID, id uuid.UUID, filename string) string {
	return fmt.Sprintf("attachments/%s/%s/%s/%s", resourceType, resourceID, id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" || name == "/" {
		name = "attachment"
	}
	return url.PathEscape(name)
}
