package notifications

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a notification repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "notifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, user uuid.UUID, page pagination.PageRequest, unread bool) (*pagination.PageResult[Notification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Body").
		WhereEquals("UserID", user)

	if unread {
		qb.Where("n.read_at IS NULL")
	}

	if err := qb.OrderByFields(page.Sort); err != nil {
		return nil, err
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryScalar[int](ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) UnreadCount(ctx context.Context, user uuid.UUID) (int, error) {
	n, err := repository.QueryScalar[int](ctx, r.db,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL", user,
	)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead stamps read_at once; repeated calls leave the first timestamp.
func (r *repo) MarkRead(ctx context.Context, user, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, `
			UPDATE notifications
			SET read_at = COALESCE(read_at, now())
			WHERE id = $1 AND user_id = $2`,
			id, user,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) MarkAllRead(ctx context.Context, user uuid.UUID) (int, error) {
	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		affected, err := repository.ExecCount(ctx, tx,
			"UPDATE notifications SET read_at = now() WHERE user_id = $1 AND read_at IS NULL", user)
		return int(affected), err
	})

	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}

	r.logger.Info("notifications marked read", "user_id", user, "count", n)
	return n, nil
}

func (r *repo) Delete(ctx context.Context, user, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx,
			"DELETE FROM notifications WHERE id = $1 AND user_id = $2", id, user)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Notification, error) {
	q := `
		INSERT INTO notifications(user_id, kind, title, body, resource_type, resource_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + returningColumns

	args := []any{cmd.UserID, cmd.Kind, cmd.Title, cmd.Body, cmd.ResourceType, cmd.ResourceID}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Notification, error) {
		return repository.QueryOne(ctx, tx, q, args, scanNotification)
	})

	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return &n, nil
}
