package catalog

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

// New creates a catalog repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "catalog"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Item], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if err := qb.OrderByFields(page.Sort); err != nil {
		return nil, err
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryScalar[int](ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count catalog items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Item, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	item, err := repository.QueryOne(ctx, r.db, q, args, scanItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &item, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Item, error) {
	form, approvers, err := prepare(cmd.Form, cmd.Approvers)
	if err != nil {
		return nil, err
	}

	active := true
	if cmd.Active != nil {
		active = *cmd.Active
	}

	q := `
		INSERT INTO catalog_items(name, description, category, form_config, approvers, active)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6)
		RETURNING ` + returningColumns

	args := []any{cmd.Name, cmd.Description, cmd.Category, form, approvers, active}

	item, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Item, error) {
		if err := checkApprovers(ctx, tx, cmd.Approvers); err != nil {
			return Item{}, err
		}
		return repository.QueryOne(ctx, tx, q, args, scanItem)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("catalog item created", "id", item.ID, "name", item.Name, "approvers", len(item.Approvers))
	return &item, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Item, error) {
	form, approvers, err := prepare(cmd.Form, cmd.Approvers)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE catalog_items
		SET name = $1, description = $2, category = $3, form_config = $4::jsonb,
			approvers = $5::jsonb, active = $6, updated_at = now()
		WHERE id = $7
		RETURNING ` + returningColumns

	args := []any{cmd.Name, cmd.Description, cmd.Category, form, approvers, cmd.Active, id}

	item, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Item, error) {
		if err := checkApprovers(ctx, tx, cmd.Approvers); err != nil {
			return Item{}, err
		}
		return repository.QueryOne(ctx, tx, q, args, scanItem)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("catalog item updated", "id", item.ID, "active", item.Active)
	return &item, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM catalog_items WHERE id = $1", id)
	})

	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("catalog item deleted", "id", id)
	return nil
}

func (r *repo) Categories(ctx context.Context) ([]string, error) {
	categories, err := repository.QueryMany(ctx, r.db,
		"SELECT DISTINCT category FROM catalog_items ORDER BY category",
		nil,
		func(s repository.Scanner) (string, error) {
			var c string
			err := s.Scan(&c)
			return c, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return categories, nil
}

// prepare validates and encodes the form and approver chain for storage.
func prepare(form *Form, approvers []uuid.UUID) (any, string, error) {
	if form != nil {
		if err := form.Validate(); err != nil {
			return nil, "", err
		}
	}

	if err := checkApproverList(approvers); err != nil {
		return nil, "", err
	}

	encodedForm, err := encodeForm(form)
	if err != nil {
		return nil, "", err
	}

	encodedApprovers, err := encodeApprovers(approvers)
	if err != nil {
		return nil, "", err
	}

	return encodedForm, encodedApprovers, nil
}

// checkApprovers verifies every approver is an existing active user.
func checkApprovers(ctx context.Context, tx *sql.Tx, approvers []uuid.UUID) error {
	if len(approvers) == 0 {
		return nil
	}

	ids := make([]string, len(approvers))
	for i, id := range approvers {
		ids[i] = id.String()
	}

	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE id = ANY($1::uuid[]) AND active",
		ids,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("check approvers: %w", err)
	}

	if n != len(approvers) {
		return ErrInvalidApprovers
	}
	return nil
}
