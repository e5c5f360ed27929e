package projects

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/steward/internal/attachments"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

type repo struct {
	db          *sql.DB
	attachments attachments.Detacher
	logger      *slog.Logger
	pagination  pagination.Config
}

// New creates a project repository implementing the System interface.
// Deleting a project detaches the attachments of the project and its tasks.
func New(
	db *sql.DB,
	detacher attachments.Detacher,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:          db,
		attachments: detacher,
		logger:      logger.With("system", "projects"),
		pagination:  pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Project], error) {
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
		return nil, fmt.Errorf("count projects: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	projects, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProject)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}

	result := pagination.NewPageResult(projects, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Project, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, owner uuid.UUID, cmd CreateCommand) (*Project, error) {
	if err := validateDates(cmd.StartDate, cmd.EndDate); err != nil {
		return nil, err
	}

	status := cmd.Status
	if status == "" {
		status = StatusPlanned
	}
	if cmd.OwnerID != nil {
		owner = *cmd.OwnerID
	}

	q := `
		INSERT INTO projects(name, description, status, department_id, team_id, owner_id, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + returningColumns

	args := []any{
		cmd.Name, cmd.Description, status, cmd.DepartmentID,
		cmd.TeamID, owner, cmd.StartDate, cmd.EndDate,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, q, args, scanProject)
	})

	if err != nil {
		return nil, r.mapWriteError(err)
	}

	r.logger.Info("project created", "id", p.ID, "name", p.Name, "owner_id", p.OwnerID)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Project, error) {
	if err := validateDates(cmd.StartDate, cmd.EndDate); err != nil {
		return nil, err
	}

	q := `
		UPDATE projects
		SET name = $1, description = $2, status = $3, department_id = $4, team_id = $5,
			owner_id = $6, start_date = $7, end_date = $8, updated_at = now()
		WHERE id = $9
		RETURNING ` + returningColumns

	args := []any{
		cmd.Name, cmd.Description, cmd.Status, cmd.DepartmentID,
		cmd.TeamID, cmd.OwnerID, cmd.StartDate, cmd.EndDate, id,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, q, args, scanProject)
	})

	if err != nil {
		return nil, r.mapWriteError(err)
	}

	r.logger.Info("project updated", "id", p.ID, "status", p.Status)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	keys, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		keys, err := r.attachments.DetachProject(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if err := repository.ExecExpectOne(ctx, tx, "DELETE FROM projects WHERE id = $1", id); err != nil {
			return nil, err
		}
		return keys, nil
	})

	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.attachments.Purge(ctx, keys)

	r.logger.Info("project deleted", "id", id, "attachments", len(keys))
	return nil
}

// Summary runs the status, overdue, and membership aggregates concurrently.
func (r *repo) Summary(ctx context.Context, id uuid.UUID) (*Summary, error) {
	p, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		counts  = make(map[string]int)
		overdue int
		members int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := r.db.QueryContext(gctx,
			"SELECT status, COUNT(*) FROM tasks WHERE project_id = $1 GROUP BY status", id)
		if err != nil {
			return fmt.Errorf("count tasks by status: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				status string
				n      int
			)
			if err := rows.Scan(&status, &n); err != nil {
				return err
			}
			counts[status] = n
		}
		return rows.Err()
	})

	g.Go(func() error {
		err := r.db.QueryRowContext(gctx, `
			SELECT COUNT(*) FROM tasks
			WHERE project_id = $1 AND status <> 'done' AND due_date < CURRENT_DATE`,
			id,
		).Scan(&overdue)
		if err != nil {
			return fmt.Errorf("count overdue tasks: %w", err)
		}
		return nil
	})

	if p.TeamID != nil {
		g.Go(func() error {
			err := r.db.QueryRowContext(gctx,
				"SELECT COUNT(*) FROM team_members WHERE team_id = $1", *p.TeamID,
			).Scan(&members)
			if err != nil {
				return fmt.Errorf("count team members: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := newSummary(id, counts, overdue, members)
	return &s, nil
}

func (r *repo) mapWriteError(err error) error {
	if repository.IsForeignKeyViolation(err) {
		return ErrInvalidReference
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
