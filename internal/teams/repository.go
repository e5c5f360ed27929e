package teams

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

// New creates a team repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "teams"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Team], error) {
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
		return nil, fmt.Errorf("count teams: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	teams, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTeam)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}

	result := pagination.NewPageResult(teams, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Team, error) {
	t, err := findTeam(ctx, r.db, id)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Team, error) {
	q := `
		INSERT INTO teams(name, description, department_id, lead_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Team, error) {
		var id uuid.UUID
		args := []any{cmd.Name, cmd.Description, cmd.DepartmentID, cmd.LeadID}
		if err := tx.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
			return Team{}, err
		}
		return findTeam(ctx, tx, id)
	})

	if err != nil {
		return nil, r.mapWriteError(err)
	}

	r.logger.Info("team created", "id", t.ID, "name", t.Name)
	return &t, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Team, error) {
	q := `
		UPDATE teams
		SET name = $1, description = $2, department_id = $3, lead_id = $4, updated_at = now()
		WHERE id = $5`

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Team, error) {
		args := []any{cmd.Name, cmd.Description, cmd.DepartmentID, cmd.LeadID, id}
		if err := repository.ExecExpectOne(ctx, tx, q, args...); err != nil {
			return Team{}, err
		}
		return findTeam(ctx, tx, id)
	})

	if err != nil {
		return nil, r.mapWriteError(err)
	}

	r.logger.Info("team updated", "id", t.ID, "name", t.Name)
	return &t, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM teams WHERE id = $1", id)
	})

	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("team deleted", "id", id)
	return nil
}

func (r *repo) Members(ctx context.Context, id uuid.UUID) ([]Member, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(memberProjection, query.SortField{Field: "Name"}).
		WhereEquals("TeamID", id).
		Build()

	members, err := repository.QueryMany(ctx, r.db, q, args, scanMember)
	if err != nil {
		return nil, fmt.Errorf("query team members: %w", err)
	}
	return members, nil
}

func (r *repo) AddMember(ctx context.Context, id, userID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := teamExists(ctx, tx, id); err != nil {
			return struct{}{}, err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO team_members(team_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (team_id, user_id) DO NOTHING`,
			id, userID,
		)
		return struct{}{}, err
	})

	if err != nil {
		return r.mapWriteError(err)
	}

	r.logger.Info("team member added", "team_id", id, "user_id", userID)
	return nil
}

func (r *repo) RemoveMember(ctx context.Context, id, userID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM team_members WHERE team_id = $1 AND user_id = $2",
			id, userID,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotMember, ErrDuplicate)
	}

	r.logger.Info("team member removed", "team_id", id, "user_id", userID)
	return nil
}

func (r *repo) mapWriteError(err error) error {
	if repository.IsForeignKeyViolation(err) {
		return ErrInvalidReference
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func findTeam(ctx context.Context, q repository.Querier, id uuid.UUID) (Team, error) {
	stmt, args := query.NewBuilder(projection).BuildSingle("ID", id)
	return repository.QueryOne(ctx, q, stmt, args, scanTeam)
}

func teamExists(ctx context.Context, q repository.Querier, id uuid.UUID) error {
	exists, err := repository.Exists(ctx, q, "teams", id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}
