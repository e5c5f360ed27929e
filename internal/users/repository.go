package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	cost       int
}

// New creates a user repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "users"),
		pagination: pagination,
		cost:       bcrypt.DefaultCost,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[User], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Email")

	filters.Apply(qb)

	if err := qb.OrderByFields(page.Sort); err != nil {
		return nil, err
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryScalar[int](ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	users, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanUser)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	result := pagination.NewPageResult(users, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*User, error) {
	hash, err := HashPassword(cmd.Password, r.cost)
	if err != nil {
		return nil, err
	}

	role := cmd.Role
	if role == "" {
		role = principal.RoleMember
	}

	q := `
		INSERT INTO users(email, name, role, department_id, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + returningColumns

	args := []any{normalizeEmail(cmd.Email), cmd.Name, role, cmd.DepartmentID, hash}

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		return repository.QueryOne(ctx, tx, q, args, scanUser)
	})

	if err != nil {
		return nil, r.mapWriteError(err)
	}

	r.logger.Info("user created", "id", u.ID, "email", u.Email, "role", u.Role)
	return &u, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*User, error) {
	q := `
		UPDATE users
		SET email = $1, name = $2, role = $3, department_id = $4, active = $5, updated_at = now()
		WHERE id = $6
		RETURNING ` + returningColumns

	args := []any{normalizeEmail(cmd.Email), cmd.Name, cmd.Role, cmd.DepartmentID, cmd.Active, id}

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		return repository.QueryOne(ctx, tx, q, args, scanUser)
	})

	if err != nil {
		return nil, r.mapWriteError(err)
	}

	r.logger.Info("user updated", "id", u.ID, "email", u.Email)
	return &u, nil
}

func (r *repo) ChangePassword(
	ctx context.Context,
	actor principal.Principal,
	id uuid.UUID,
	cmd ChangePasswordCommand,
) error {
	requireCurrent, err := passwordChangeRule(actor, id)
	if err != nil {
		return err
	}

	hash, err := HashPassword(cmd.NewPassword, r.cost)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var current string
		if err := tx.QueryRowContext(
			ctx,
			"SELECT password_hash FROM users WHERE id = $1 FOR UPDATE",
			id,
		).Scan(&current); err != nil {
			return struct{}{}, err
		}

		if requireCurrent && !CheckPassword(current, cmd.CurrentPassword) {
			return struct{}{}, ErrWrongPassword
		}

		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2",
			hash, id,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("password changed", "id", id, "actor", actor.UserID)
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM users WHERE id = $1", id)
	})

	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user deleted", "id", id)
	return nil
}

func (r *repo) Authenticate(ctx context.Context, email, password string) (*User, error) {
	q := fmt.Sprintf(
		"SELECT %s, u.password_hash FROM %s WHERE u.email = $1",
		projection.Columns(),
		projection.From(),
	)

	var (
		u    User
		hash string
	)
	err := r.db.QueryRowContext(ctx, q, normalizeEmail(email)).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.DepartmentID, &u.Active, &u.CreatedAt, &u.UpdatedAt,
		&hash,
	)

	if errors.Is(err, sql.ErrNoRows) {
		bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup credentials: %w", err)
	}

	if !CheckPassword(hash, password) || !u.Active {
		return nil, ErrInvalidCredentials
	}

	return &u, nil
}

func (r *repo) FindActiveByEmail(ctx context.Context, email string) (*User, error) {
	active := true
	q, args := query.NewBuilder(projection).
		WhereEquals("Email", normalizeEmail(email)).
		WhereEquals("Active", &active).
		BuildSingleOrNull()

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) Bootstrap(ctx context.Context, email, name, password string) (bool, error) {
	count, err := repository.QueryScalar[int](ctx, r.db, "SELECT COUNT(*) FROM users")
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if _, err := r.Create(ctx, CreateCommand{
		Email:    email,
		Name:     name,
		Password: password,
		Role:     principal.RoleAdmin,
	}); err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	return true, nil
}

func (r *repo) mapWriteError(err error) error {
	if repository.IsForeignKeyViolation(err) {
		return ErrInvalidDepartment
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
