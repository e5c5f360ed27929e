package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/attachments"
	"github.com/JaimeStill/steward/pkg/events"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

type repo struct {
	db          *sql.DB
	bus         events.Bus
	attachments attachments.Detacher
	logger      *slog.Logger
	pagination  pagination.Config
}

// New creates a task repository implementing the System interface.
// Assignment changes are published to bus. Deleting a task detaches its
// attachments.
func New(
	db *sql.DB,
	bus events.Bus,
	detacher attachments.Detacher,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:          db,
		bus:         bus,
		attachments: detacher,
		logger:      logger.With("system", "tasks"),
		pagination:  pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Task], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "Title")

	filters.Apply(qb)

	if err := qb.OrderByFields(page.Sort); err != nil {
		return nil, err
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryScalar[int](ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	tasks, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTask)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	result := pagination.NewPageResult(tasks, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, err := findTask(ctx, r.db, id)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) Create(ctx context.Context, actor uuid.UUID, cmd CreateCommand) (*Task, error) {
	if err := validateDates(cmd.StartDate, cmd.DueDate); err != nil {
		return nil, err
	}

	status := cmd.Status
	if status == "" {
		status = StatusTodo
	}
	priority := cmd.Priority
	if priority == "" {
		priority = "medium"
	}
	progress := cmd.Progress
	if status == StatusDone {
		progress = 100
	}

	q := `
		INSERT INTO tasks(project_id, title, description, status, priority, assignee_id,
			reporter_id, start_date, due_date, progress, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE project_id = $1 AND status = $4))
		RETURNING ` + returningColumns

	args := []any{
		cmd.ProjectID, cmd.Title, cmd.Description, status, priority, cmd.AssigneeID,
		actor, cmd.StartDate, cmd.DueDate, progress,
	}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Task, error) {
		if err := lockProject(ctx, tx, cmd.ProjectID); err != nil {
			return Task{}, err
		}
		return repository.QueryOne(ctx, tx, q, args, scanTask)
	})

	if err != nil {
		return nil, r.mapWriteError(err)
	}

	r.logger.Info("task created", "id", t.ID, "project_id", t.ProjectID, "status", t.Status)

	if shouldNotify(nil, t.AssigneeID, actor) {
		r.publishAssigned(ctx, t, actor)
	}

	return &t, nil
}

func (r *repo) Update(ctx context.Context, actor, id uuid.UUID, cmd UpdateCommand) (*Task, error) {
	if err := validateDates(cmd.StartDate, cmd.DueDate); err != nil {
		return nil, err
	}

	q := `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, assignee_id = $4,
			start_date = $5, due_date = $6,
			progress = CASE WHEN status = 'done' THEN 100 ELSE $7 END,
			updated_at = now()
		WHERE id = $8
		RETURNING ` + returningColumns

	args := []any{
		cmd.Title, cmd.Description, cmd.Priority, cmd.AssigneeID,
		cmd.StartDate, cmd.DueDate, cmd.Progress, id,
	}

	var previous *uuid.UUID

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Task, error) {
		err := tx.QueryRowContext(ctx,
			"SELECT assignee_id FROM tasks WHERE id = $1 FOR UPDATE", id,
		).Scan(&previous)
		if err != nil {
			return Task{}, err
		}
		return repository.QueryOne(ctx, tx, q, args, scanTask)
	})

	if err != nil {
		return nil, r.mapWriteError(err)
	}

	r.logger.Info("task updated", "id", t.ID)

	if shouldNotify(previous, t.AssigneeID, actor) {
		r.publishAssigned(ctx, t, actor)
	}

	return &t, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	keys, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		projectID, err := lockTaskProject(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		keys, err := r.attachments.DetachTask(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		var status string
		err = tx.QueryRowContext(ctx,
			"DELETE FROM tasks WHERE id = $1 RETURNING status", id,
		).Scan(&status)
		if err != nil {
			return nil, err
		}

		column, err := loadColumn(ctx, tx, projectID, status)
		if err != nil {
			return nil, err
		}
		return keys, renumber(ctx, tx, column)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.attachments.Purge(ctx, keys)

	r.logger.Info("task deleted", "id", id, "attachments", len(keys))
	return nil
}

// Move removes the task from its column and inserts it into the target column,
// renumbering both columns contiguously from zero. The task is read after the
// project lock is held so concurrent moves see each other's status.
func (r *repo) Move(ctx context.Context, id uuid.UUID, cmd MoveCommand) (*Task, error) {
	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Task, error) {
		projectID, err := lockTaskProject(ctx, tx, id)
		if err != nil {
			return Task{}, err
		}

		current, err := findTask(ctx, tx, id)
		if err != nil {
			return Task{}, err
		}

		source, err := loadColumn(ctx, tx, projectID, current.Status)
		if err != nil {
			return Task{}, err
		}

		var target []uuid.UUID
		if cmd.Status != current.Status {
			if target, err = loadColumn(ctx, tx, projectID, cmd.Status); err != nil {
				return Task{}, err
			}
		}

		plan := planMove(current, source, target, cmd.Status, cmd.Position)

		if plan.changesColumn() {
			_, err = tx.ExecContext(ctx, `
				UPDATE tasks
				SET status = $1, progress = $2, updated_at = now()
				WHERE id = $3`,
				plan.Status, plan.Progress, id,
			)
			if err != nil {
				return Task{}, err
			}

			if err := renumber(ctx, tx, plan.Source); err != nil {
				return Task{}, err
			}
		}

		if err := renumber(ctx, tx, plan.Target); err != nil {
			return Task{}, err
		}

		return findTask(ctx, tx, id)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("task moved", "id", t.ID, "status", t.Status, "position", t.Position)
	return &t, nil
}

func (r *repo) Dependencies(ctx context.Context, id uuid.UUID) ([]Dependency, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	deps, err := repository.QueryMany(ctx, r.db, `
		SELECT task_id, depends_on_id, created_at
		FROM task_dependencies
		WHERE task_id = $1
		ORDER BY created_at`,
		[]any{id}, scanDependency,
	)
	if err != nil {
		return nil, fmt.Errorf("query dependencies: %w", err)
	}
	return deps, nil
}

func (r *repo) AddDependency(ctx context.Context, id, dependsOn uuid.UUID) error {
	if id == dependsOn {
		return ErrSelfDependency
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		task, err := findTask(ctx, tx, id)
		if err != nil {
			return struct{}{}, err
		}
		other, err := findTask(ctx, tx, dependsOn)
		if err != nil {
			return struct{}{}, err
		}
		if task.ProjectID != other.ProjectID {
			return struct{}{}, ErrCrossProject
		}

		if err := lockProject(ctx, tx, task.ProjectID); err != nil {
			return struct{}{}, err
		}

		graph, err := loadGraph(ctx, tx, task.ProjectID)
		if err != nil {
			return struct{}{}, err
		}

		for _, d := range graph[id] {
			if d == dependsOn {
				return struct{}{}, nil
			}
		}

		if createsCycle(graph, id, dependsOn) {
			return struct{}{}, ErrCycle
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO task_dependencies(task_id, depends_on_id)
			VALUES ($1, $2)
			ON CONFLICT (task_id, depends_on_id) DO NOTHING`,
			id, dependsOn,
		)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("task dependency added", "task_id", id, "depends_on_id", dependsOn)
	return nil
}

func (r *repo) RemoveDependency(ctx context.Context, id, dependsOn uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx,
			"DELETE FROM task_dependencies WHERE task_id = $1 AND depends_on_id = $2",
			id, dependsOn,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrDependencyAbsent, ErrDuplicate)
	}

	r.logger.Info("task dependency removed", "task_id", id, "depends_on_id", dependsOn)
	return nil
}

func (r *repo) Board(ctx context.Context, projectID uuid.UUID) (*Board, error) {
	tasks, err := r.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	board := BuildBoard(projectID, tasks)
	return &board, nil
}

func (r *repo) Gantt(ctx context.Context, projectID uuid.UUID) (*Gantt, error) {
	tasks, err := r.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	graph, err := loadGraph(ctx, r.db, projectID)
	if err != nil {
		return nil, fmt.Errorf("query dependencies: %w", err)
	}

	gantt := BuildGantt(projectID, tasks, graph)
	return &gantt, nil
}

func (r *repo) projectTasks(ctx context.Context, projectID uuid.UUID) ([]Task, error) {
	if err := projectExists(ctx, r.db, projectID); err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("ProjectID", projectID).
		Build()

	tasks, err := repository.QueryMany(ctx, r.db, q, args, scanTask)
	if err != nil {
		return nil, fmt.Errorf("query project tasks: %w", err)
	}
	return tasks, nil
}

func (r *repo) publishAssigned(ctx context.Context, t Task, actor uuid.UUID) {
	evt := events.TaskAssigned{
		TaskID:     t.ID,
		ProjectID:  t.ProjectID,
		Title:      t.Title,
		AssigneeID: *t.AssigneeID,
		ActorID:    actor,
	}

	if err := r.bus.Publish(ctx, events.TopicTaskAssigned, evt); err != nil {
		r.logger.Error("publish task assignment failed", "task_id", t.ID, "error", err)
	}
}

func (r *repo) mapWriteError(err error) error {
	if repository.IsForeignKeyViolation(err) {
		return ErrInvalidReference
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func findTask(ctx context.Context, q repository.Querier, id uuid.UUID) (Task, error) {
	stmt, args := query.NewBuilder(projection).BuildSingle("ID", id)
	return repository.QueryOne(ctx, q, stmt, args, scanTask)
}

func projectExists(ctx context.Context, q repository.Querier, id uuid.UUID) error {
	exists, err := repository.Exists(ctx, q, "projects", id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrProjectNotFound
	}
	return nil
}

// lockProject serializes position and dependency changes within a project.
func lockProject(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	var locked uuid.UUID
	err := tx.QueryRowContext(ctx, "SELECT id FROM projects WHERE id = $1 FOR UPDATE", id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProjectNotFound
	}
	return err
}

// lockTaskProject takes the project lock for the task's project and returns
// the project id. A task never changes project, so the id read before the
// lock stays valid.
func lockTaskProject(ctx context.Context, tx *sql.Tx, taskID uuid.UUID) (uuid.UUID, error) {
	projectID, err := repository.QueryScalar[uuid.UUID](ctx, tx,
		"SELECT project_id FROM tasks WHERE id = $1", taskID,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return projectID, lockProject(ctx, tx, projectID)
}

func loadColumn(ctx context.Context, tx *sql.Tx, projectID uuid.UUID, status string) ([]uuid.UUID, error) {
	return repository.QueryMany(ctx, tx, `
		SELECT id FROM tasks
		WHERE project_id = $1 AND status = $2
		ORDER BY position, created_at`,
		[]any{projectID, status}, scanID,
	)
}

func renumber(ctx context.Context, tx *sql.Tx, column []uuid.UUID) error {
	for i, id := range column {
		_, err := tx.ExecContext(ctx,
			"UPDATE tasks SET position = $1 WHERE id = $2 AND position <> $1", i, id)
		if err != nil {
			return fmt.Errorf("renumber task %s: %w", id, err)
		}
	}
	return nil
}

func loadGraph(ctx context.Context, q repository.Querier, projectID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	deps, err := repository.QueryMany(ctx, q, `
		SELECT d.task_id, d.depends_on_id, d.created_at
		FROM task_dependencies d
		JOIN tasks t ON t.id = d.task_id
		WHERE t.project_id = $1`,
		[]any{projectID}, scanDependency,
	)
	if err != nil {
		return nil, err
	}

	graph := make(map[uuid.UUID][]uuid.UUID)
	for _, d := range deps {
		graph[d.TaskID] = append(graph[d.TaskID], d.DependsOnID)
	}
	return graph, nil
}
