package tickets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/catalog"
	"github.com/JaimeStill/steward/pkg/events"
	"github.com/JaimeStill/steward/pkg/metrics"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

type repo struct {
	db         *sql.DB
	catalog    catalog.System
	bus        events.Bus
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a ticket repository implementing the System interface.
// Catalog items supply the form and approval chain at submission; state
// transitions are published to bus.
func New(
	db *sql.DB,
	items catalog.System,
	bus events.Bus,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		catalog:    items,
		bus:        bus,
		logger:     logger.With("system", "tickets"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	caller uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Ticket], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title")

	filters.forCaller(caller).Apply(qb)

	return r.page(ctx, qb, page)
}

func (r *repo) Pending(ctx context.Context, approver uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Ticket], error) {
	qb := query.
		NewBuilder(projection, query.SortField{Field: "CreatedAt"}).
		WhereSearch(page.Search, "Title").
		Where(pendingFor, approver.String())

	return r.page(ctx, qb, page)
}

func (r *repo) page(ctx context.Context, qb *query.Builder, page pagination.PageRequest) (*pagination.PageResult[Ticket], error) {
	page.Normalize(r.pagination)

	if err := qb.OrderByFields(page.Sort); err != nil {
		return nil, err
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryScalar[int](ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	tickets, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTicket)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}

	result := pagination.NewPageResult(tickets, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Detail, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTicket)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	approvals, err := repository.QueryMany(ctx, r.db, `
		SELECT id, ticket_id, step, approver_id, decision, comment, decided_at
		FROM ticket_approvals
		WHERE ticket_id = $1
		ORDER BY step`,
		[]any{id}, scanApproval,
	)
	if err != nil {
		return nil, fmt.Errorf("query approvals: %w", err)
	}

	return &Detail{Ticket: t, Approvals: approvals}, nil
}

func (r *repo) Submit(ctx context.Context, requester uuid.UUID, cmd SubmitCommand) (*Ticket, error) {
	item, err := r.catalog.Find(ctx, cmd.CatalogItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if !item.Active {
		return nil, ErrItemInactive
	}

	if cmd.FormData == nil {
		cmd.FormData = map[string]any{}
	}

	if err := item.Form.CheckData(cmd.FormData); err != nil {
		return nil, err
	}

	formData, err := json.Marshal(cmd.FormData)
	if err != nil {
		return nil, fmt.Errorf("encode form data: %w", err)
	}

	approvers, err := json.Marshal(item.Approvers)
	if err != nil {
		return nil, fmt.Errorf("encode approvers: %w", err)
	}

	out := submitted(requester, item.Approvers)

	q := `
		INSERT INTO tickets(catalog_item_id, requester_id, title, form_data, approvers, status, closed_at)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, CASE WHEN $7 THEN now() END)
		RETURNING ` + returningColumns

	args := []any{item.ID, requester, cmd.Title, string(formData), string(approvers), out.Status, out.Closed}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Ticket, error) {
		return repository.QueryOne(ctx, tx, q, args, scanTicket)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	metrics.TicketsSubmitted.Inc()
	r.logger.Info("ticket submitted",
		"id", t.ID,
		"number", t.Number,
		"catalog_item_id", t.CatalogItemID,
		"approvers", len(t.Approvers),
		"status", t.Status,
	)

	r.publish(ctx, out, t, requester, "")
	return &t, nil
}

func (r *repo) Approve(ctx context.Context, actor principal.Principal, id uuid.UUID, cmd DecisionCommand) (*Ticket, error) {
	return r.decide(ctx, actor, id, DecisionApproved, cmd.Comment)
}

func (r *repo) Reject(ctx context.Context, actor principal.Principal, id uuid.UUID, cmd DecisionCommand) (*Ticket, error) {
	return r.decide(ctx, actor, id, DecisionRejected, cmd.Comment)
}

// decide records a decision on the ticket's current step. The ticket row is
// locked so concurrent decisions on one step serialize; the later caller
// sees the advanced state.
func (r *repo) decide(
	ctx context.Context,
	actor principal.Principal,
	id uuid.UUID,
	decision, comment string,
) (*Ticket, error) {
	var out outcome

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Ticket, error) {
		current, err := lockTicket(ctx, tx, id)
		if err != nil {
			return Ticket{}, err
		}

		out, err = decide(current, actor, decision)
		if err != nil {
			return Ticket{}, err
		}

		var note *string
		if comment != "" {
			note = &comment
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO ticket_approvals(ticket_id, step, approver_id, decision, comment)
			VALUES ($1, $2, $3, $4, $5)`,
			id, current.CurrentStep, actor.UserID, decision, note,
		)
		if err != nil {
			return Ticket{}, err
		}

		return applyOutcome(ctx, tx, id, out)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyActed)
	}

	metrics.RecordDecision(decision)
	r.logger.Info("ticket decided",
		"id", t.ID,
		"number", t.Number,
		"decision", decision,
		"actor", actor.UserID,
		"step", t.CurrentStep,
		"status", t.Status,
	)

	r.publish(ctx, out, t, actor.UserID, comment)
	return &t, nil
}

func (r *repo) Cancel(ctx context.Context, actor principal.Principal, id uuid.UUID) (*Ticket, error) {
	var out outcome

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Ticket, error) {
		current, err := lockTicket(ctx, tx, id)
		if err != nil {
			return Ticket{}, err
		}

		out, err = cancel(current, actor)
		if err != nil {
			return Ticket{}, err
		}

		return applyOutcome(ctx, tx, id, out)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("ticket cancelled", "id", t.ID, "number", t.Number, "actor", actor.UserID)

	r.publish(ctx, out, t, actor.UserID, "")
	return &t, nil
}

func (r *repo) publish(ctx context.Context, out outcome, t Ticket, actor uuid.UUID, comment string) {
	evt := events.TicketChanged{
		TicketID:    t.ID,
		Number:      t.Number,
		Title:       t.Title,
		RequesterID: t.RequesterID,
		RecipientID: out.Recipient,
		ActorID:     actor,
		Comment:     comment,
	}

	if err := r.bus.Publish(ctx, out.Topic, evt); err != nil {
		r.logger.Error("publish ticket event failed", "topic", out.Topic, "ticket_id", t.ID, "error", err)
	}
}

func lockTicket(ctx context.Context, tx *sql.Tx, id uuid.UUID) (Ticket, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	return repository.QueryOne(ctx, tx, q+" FOR UPDATE", args, scanTicket)
}

func applyOutcome(ctx context.Context, tx *sql.Tx, id uuid.UUID, out outcome) (Ticket, error) {
	q := `
		UPDATE tickets
		SET status = $1, current_step = $2, updated_at = now(),
			closed_at = CASE WHEN $3 THEN now() ELSE closed_at END
		WHERE id = $4
		RETURNING ` + returningColumns

	return repository.QueryOne(ctx, tx, q, []any{out.Status, out.Step, out.Closed, id}, scanTicket)
}
