package tickets

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

const returningColumns = `id, number, catalog_item_id, requester_id, title, form_data, approvers,
	current_step, status, created_at, updated_at, closed_at`

var projection = query.
	NewProjectionMap("public", "tickets", "t").
	Project("id", "ID").
	Project("number", "Number").
	Project("catalog_item_id", "CatalogItemID").
	Project("requester_id", "RequesterID").
	Project("title", "Title").
	Project("form_data", "FormData").
	Project("approvers", "Approvers").
	Project("current_step", "CurrentStep").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("closed_at", "ClosedAt")

var defaultSort = query.SortField{Field: "Number", Descending: true}

// pendingFor matches pending tickets whose current approver is the bound user.
const pendingFor = "(t.status = 'pending' AND (t.approvers ->> t.current_step) = $%d)"

// Filters contains optional filtering criteria for ticket queries. Mine
// restricts results to tickets the caller requested.
type Filters struct {
	Status        *string    `json:"status,omitempty"`
	CatalogItemID *uuid.UUID `json:"catalog_item_id,omitempty"`
	RequesterID   *uuid.UUID `json:"requester_id,omitempty"`
	Mine          bool       `json:"mine,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("CatalogItemID", f.CatalogItemID).
		WhereEquals("RequesterID", f.RequesterID)
}

// forCaller resolves Mine into a requester filter.
func (f Filters) forCaller(caller uuid.UUID) Filters {
	if f.Mine {
		f.RequesterID = &caller
	}
	return f
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if c := values.Get("catalog_item_id"); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			f.CatalogItemID = &id
		}
	}

	if r := values.Get("requester_id"); r != "" {
		if id, err := uuid.Parse(r); err == nil {
			f.RequesterID = &id
		}
	}

	if m := values.Get("mine"); m != "" {
		f.Mine, _ = strconv.ParseBool(m)
	}

	return f
}

func scanTicket(s repository.Scanner) (Ticket, error) {
	var (
		t         Ticket
		formData  []byte
		approvers []byte
	)

	err := s.Scan(
		&t.ID,
		&t.Number,
		&t.CatalogItemID,
		&t.RequesterID,
		&t.Title,
		&formData,
		&approvers,
		&t.CurrentStep,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.ClosedAt,
	)
	if err != nil {
		return t, err
	}

	t.FormData = map[string]any{}
	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &t.FormData); err != nil {
			return t, fmt.Errorf("decode form data: %w", err)
		}
	}

	t.Approvers = []uuid.UUID{}
	if len(approvers) > 0 {
		if err := json.Unmarshal(approvers, &t.Approvers); err != nil {
			return t, fmt.Errorf("decode approvers: %w", err)
		}
	}

	if id, ok := t.currentApprover(); ok {
		t.CurrentApprover = &id
	}

	return t, nil
}

func scanApproval(s repository.Scanner) (Approval, error) {
	var a Approval
	err := s.Scan(&a.ID, &a.TicketID, &a.Step, &a.ApproverID, &a.Decision, &a.Comment, &a.DecidedAt)
	return a, err
}
