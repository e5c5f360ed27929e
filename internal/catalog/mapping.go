package catalog

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

const returningColumns = "id, name, description, category, form_config, approvers, active, created_at, updated_at"

var projection = query.
	NewProjectionMap("public", "catalog_items", "c").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("category", "Category").
	Project("form_config", "Form").
	Project("approvers", "Approvers").
	Project("active", "Active").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for catalog queries.
type Filters struct {
	Category *string `json:"category,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Category", f.Category).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

func scanItem(s repository.Scanner) (Item, error) {
	var (
		item      Item
		form      []byte
		approvers []byte
	)

	err := s.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Category,
		&form,
		&approvers,
		&item.Active,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return item, err
	}

	item.Form = ParseForm(form)

	item.Approvers, err = decodeApprovers(approvers)
	return item, err
}

func decodeApprovers(raw []byte) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(raw) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode approvers: %w", err)
	}
	return ids, nil
}

// encodeForm returns the JSON text stored for f, or nil for SQL NULL.
func encodeForm(f *Form) (any, error) {
	if f == nil {
		return nil, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	return string(b), nil
}

func encodeApprovers(ids []uuid.UUID) (string, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode approvers: %w", err)
	}
	return string(b), nil
}
