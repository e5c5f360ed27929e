package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/steward/internal/catalog"
	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/routes"
)

type mockSystem struct {
	catalog.System

	items map[uuid.UUID]*catalog.Item
}

func (m *mockSystem) Find(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return item, nil
}

func (m *mockSystem) Create(_ context.Context, cmd catalog.CreateCommand) (*catalog.Item, error) {
	if cmd.Form != nil {
		if err := cmd.Form.Validate(); err != nil {
			return nil, err
		}
	}
	form := catalog.DefaultForm()
	if cmd.Form != nil {
		form = *cmd.Form
	}
	return &catalog.Item{ID: uuid.New(), Name: cmd.Name, Category: cmd.Category, Form: form}, nil
}

func (m *mockSystem) Delete(_ context.Context, _ uuid.UUID) error {
	return catalog.ErrInUse
}

func (m *mockSystem) Categories(_ context.Context) ([]string, error) {
	return []string{"Access", "Hardware"}, nil
}

func setupMux(sys catalog.System) *http.ServeMux {
	h := catalog.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func TestFormEndpoint(t *testing.T) {
	id := uuid.New()
	sys := &mockSystem{items: map[uuid.UUID]*catalog.Item{
		id: {ID: id, Name: "Laptop", Form: catalog.ParseForm([]byte("not json"))},
	}}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("GET", "/catalog/"+id.String()+"/form", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var form catalog.Form
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&form))
	assert.Equal(t, catalog.DefaultForm(), form)
}

func TestCategoriesRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	setupMux(&mockSystem{}).ServeHTTP(rec, httptest.NewRequest("GET", "/catalog/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Access","Hardware"]`, rec.Body.String())
}

func TestCreateInvalidFormReportsFields(t *testing.T) {
	body := `{"name":"Badge","category":"Access","form":{"title":"Badge","fields":[{"name":"site","type":"select"}]}}`

	rec := httptest.NewRecorder()
	setupMux(&mockSystem{}).ServeHTTP(rec, httptest.NewRequest("POST", "/catalog", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Fields, "form.fields[0].options")
}

func TestCreateWithoutForm(t *testing.T) {
	rec := httptest.NewRecorder()
	setupMux(&mockSystem{}).ServeHTTP(rec, httptest.NewRequest("POST", "/catalog", strings.NewReader(`{"name":"Laptop","category":"Hardware"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var item catalog.Item
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&item))
	assert.Equal(t, "Service Request", item.Form.Title)
}

func TestDeleteWithTickets(t *testing.T) {
	rec := httptest.NewRecorder()
	setupMux(&mockSystem{}).ServeHTTP(rec, httptest.NewRequest("DELETE", "/catalog/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, catalog.MapHTTPStatus(catalog.ErrInvalidApprovers))
	assert.Equal(t, http.StatusNotFound, catalog.MapHTTPStatus(catalog.ErrNotFound))
	assert.Equal(t, http.StatusConflict, catalog.MapHTTPStatus(catalog.ErrDuplicate))
}
