package tasks_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/steward/internal/tasks"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/routes"
)

type mockSystem struct {
	tasks.System

	actor   uuid.UUID
	move    tasks.MoveCommand
	addErr  error
	boardID uuid.UUID
}

func (m *mockSystem) Create(_ context.Context, actor uuid.UUID, cmd tasks.CreateCommand) (*tasks.Task, error) {
	m.actor = actor
	return &tasks.Task{ID: uuid.New(), ProjectID: cmd.ProjectID, Title: cmd.Title, ReporterID: actor}, nil
}

func (m *mockSystem) Move(_ context.Context, id uuid.UUID, cmd tasks.MoveCommand) (*tasks.Task, error) {
	m.move = cmd
	return &tasks.Task{ID: id, Status: cmd.Status, Position: cmd.Position}, nil
}

func (m *mockSystem) AddDependency(_ context.Context, _, _ uuid.UUID) error {
	return m.addErr
}

func (m *mockSystem) Board(_ context.Context, projectID uuid.UUID) (*tasks.Board, error) {
	if projectID != m.boardID {
		return nil, tasks.ErrProjectNotFound
	}
	board := tasks.BuildBoard(projectID, nil)
	return &board, nil
}

func setupMux(sys tasks.System) *http.ServeMux {
	h := tasks.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes(), h.ProjectRoutes())
	return mux
}

func TestCreateRecordsReporter(t *testing.T) {
	sys := &mockSystem{}
	caller := uuid.New()

	body := `{"project_id":"` + uuid.NewString() + `","title":"Write docs"}`
	req := httptest.NewRequest("POST", "/tasks", strings.NewReader(body))
	req = req.WithContext(principal.With(req.Context(), principal.Principal{UserID: caller, Role: principal.RoleMember}))

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, caller, sys.actor)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing project", `{"title":"x"}`},
		{"missing title", `{"project_id":"` + uuid.NewString() + `"}`},
		{"bad priority", `{"project_id":"` + uuid.NewString() + `","title":"x","priority":"critical"}`},
		{"progress out of range", `{"project_id":"` + uuid.NewString() + `","title":"x","progress":150}`},
	}

	mux := setupMux(&mockSystem{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/tasks", strings.NewReader(tt.body))
			req = req.WithContext(principal.With(req.Context(), principal.Principal{UserID: uuid.New()}))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMove(t *testing.T) {
	sys := &mockSystem{}
	mux := setupMux(sys)
	id := uuid.NewString()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/tasks/"+id+"/move", strings.NewReader(`{"status":"review","position":2}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tasks.MoveCommand{Status: "review", Position: 2}, sys.move)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/tasks/"+id+"/move", strings.NewReader(`{"status":"blocked","position":0}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/tasks/"+id+"/move", strings.NewReader(`{"status":"done","position":-1}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddDependencyStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"added", nil, http.StatusNoContent},
		{"self", tasks.ErrSelfDependency, http.StatusBadRequest},
		{"cross project", tasks.ErrCrossProject, http.StatusBadRequest},
		{"cycle", tasks.ErrCycle, http.StatusConflict},
		{"missing task", tasks.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockSystem{addErr: tt.err})
			body := `{"depends_on_id":"` + uuid.NewString() + `"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", "/tasks/"+uuid.NewString()+"/dependencies", strings.NewReader(body)))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestBoardRoute(t *testing.T) {
	project := uuid.New()
	mux := setupMux(&mockSystem{boardID: project})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/projects/"+project.String()+"/board", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"in_progress"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/projects/"+uuid.NewString()+"/board", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
