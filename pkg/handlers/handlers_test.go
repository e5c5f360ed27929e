package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/validation"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "201 with struct",
			status:     http.StatusCreated,
			data:       struct{ ID int }{ID: 42},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	handlers.RespondError(rec, logger, http.StatusBadRequest, errors.New("invalid input"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %s", ct)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]string
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if parsed["error"] != "invalid input" {
		t.Errorf("error: got %s, want invalid input", parsed["error"])
	}
}

func TestRespondErrorValidationFields(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	err := &validation.Error{Fields: map[string]string{"title": "is required"}}
	handlers.RespondError(rec, logger, http.StatusBadRequest, err)

	var parsed handlers.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if parsed.Fields["title"] != "is required" {
		t.Errorf("fields = %v, want title: is required", parsed.Fields)
	}
}

func TestPathID(t *testing.T) {
	id := uuid.New()
	mux := http.NewServeMux()

	var got uuid.UUID
	var gotErr error
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = handlers.PathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items/"+id.String(), nil))
	if gotErr != nil || got != id {
		t.Errorf("PathID() = %v, %v; want %v", got, gotErr, id)
	}

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items/not-a-uuid", nil))
	if !errors.Is(gotErr, handlers.ErrInvalidID) {
		t.Errorf("PathID() error = %v, want ErrInvalidID", gotErr)
	}
}

func TestDecodeJSON(t *testing.T) {
	type command struct {
		Name string `json:"name" validate:"required"`
	}

	tests := []struct {
		name     string
		body     string
		wantErr  error
		wantVErr bool
	}{
		{"valid", `{"name":"ok"}`, nil, false},
		{"malformed", `{"name":`, handlers.ErrInvalidBody, false},
		{"fails validation", `{}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var cmd command
			err := handlers.DecodeJSON(req, &cmd)

			var verr *validation.Error
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantVErr:
				if !errors.As(err, &verr) {
					t.Errorf("error = %v, want validation error", err)
				}
			default:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestCaller(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("missing principal writes 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if _, ok := handlers.Caller(rec, httptest.NewRequest("GET", "/", nil), logger); ok {
			t.Fatal("expected no caller")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("returns principal", func(t *testing.T) {
		p := principal.Principal{UserID: uuid.New(), Role: principal.RoleMember}
		req := httptest.NewRequest("GET", "/", nil).WithContext(principal.With(context.Background(), p))

		got, ok := handlers.Caller(httptest.NewRecorder(), req, logger)
		if !ok || got != p {
			t.Errorf("Caller() = %+v, %v; want %+v", got, ok, p)
		}
	})
}
