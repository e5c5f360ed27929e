package attachments_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/steward/internal/attachments"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/routes"
	"github.com/JaimeStill/steward/pkg/storage"
)

type mockSystem struct {
	attachments.System
	created  *attachments.CreateCommand
	listed   *attachments.Filters
	download func(id uuid.UUID) (*attachments.Attachment, *storage.DownloadResult, error)
	deleteFn func(caller principal.Principal, id uuid.UUID) error
}

func (m *mockSystem) Create(_ context.Context, cmd attachments.CreateCommand) (*attachments.Attachment, error) {
	m.created = &cmd
	return &attachments.Attachment{
		ID:           uuid.New(),
		ResourceType: cmd.ResourceType,
		ResourceID:   cmd.ResourceID,
		Filename:     cmd.Filename,
		ContentType:  cmd.ContentType,
		SizeBytes:    int64(len(cmd.Data)),
		UploadedBy:   cmd.UploadedBy,
		UploadedAt:   time.Now(),
	}, nil
}

func (m *mockSystem) List(_ context.Context, page pagination.PageRequest, filters attachments.Filters) (*pagination.PageResult[attachments.Attachment], error) {
	m.listed = &filters
	result := pagination.NewPageResult([]attachments.Attachment{}, 0, page.Page, page.PageSize)
	return &result, nil
}

func (m *mockSystem) Download(_ context.Context, id uuid.UUID) (*attachments.Attachment, *storage.DownloadResult, error) {
	return m.download(id)
}

func (m *mockSystem) Delete(_ context.Context, caller principal.Principal, id uuid.UUID) error {
	return m.deleteFn(caller, id)
}

func setupMux(sys attachments.System, maxUpload int64) *http.ServeMux {
	h := attachments.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		maxUpload,
	)
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func withCaller(r *http.Request, p principal.Principal) *http.Request {
	return r.WithContext(principal.With(r.Context(), p))
}

func uploadRequest(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", "/attachments", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestUpload(t *testing.T) {
	user := principal.Principal{UserID: uuid.New(), Role: principal.RoleMember}
	resourceID := uuid.New()

	t.Run("stores the file for the caller", func(t *testing.T) {
		sys := &mockSystem{}
		rec := httptest.NewRecorder()
		req := uploadRequest(t, map[string]string{
			"resource_type": attachments.ResourceTask,
			"resource_id":   resourceID.String(),
		}, "notes.txt", []byte("meeting notes"))

		setupMux(sys, 1<<20).ServeHTTP(rec, withCaller(req, user))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, sys.created)
		assert.Equal(t, user.UserID, sys.created.UploadedBy)
		assert.Equal(t, resourceID, sys.created.ResourceID)
		assert.Equal(t, "notes.txt", sys.created.Filename)
		assert.Equal(t, []byte("meeting notes"), sys.created.Data)
		assert.Nil(t, sys.created.PageCount)
	})

	t.Run("rejects oversized bodies", func(t *testing.T) {
		sys := &mockSystem{}
		rec := httptest.NewRecorder()
		req := uploadRequest(t, map[string]string{
			"resource_type": attachments.ResourceTask,
			"resource_id":   resourceID.String(),
		}, "big.bin", bytes.Repeat([]byte("x"), 4096))

		setupMux(sys, 512).ServeHTTP(rec, withCaller(req, user))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Nil(t, sys.created)
	})

	t.Run("rejects unknown resource types", func(t *testing.T) {
		sys := &mockSystem{}
		rec := httptest.NewRecorder()
		req := uploadRequest(t, map[string]string{
			"resource_type": "user",
			"resource_id":   resourceID.String(),
		}, "notes.txt", []byte("x"))

		setupMux(sys, 1<<20).ServeHTTP(rec, withCaller(req, user))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, sys.created)
	})

	t.Run("requires a file", func(t *testing.T) {
		sys := &mockSystem{}
		rec := httptest.NewRecorder()
		req := uploadRequest(t, map[string]string{
			"resource_type": attachments.ResourceProject,
			"resource_id":   resourceID.String(),
		}, "", nil)

		setupMux(sys, 1<<20).ServeHTTP(rec, withCaller(req, user))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := uploadRequest(t, map[string]string{}, "notes.txt", []byte("x"))

		setupMux(&mockSystem{}, 1<<20).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListByResource(t *testing.T) {
	sys := &mockSystem{}
	resourceID := uuid.New()
	rec := httptest.NewRecorder()

	setupMux(sys, 1<<20).ServeHTTP(rec, httptest.NewRequest("GET", "/attachments?resource_type=ticket&resource_id="+resourceID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, sys.listed)
	require.NotNil(t, sys.listed.ResourceType)
	assert.Equal(t, attachments.ResourceTicket, *sys.listed.ResourceType)
	require.NotNil(t, sys.listed.ResourceID)
	assert.Equal(t, resourceID, *sys.listed.ResourceID)
}

func TestDownloadStreamsBlob(t *testing.T) {
	id := uuid.New()
	sys := &mockSystem{
		download: func(got uuid.UUID) (*attachments.Attachment, *storage.DownloadResult, error) {
			assert.Equal(t, id, got)
			return &attachments.Attachment{ID: id, Filename: "plan.txt", ContentType: "text/plain"},
				&storage.DownloadResult{Body: io.NopCloser(strings.NewReader("the plan")), ContentLength: 8},
				nil
		},
	}
	rec := httptest.NewRecorder()

	setupMux(sys, 1<<20).ServeHTTP(rec, httptest.NewRequest("GET", "/attachments/"+id.String()+"/download", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "the plan", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "8", rec.Header().Get("Content-Length"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="plan.txt"`)
}

func TestDownloadMissing(t *testing.T) {
	sys := &mockSystem{
		download: func(uuid.UUID) (*attachments.Attachment, *storage.DownloadResult, error) {
			return nil, nil, attachments.ErrNotFound
		},
	}
	rec := httptest.NewRecorder()

	setupMux(sys, 1<<20).ServeHTTP(rec, httptest.NewRequest("GET", "/attachments/"+uuid.NewString()+"/download", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteForbidden(t *testing.T) {
	caller := principal.Principal{UserID: uuid.New(), Role: principal.RoleMember}
	sys := &mockSystem{
		deleteFn: func(got principal.Principal, _ uuid.UUID) error {
			assert.Equal(t, caller.UserID, got.UserID)
			return attachments.ErrForbidden
		},
	}
	rec := httptest.NewRecorder()
	req := withCaller(httptest.NewRequest("DELETE", "/attachments/"+uuid.NewString(), nil), caller)

	setupMux(sys, 1<<20).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, attachments.ErrForbidden.Error(), body["error"])
}
