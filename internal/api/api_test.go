package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/steward/internal/api"
	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/pkg/database"
	"github.com/JaimeStill/steward/pkg/middleware"
	"github.com/JaimeStill/steward/pkg/module"
	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/principal"
	"github.com/JaimeStill/steward/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=stewardstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/stewardstore;"

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "steward",
			User:            "steward",
			Password:        "steward",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "attachments",
			ConnectionString: azuriteConnString,
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "1MB",
			CORS:          middleware.CORSConfig{Enabled: false},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
			OpenAPI: openapi.Config{Title: "Steward API", Description: "test"},
		},
		Auth: config.AuthConfig{
			JWTSecret:  "0123456789abcdef0123456789abcdef",
			TokenTTL:   "1h",
			Issuer:     "steward",
			LoginRate:  1,
			LoginBurst: 5,
		},
		Events:          config.EventsConfig{Buffer: 8},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setup(t *testing.T) (*infrastructure.Infrastructure, *module.Module) {
	t.Helper()

	infra, err := infrastructure.New(validConfig())
	require.NoError(t, err)

	m, err := api.NewModule(validConfig(), infra)
	require.NoError(t, err)
	return infra, m
}

func bearer(t *testing.T, infra *infrastructure.Infrastructure, role string) string {
	t.Helper()
	raw, _, err := infra.Tokens.Issue(uuid.NewString(), role+"@example.com", role)
	require.NoError(t, err)
	return "Bearer " + raw
}

func TestNewModule(t *testing.T) {
	_, m := setup(t)
	assert.Equal(t, "/api", m.Prefix())
}

func TestNewRuntime(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	require.NoError(t, err)

	runtime, err := api.NewRuntime(validConfig(), infra)
	require.NoError(t, err)

	assert.Equal(t, 20, runtime.Pagination.DefaultPageSize)
	assert.Equal(t, int64(1024*1024), runtime.MaxUploadSize)
	assert.NotNil(t, runtime.LoginLimiter)
	assert.Nil(t, runtime.External)
	assert.NotNil(t, runtime.Events)
	assert.NotNil(t, runtime.Tokens)

	domain := api.NewDomain(runtime)
	require.NotNil(t, domain)
	assert.NotNil(t, domain.Tickets)
	assert.NotNil(t, domain.Attachments)
}

func TestOpenAPIIsPublic(t *testing.T) {
	_, m := setup(t)

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/openapi.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var spec openapi.Spec
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&spec))
	assert.Equal(t, "Steward API", spec.Info.Title)
	assert.Contains(t, spec.Paths, "/api/tickets/{id}/approve")
	assert.Contains(t, spec.Paths, "/api/projects/{id}/board")
	assert.Contains(t, spec.Paths, "/api/attachments/{id}/download")
}

func TestRequiresAuthentication(t *testing.T) {
	_, m := setup(t)

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/projects", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	m.Serve(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleEnforcement(t *testing.T) {
	infra, m := setup(t)

	tests := []struct {
		name   string
		role   string
		method string
		path   string
	}{
		{"member cannot create departments", principal.RoleMember, "POST", "/api/departments"},
		{"member cannot edit the catalog", principal.RoleMember, "PUT", "/api/catalog/" + uuid.NewString()},
		{"member cannot create users", principal.RoleMember, "POST", "/api/users"},
		{"manager cannot delete users", principal.RoleManager, "DELETE", "/api/users/" + uuid.NewString()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			req.Header.Set("Authorization", bearer(t, infra, tt.role))
			m.Serve(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}
