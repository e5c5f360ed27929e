package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/pkg/database"
	"github.com/JaimeStill/steward/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=stewardstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/stewardstore;"

func validConfig() *config.Config {
	return &config.Config{
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
		Auth: config.AuthConfig{
			JWTSecret: "0123456789abcdef0123456789abcdef",
			TokenTTL:  "1h",
			Issuer:    "steward",
		},
		Events:  config.EventsConfig{Buffer: 8},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Events == nil {
		t.Error("Events is nil")
	}
	if infra.Tokens == nil {
		t.Error("Tokens is nil")
	}
	if infra.Authz == nil {
		t.Error("Authz is nil")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

func TestNewInvalidTokenConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for short jwt secret")
	}
}
