package api

import (
	"fmt"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/routes"
)

const openAPIPath = "/openapi.json"

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddRoutes(cfg.API.BasePath, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	return data, nil
}
