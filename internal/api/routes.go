package api

import (
	"net/http"

	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/routes"
)

func routeGroups(domain *Domain, runtime *Runtime) []routes.Group {
	tasksHandler := domain.Tasks.Handler()

	return []routes.Group{
		domain.Auth.Handler().Routes(),
		domain.Users.Handler().Routes(),
		domain.Departments.Handler().Routes(),
		domain.Teams.Handler().Routes(),
		domain.Projects.Handler().Routes(),
		tasksHandler.Routes(),
		tasksHandler.ProjectRoutes(),
		domain.Catalog.Handler().Routes(),
		domain.Tickets.Handler().Routes(),
		domain.Notifications.Handler().Routes(),
		domain.Attachments.Handler(runtime.MaxUploadSize).Routes(),
	}
}

func registerRoutes(mux *http.ServeMux, groups []routes.Group, spec []byte) {
	routes.Register(mux, groups...)
	mux.HandleFunc("GET "+openAPIPath, openapi.ServeSpec(spec))
}
