package api

import (
	"github.com/JaimeStill/steward/internal/attachments"
	"github.com/JaimeStill/steward/internal/auth"
	"github.com/JaimeStill/steward/internal/catalog"
	"github.com/JaimeStill/steward/internal/departments"
	"github.com/JaimeStill/steward/internal/notifications"
	"github.com/JaimeStill/steward/internal/projects"
	"github.com/JaimeStill/steward/internal/tasks"
	"github.com/JaimeStill/steward/internal/teams"
	"github.com/JaimeStill/steward/internal/tickets"
	"github.com/JaimeStill/steward/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Users         users.System
	Auth          auth.System
	Departments   departments.System
	Teams         teams.System
	Projects      projects.System
	Tasks         tasks.System
	Catalog       catalog.System
	Tickets       tickets.System
	Notifications notifications.System
	Attachments   attachments.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	usersSystem := users.New(db, runtime.Logger, runtime.Pagination)
	catalogSystem := catalog.New(db, runtime.Logger, runtime.Pagination)
	attachmentsSystem := attachments.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Users: usersSystem,
		Auth: auth.New(
			usersSystem,
			runtime.Tokens,
			runtime.External,
			runtime.LoginLimiter,
			runtime.Logger,
		),
		Departments: departments.New(db, runtime.Logger, runtime.Pagination),
		Teams:       teams.New(db, runtime.Logger, runtime.Pagination),
		Projects:    projects.New(db, attachmentsSystem, runtime.Logger, runtime.Pagination),
		Tasks: tasks.New(
			db,
			runtime.Events,
			attachmentsSystem,
			runtime.Logger,
			runtime.Pagination,
		),
		Catalog: catalogSystem,
		Tickets: tickets.New(
			db,
			catalogSystem,
			runtime.Events,
			runtime.Logger,
			runtime.Pagination,
		),
		Notifications: notifications.New(db, runtime.Logger, runtime.Pagination),
		Attachments:   attachmentsSystem,
	}
}
