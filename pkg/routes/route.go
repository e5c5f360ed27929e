package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
// Summary is surfaced in the OpenAPI document. Public routes skip bearer
// authentication and role checks.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	Summary string
	Public  bool
}
