package openapi

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/JaimeStill/steward/pkg/routes"
)

var pathParam = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(\.\.\.)?\}`)

// listParams are accepted by every collection GET.
var listParams = []*Parameter{
	QueryParam("page", "integer", "Page number (1-indexed)", false),
	QueryParam("page_size", "integer", "Results per page", false),
	QueryParam("search", "string", "Search query", false),
	QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending", false),
}

// AddRoutes registers an operation on spec for every route in groups.
// Paths are prefixed with basePath and tagged with the top-level group
// prefix. Path wildcards become required UUID path parameters.
func (s *Spec) AddRoutes(basePath string, groups ...routes.Group) {
	routes.Walk(func(path string, top routes.Group, r routes.Route) {
		full := basePath + path
		if full == "" {
			full = "/"
		}

		item, ok := s.Paths[full]
		if !ok {
			item = &PathItem{}
			s.Paths[full] = item
		}

		item.set(r.Method, newOperation(tagFor(top.Prefix), full, r))
	}, groups...)
}

func (p *PathItem) set(method string, op *Operation) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		p.Get = op
	case http.MethodPost:
		p.Post = op
	case http.MethodPut:
		p.Put = op
	case http.MethodDelete:
		p.Delete = op
	}
}

func newOperation(tag, path string, r routes.Route) *Operation {
	op := &Operation{
		Summary: r.Summary,
		Tags:    []string{tag},
		Responses: map[int]*Response{
			successStatus(r):      {Description: "Success"},
			http.StatusBadRequest: ResponseRef("BadRequest"),
			http.StatusNotFound:   ResponseRef("NotFound"),
		},
	}

	if r.Public {
		op.Security = &[]SecurityRequirement{}
	} else {
		op.Responses[http.StatusUnauthorized] = ResponseRef("Unauthorized")
		op.Responses[http.StatusForbidden] = ResponseRef("Forbidden")
	}

	for _, m := range pathParam.FindAllStringSubmatch(path, -1) {
		op.Parameters = append(op.Parameters, PathParam(m[1], m[1]+" identifier"))
	}

	switch {
	case r.Method == http.MethodGet && r.Pattern == "":
		op.Parameters = append(op.Parameters, listParams...)
	case r.Method == http.MethodPost && strings.HasSuffix(r.Pattern, "/search"):
		op.RequestBody = RequestBodyJSON("PageRequest", false)
	}

	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		op.Responses[http.StatusConflict] = ResponseRef("Conflict")
	}

	return op
}

func successStatus(r routes.Route) int {
	switch {
	case r.Method == http.MethodDelete:
		return http.StatusNoContent
	case r.Method == http.MethodPost && r.Pattern == "":
		return http.StatusCreated
	}
	return http.StatusOK
}

func tagFor(prefix string) string {
	tag := strings.Trim(prefix, "/")
	if i := strings.Index(tag, "/"); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" {
		return "default"
	}
	return tag
}
