package routes

import "net/http"

// Group organizes routes under a common prefix. Children inherit the prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Walk calls fn for every route in groups with the route's full path
// (group prefixes joined with the pattern) and the top-level group it
// belongs to.
func Walk(fn func(path string, top Group, r Route), groups ...Group) {
	for _, g := range groups {
		walk(fn, "", g, g)
	}
}

func walk(fn func(string, Group, Route), parent string, top, g Group) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		fn(prefix+r.Pattern, top, r)
	}
	for _, child := range g.Children {
		walk(fn, prefix, top, child)
	}
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	Walk(func(path string, _ Group, r Route) {
		mux.HandleFunc(r.Method+" "+path, r.Handler)
	}, groups...)
}

// PublicPaths lists the full paths of routes marked Public.
func PublicPaths(groups ...Group) []string {
	var paths []string
	Walk(func(path string, _ Group, r Route) {
		if r.Public {
			paths = append(paths, path)
		}
	}, groups...)
	return paths
}
