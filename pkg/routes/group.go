package routes

import (
	"net/http"

	"github.com/JaimeStill/callvault/pkg/openapi"
)

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk("", nil, groups, func(method, path string, _ []string, route Route) {
		mux.HandleFunc(method+" "+path, route.Handler)
	})
}

// Patterns returns the ServeMux pattern of every route in the groups, in
// declaration order.
func Patterns(groups ...Group) []string {
	var out []string
	walk("", nil, groups, func(method, path string, _ []string, _ Route) {
		out = append(out, method+" "+path)
	})
	return out
}

// Document adds every route that declares an operation to spec, under
// basePath. Routes without an operation stay undocumented. Operations
// without tags inherit the tags of their nearest tagged group.
func Document(spec *openapi.Spec, basePath string, groups ...Group) error {
	var err error
	walk("", nil, groups, func(method, path string, tags []string, route Route) {
		if err != nil || route.OpenAPI == nil {
			return
		}
		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		err = spec.AddOperation(method, basePath+path, &op)
	})
	return err
}

func walk(parent string, tags []string, groups []Group, fn func(method, path string, tags []string, route Route)) {
	for _, group := range groups {
		prefix := parent + group.Prefix
		groupTags := tags
		if len(group.Tags) > 0 {
			groupTags = group.Tags
		}
		for _, route := range group.Routes {
			fn(route.Method, prefix+route.Pattern, groupTags, route)
		}
		walk(prefix, groupTags, group.Children, fn)
	}
}
