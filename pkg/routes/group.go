// Package routes declares HTTP route groups and registers them with a
// ServeMux while contributing their operations to an OpenAPI document.
package routes

import (
	"net/http"

	"github.com/Mark0025/peterental/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// AddToSpec adds the group's operations and schemas to spec. Operations
// without explicit tags inherit the group tags.
func (g *Group) AddToSpec(basePath string, spec *openapi.Spec) {
	g.addToSpec(basePath, spec)
}

func (g *Group) addToSpec(parentPrefix string, spec *openapi.Spec) {
	prefix := parentPrefix + g.Prefix

	if g.Schemas != nil && spec.Components != nil {
		spec.Components.AddSchemas(g.Schemas)
	}

	for _, route := range g.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = g.Tags
		}

		spec.AddOperation(prefix+route.Pattern, route.Method, op)
	}

	for _, child := range g.Children {
		child.addToSpec(prefix, spec)
	}
}

// Register mounts every route of groups on mux and records them in spec.
// Mux patterns exclude basePath because modules strip their prefix before
// dispatching; the spec paths include it.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		group.AddToSpec(basePath, spec)
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	prefix := parentPrefix + group.Prefix

	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	}

	for _, child := range group.Children {
		registerGroup(mux, prefix, child)
	}
}
