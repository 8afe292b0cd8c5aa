// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package routes keeps the navigation table of an application: which
// display unit is shown at which path.  It follows the same
// registration rule as the actions and reducers registries; the first
// registration of a path wins.
package routes

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/diffeo/go-restflux/flux"
)

// Route binds a path to a display unit.
type Route struct {
	// Path is the navigation path, compared exactly.
	Path string

	// Unit names whatever is displayed at Path.
	Unit string

	// Options are free-form display options, such as a title.
	Options map[string]interface{}
}

// Routes is a navigation table.
type Routes struct {
	table *flux.Table[Route]
}

// New creates an empty navigation table.
func New() *Routes {
	return &Routes{table: flux.NewTable[Route](nil)}
}

// Register adds a route, unless path is already registered.  Returns
// true if the route was added.
func (r *Routes) Register(path, unit string, options map[string]interface{}) bool {
	return r.table.Register(path, Route{Path: path, Unit: unit, Options: options})
}

// Unregister removes the route at path, if any.
func (r *Routes) Unregister(path string) {
	r.table.Unregister(path)
}

// Get returns all of the routes in registration order.
func (r *Routes) Get() []Route {
	keys := r.table.Keys()
	result := make([]Route, 0, len(keys))
	for _, path := range keys {
		if route, present := r.table.Get(path); present {
			result = append(result, route)
		}
	}
	return result
}

// Render writes the navigation table as aligned text, one route per
// line, with options sorted by key.
func (r *Routes) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "PATH\tUNIT\tOPTIONS"); err != nil {
		return err
	}
	for _, route := range r.Get() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", route.Path, route.Unit, formatOptions(route.Options)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatOptions(options map[string]interface{}) string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := ""
	for i, k := range keys {
		if i > 0 {
			result += " "
		}
		result += fmt.Sprintf("%s=%v", k, options[k])
	}
	return result
}
