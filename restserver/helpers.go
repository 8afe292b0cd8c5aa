// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"fmt"
	"net/url"

	"github.com/gorilla/mux"
)

// urlBuilder builds URLs from named routes, remembering the first
// error.  params alternate between route variable names and values.
type urlBuilder struct {
	Router *mux.Router
	Params []string
	Error  error
}

func buildURLs(router *mux.Router, params ...string) *urlBuilder {
	// Escape all of the values in params
	for i, value := range params {
		if i%2 == 1 {
			params[i] = url.PathEscape(value)
		}
	}
	return &urlBuilder{Router: router, Params: params}
}

func (u *urlBuilder) Route(route string) *mux.Route {
	if u.Error != nil {
		return nil
	}
	r := u.Router.Get(route)
	if r == nil {
		u.Error = fmt.Errorf("No such route %q", route)
	}
	return r
}

func (u *urlBuilder) URL(out *string, route string) *urlBuilder {
	var r *mux.Route
	var target *url.URL
	if u.Error == nil {
		r = u.Route(route)
	}
	if u.Error == nil {
		target, u.Error = r.URL(u.Params...)
	}
	if u.Error == nil {
		// The path is already escaped
		target.RawPath = target.Path
		target.Path, u.Error = url.PathUnescape(target.RawPath)
	}
	if u.Error == nil {
		*out = target.String()
	}
	return u
}
