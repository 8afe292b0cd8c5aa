// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"

	"github.com/diffeo/go-restflux/resource"
	"github.com/gorilla/mux"
)

// NewRouter creates a new HTTP handler that processes all resource
// requests.  All collections are under the URL path root, e.g.
// /users/1234.  For more control over this setup, create a
// mux.Router and call PopulateRouter instead.
func NewRouter(b resource.Backend) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, b)
	return r
}

// PopulateRouter adds resource routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the collections under a subpath:
//
//     r := mux.NewRouter()
//     s := r.PathPrefix("/api").Subrouter()
//     PopulateRouter(s, memory.New())
//
// The router is switched to matching on the escaped path, so that a
// record identifier containing "/" (sent as %2F) stays one path
// segment.
func PopulateRouter(r *mux.Router, b resource.Backend) {
	r.UseEncodedPath()
	api := &restAPI{Backend: b, Router: r}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the REST API.
type restAPI struct {
	Backend resource.Backend
	Router  *mux.Router
}

// PopulateRouter adds all URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	r.Path("/{collection}").Name("collection").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.CollectionGet,
		Post:    api.CollectionPost,
	})
	r.Path("/{collection}/{id}").Name("record").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.RecordGet,
		Put:     api.RecordPut,
		Delete:  api.RecordDelete,
	})
}
