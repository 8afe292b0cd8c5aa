// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/diffeo/go-restflux/restdata"
	"github.com/gorilla/mux"
)

// errMissingID is returned if a record is posted with an id the
// backend could not use to build its URL.
var errMissingID = errors.New("Stored record has no id")

// context holds all of the information that can be extracted from
// URL parameters.
type context struct {
	Collection string
	ID         string

	// Query holds the decoded "query" URL parameter, or nil if
	// there was none.
	Query map[string]interface{}
}

func (api *restAPI) Context(req *http.Request) (ctx *context, err error) {
	ctx = &context{}
	vars := mux.Vars(req)

	if collection, present := vars["collection"]; present {
		ctx.Collection, err = url.PathUnescape(collection)
		if err != nil {
			return nil, restdata.ErrBadRequest{Err: err}
		}
	}

	if id, present := vars["id"]; present {
		ctx.ID, err = url.PathUnescape(id)
		if err != nil {
			return nil, restdata.ErrBadRequest{Err: err}
		}
	}

	if query := req.URL.Query().Get("query"); query != "" {
		ctx.Query = make(map[string]interface{})
		err = restdata.Unmarshal([]byte(query), &ctx.Query)
		if err != nil {
			return nil, restdata.ErrBadRequest{Err: err}
		}
	}

	return ctx, nil
}
