// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package actions

import (
	"context"
	"strings"

	"github.com/diffeo/go-restflux/flux"
	"github.com/diffeo/go-restflux/restclient"
	"github.com/diffeo/go-restflux/restdata"
	"github.com/jtacoma/uritemplates"
	"github.com/mitchellh/mapstructure"
)

// URI templates for the network addresses of the operations.  The
// location is expanded with reserved expansion so its slashes and
// scheme survive; identifiers use simple expansion, which
// percent-encodes everything outside the unreserved set.
const (
	collectionTemplate = "{+location}"
	recordTemplate     = "{+location}/{id}"
	queryTemplate      = "{+location}{?query}"
)

// DefaultIDField is the parameter field holding a record identifier
// when Options.IDField is empty.
const DefaultIDField = "id"

// OperationHandler performs one shape of network call.
type OperationHandler interface {
	// Execute performs exactly one network call built from
	// params, and returns its result.  Transport errors are
	// returned unchanged.
	Execute(ctx context.Context, params interface{}) (interface{}, error)
}

// Binding is everything an operation handler needs to know about the
// resource it talks to.
type Binding struct {
	// Location is the base resource location, for instance
	// "/api/users" or "http://example.com/api/users".
	Location string

	// Transport performs the network call.
	Transport restclient.Transport

	// IDField names the identity field inside parameters.  If
	// empty, DefaultIDField is used.
	IDField string
}

// Constructor builds an operation handler for a binding.
type Constructor func(Binding) OperationHandler

// expand fills in a URI template with the binding location and vars.
func (b Binding) expand(template string, vars map[string]interface{}) (string, error) {
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return "", err
	}
	if vars == nil {
		vars = make(map[string]interface{})
	}
	vars["location"] = b.Location
	return tmpl.Expand(vars)
}

func (b Binding) idField() string {
	if b.IDField == "" {
		return DefaultIDField
	}
	return b.IDField
}

// identity extracts the record identifier from params as a plain
// string.  params may be a map or a struct; if scalar is true it may
// also be the identifier itself.
func (b Binding) identity(params interface{}, scalar bool) (string, error) {
	if params == nil {
		return "", flux.ErrMissingID
	}
	if m, isMap := params.(map[string]interface{}); isMap {
		return b.lookupID(m)
	}
	if scalar {
		if id, ok := formatID(params); ok {
			return id, nil
		}
	}
	var m map[string]interface{}
	if err := mapstructure.Decode(params, &m); err != nil {
		return "", flux.ErrMissingID
	}
	return b.lookupID(m)
}

func (b Binding) lookupID(m map[string]interface{}) (string, error) {
	field := b.idField()
	value, present := m[field]
	if !present {
		// Struct fields decode under their Go names
		for k, v := range m {
			if strings.EqualFold(k, field) {
				value = v
				break
			}
		}
	}
	if id, ok := formatID(value); ok {
		return id, nil
	}
	return "", flux.ErrMissingID
}

// formatID is restdata.FormatID, but an empty identifier is missing.
func formatID(value interface{}) (string, bool) {
	id, ok := restdata.FormatID(value)
	return id, ok && id != ""
}

// AllHandler lists a collection: GET {location}.
type AllHandler struct {
	Binding
}

// NewAll is the Constructor for AllHandler.
func NewAll(b Binding) OperationHandler {
	return &AllHandler{Binding: b}
}

// Execute ignores params.
func (h *AllHandler) Execute(ctx context.Context, params interface{}) (interface{}, error) {
	url, err := h.expand(collectionTemplate, nil)
	if err != nil {
		return nil, err
	}
	return h.Transport.Call(ctx, "GET", url, nil)
}

// GetHandler fetches one record: GET {location}/{id}.
type GetHandler struct {
	Binding
}

// NewGet is the Constructor for GetHandler.
func NewGet(b Binding) OperationHandler {
	return &GetHandler{Binding: b}
}

// Execute takes either the identifier itself or parameters containing
// it.
func (h *GetHandler) Execute(ctx context.Context, params interface{}) (interface{}, error) {
	id, err := h.identity(params, true)
	if err != nil {
		return nil, err
	}
	url, err := h.expand(recordTemplate, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	return h.Transport.Call(ctx, "GET", url, nil)
}

// FindHandler queries a collection: GET {location}?query={json}.
type FindHandler struct {
	Binding
}

// NewFind is the Constructor for FindHandler.
func NewFind(b Binding) OperationHandler {
	return &FindHandler{Binding: b}
}

// Execute serializes params as the JSON query.  A nil query matches
// everything.
func (h *FindHandler) Execute(ctx context.Context, params interface{}) (interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	query, err := restdata.Marshal(params)
	if err != nil {
		return nil, err
	}
	url, err := h.expand(queryTemplate, map[string]interface{}{"query": string(query)})
	if err != nil {
		return nil, err
	}
	return h.Transport.Call(ctx, "GET", url, nil)
}

// PostHandler creates a record: POST {location} with params as body.
type PostHandler struct {
	Binding
}

// NewPost is the Constructor for PostHandler.
func NewPost(b Binding) OperationHandler {
	return &PostHandler{Binding: b}
}

// Execute sends params as the body.
func (h *PostHandler) Execute(ctx context.Context, params interface{}) (interface{}, error) {
	url, err := h.expand(collectionTemplate, nil)
	if err != nil {
		return nil, err
	}
	return h.Transport.Call(ctx, "POST", url, params)
}

// PutHandler updates a record: PUT {location}/{id} with params as
// body.  The identifier comes from the identity field of params.
type PutHandler struct {
	Binding
}

// NewPut is the Constructor for PutHandler.
func NewPut(b Binding) OperationHandler {
	return &PutHandler{Binding: b}
}

// Execute sends params as the body.
func (h *PutHandler) Execute(ctx context.Context, params interface{}) (interface{}, error) {
	id, err := h.identity(params, false)
	if err != nil {
		return nil, err
	}
	url, err := h.expand(recordTemplate, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	return h.Transport.Call(ctx, "PUT", url, params)
}

// DeleteHandler removes a record: DELETE {location}/{id}.
type DeleteHandler struct {
	Binding
}

// NewDelete is the Constructor for DeleteHandler.
func NewDelete(b Binding) OperationHandler {
	return &DeleteHandler{Binding: b}
}

// Execute takes either the identifier itself or parameters containing
// it.
func (h *DeleteHandler) Execute(ctx context.Context, params interface{}) (interface{}, error) {
	id, err := h.identity(params, true)
	if err != nil {
		return nil, err
	}
	url, err := h.expand(recordTemplate, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	return h.Transport.Call(ctx, "DELETE", url, nil)
}

// Well-known operation names.
const (
	All    = "ALL"
	Get    = "GET"
	Find   = "FIND"
	Post   = "POST"
	Put    = "PUT"
	Delete = "DELETE"
)

// Constructors maps every built-in operation name to its constructor,
// including FIND, which is not installed by default.
var Constructors = map[string]Constructor{
	All:    NewAll,
	Get:    NewGet,
	Find:   NewFind,
	Post:   NewPost,
	Put:    NewPut,
	Delete: NewDelete,
}

// DefaultOperations are the operations Init installs unless the
// default table is changed.
var DefaultOperations = []string{All, Get, Put, Post, Delete}

// NewDefaultTable returns a fresh default-constructor table holding
// DefaultOperations.
func NewDefaultTable() *flux.Table[Constructor] {
	table := flux.NewTable[Constructor](flux.Canonical)
	for _, name := range DefaultOperations {
		table.Register(name, Constructors[name])
	}
	return table
}
