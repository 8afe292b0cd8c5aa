// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package reducers

import (
	"github.com/diffeo/go-restflux/flux"
)

// Handler writes a notification payload into the state under a fixed
// key.  Handlers are immutable; the same Handler may be bound in any
// number of namespaces.
type Handler struct {
	name     string
	defaults interface{}
}

// NewHandler creates a handler that stores payloads under name, using
// defaults when a notification carries no payload.  Returns
// flux.ErrNoHandlerName if name is empty.
func NewHandler(name string, defaults interface{}) (*Handler, error) {
	if name == "" {
		return nil, flux.ErrNoHandlerName
	}
	return &Handler{name: name, defaults: defaults}, nil
}

// MustHandler is like NewHandler but panics on error.  It is intended
// for package-level handler tables.
func MustHandler(name string, defaults interface{}) *Handler {
	h, err := NewHandler(name, defaults)
	if err != nil {
		panic(err)
	}
	return h
}

// Name returns the state key this handler writes.
func (h *Handler) Name() string {
	return h.name
}

// Defaults returns the value used when a payload is absent.
func (h *Handler) Defaults() interface{} {
	return h.defaults
}

// Handle returns a shallow copy of state with the handler's key set to
// the notification payload, or to the defaults if the payload is nil.
// The prior value of the key is never kept.
func (h *Handler) Handle(state flux.State, n flux.Notification) flux.State {
	result := state.Copy()
	if n.Payload != nil {
		result[h.name] = n.Payload
	} else {
		result[h.name] = h.defaults
	}
	return result
}

// Names of the default handlers' state keys.
const (
	ListKey    = "list"
	ItemKey    = "item"
	UpdatedKey = "updated"
	CreatedKey = "created"
	DeletedKey = "deleted"
)

// NewDefaultTable returns a fresh default-handler table holding one
// handler per default operation: ALL stores "list" (defaulting to an
// empty list), GET "item", PUT "updated", POST "created" and DELETE
// "deleted".
func NewDefaultTable() *flux.Table[*Handler] {
	table := flux.NewTable[*Handler](flux.Canonical)
	table.Register("ALL", MustHandler(ListKey, []interface{}{}))
	table.Register("GET", MustHandler(ItemKey, nil))
	table.Register("PUT", MustHandler(UpdatedKey, nil))
	table.Register("POST", MustHandler(CreatedKey, nil))
	table.Register("DELETE", MustHandler(DeletedKey, nil))
	return table
}
