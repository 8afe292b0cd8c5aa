// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package reducers folds lifecycle notifications into per-namespace
// state.
//
// A Reducers registry maps namespaces to RestReducers.  Each
// RestReducers binds notification types to a Handler, which writes
// the notification payload under a fixed state key.  By default a
// namespace stores the result of ALL under "list", GET under "item",
// PUT under "updated", POST under "created" and DELETE under
// "deleted".
//
//     registry := reducers.New()
//     users := registry.Register("users")
//     state := users.Reduce(nil, flux.Notification{
//             Type:    "USERS_ALL_FULFILLED",
//             Payload: records,
//     })
//     // state["list"] is records
package reducers

import (
	"github.com/diffeo/go-restflux/flux"
	"github.com/sirupsen/logrus"
)

// Reducers is the application-wide registry of namespace reducers.
type Reducers struct {
	namespaces *flux.Table[*RestReducers]
	defaults   *flux.Table[*Handler]

	// Logger is handed to every RestReducers created afterwards.
	Logger logrus.FieldLogger
}

// New creates an empty registry.
func New() *Reducers {
	return &Reducers{
		namespaces: flux.NewTable[*RestReducers](flux.Canonical),
		defaults:   NewDefaultTable(),
		Logger:     logrus.StandardLogger(),
	}
}

// Register creates, initializes and stores the reducers for
// namespace.  The instance is fully bound before it becomes visible.
// If the namespace is already registered, nothing changes and the
// existing instance is returned.
func (rs *Reducers) Register(namespace string) *RestReducers {
	r := newRestReducers(namespace, rs.defaults)
	r.Logger = rs.Logger
	r.Init()
	if !rs.namespaces.Register(namespace, r) {
		return rs.Get(namespace)
	}
	rs.Logger.WithField("namespace", r.Namespace()).Debug("registered reducers")
	return r
}

// Unregister discards the reducers for namespace.
func (rs *Reducers) Unregister(namespace string) {
	rs.namespaces.Unregister(namespace)
}

// Has returns true if namespace is registered.
func (rs *Reducers) Has(namespace string) bool {
	return rs.namespaces.Has(namespace)
}

// Get returns the reducers for namespace, or nil.
func (rs *Reducers) Get(namespace string) *RestReducers {
	r, _ := rs.namespaces.Get(namespace)
	return r
}

// Namespaces returns the registered namespaces in registration order.
func (rs *Reducers) Namespaces() []string {
	return rs.namespaces.Keys()
}

// GetCombined returns, for every registered namespace, a function
// producing that namespace's initial state.  A host store uses it to
// mount all of the namespaces at once.
func (rs *Reducers) GetCombined() map[string]func() flux.State {
	result := make(map[string]func() flux.State)
	for _, namespace := range rs.namespaces.Keys() {
		r := rs.Get(namespace)
		if r == nil {
			continue
		}
		result[namespace] = func() flux.State {
			return r.Reduce(nil, flux.Notification{})
		}
	}
	return result
}

// RegisterDefaultHandler adds a handler to the default table used by
// namespaces registered later, unless one is already there.
func (rs *Reducers) RegisterDefaultHandler(name string, handler *Handler) bool {
	return rs.defaults.Register(name, handler)
}

// UnregisterDefaultHandler removes an operation from the default
// table.
func (rs *Reducers) UnregisterDefaultHandler(name string) {
	rs.defaults.Unregister(name)
}

// ReplaceDefaultHandler sets the default handler for an operation
// unconditionally.
func (rs *Reducers) ReplaceDefaultHandler(name string, handler *Handler) {
	rs.defaults.Replace(name, handler)
}
