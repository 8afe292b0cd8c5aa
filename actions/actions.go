// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package actions generates network-action dispatchers for named
// resource collections.
//
// An Actions registry maps namespaces to RestActions.  Each
// RestActions binds operation names (ALL, GET, FIND, POST, PUT,
// DELETE, or anything else) to an OperationHandler that performs one
// network call through a restclient.Transport.  Executing an
// operation yields a flux.Task; the host store runs it with a
// dispatch function and receives START, then FULFILLED or REJECTED.
//
//     registry := actions.New(transport)
//     users := registry.Register("users", "/api/users", actions.Options{
//             Allowed: actions.Permit("all", "get"),
//     })
//     task := users.Execute("get", map[string]interface{}{"id": 5})
//     task(ctx, store.Dispatch)
package actions

import (
	"github.com/diffeo/go-restflux/flux"
	"github.com/diffeo/go-restflux/restclient"
	"github.com/sirupsen/logrus"
)

// Actions is the application-wide registry of namespace actions.
// Build one at start-up and pass it to whatever needs it.
type Actions struct {
	transport  restclient.Transport
	namespaces *flux.Table[*RestActions]
	defaults   *flux.Table[Constructor]

	// Logger is handed to every RestActions created afterwards.
	Logger logrus.FieldLogger
}

// New creates an empty registry whose namespaces will all use
// transport.
func New(transport restclient.Transport) *Actions {
	return &Actions{
		transport:  transport,
		namespaces: flux.NewTable[*RestActions](flux.Canonical),
		defaults:   NewDefaultTable(),
		Logger:     logrus.StandardLogger(),
	}
}

// Register creates, initializes and stores the actions for namespace.
// The instance is fully bound before it becomes visible.
// If the namespace is already registered, nothing changes and the
// existing instance is returned.
func (a *Actions) Register(namespace, location string, options Options) *RestActions {
	ra := newRestActions(namespace, location, a.transport, options, a.defaults)
	ra.Logger = a.Logger
	ra.Init()
	if !a.namespaces.Register(namespace, ra) {
		return a.Get(namespace)
	}
	a.Logger.WithFields(logrus.Fields{
		"namespace": ra.Namespace(),
		"location":  location,
	}).Debug("registered actions")
	return ra
}

// Unregister discards the actions for namespace.
func (a *Actions) Unregister(namespace string) {
	a.namespaces.Unregister(namespace)
}

// Has returns true if namespace is registered.
func (a *Actions) Has(namespace string) bool {
	return a.namespaces.Has(namespace)
}

// Get returns the actions for namespace, or nil.
func (a *Actions) Get(namespace string) *RestActions {
	ra, _ := a.namespaces.Get(namespace)
	return ra
}

// Namespaces returns the registered namespaces in registration order.
func (a *Actions) Namespaces() []string {
	return a.namespaces.Keys()
}

// RegisterDefaultHandler adds a constructor to the default table used
// by namespaces registered later, unless one is already there.
func (a *Actions) RegisterDefaultHandler(name string, constructor Constructor) bool {
	return a.defaults.Register(name, constructor)
}

// UnregisterDefaultHandler removes a constructor from the default
// table.
func (a *Actions) UnregisterDefaultHandler(name string) {
	a.defaults.Unregister(name)
}

// ReplaceDefaultHandler sets a constructor in the default table
// unconditionally.
func (a *Actions) ReplaceDefaultHandler(name string, constructor Constructor) {
	a.defaults.Replace(name, constructor)
}
