// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package reducers

import (
	"sync"

	"github.com/diffeo/go-restflux/flux"
	"github.com/sirupsen/logrus"
)

// ErrorsKey is the key of the default state holding the defaults of
// the error handlers.
const ErrorsKey = "errors"

// RestReducers folds the notifications of one namespace into its
// state.  Success handlers are bound to FULFILLED notification types
// and error handlers to REJECTED ones.
//
// Every bound handler contributes its default value to the default
// state, under its notification type; error handlers contribute to
// the "errors" sub-map instead.  Reduce starts from a copy of this
// default state when it is given none.
type RestReducers struct {
	namespace       string
	handlers        *flux.Table[*Handler]
	defaultHandlers *flux.Table[*Handler]

	// lock serializes handler registration so the default state
	// always matches the bound handlers.
	lock     sync.RWMutex
	defaults flux.State
	errors   flux.State

	// Logger receives a debug line for every registration change.
	Logger logrus.FieldLogger
}

// NewRestReducers creates the reducers for namespace.  The instance
// has its own default-handler table; RestReducers created through a
// Reducers registry share the registry's table instead.  No handlers
// are bound until Init or RegisterHandler is called.
func NewRestReducers(namespace string) *RestReducers {
	return newRestReducers(namespace, NewDefaultTable())
}

func newRestReducers(namespace string, defaultHandlers *flux.Table[*Handler]) *RestReducers {
	return &RestReducers{
		namespace:       flux.Canonical(namespace),
		handlers:        flux.NewTable[*Handler](nil),
		defaultHandlers: defaultHandlers,
		defaults:        flux.State{},
		errors:          flux.State{},
		Logger:          logrus.StandardLogger(),
	}
}

// Namespace returns the canonical namespace name.
func (r *RestReducers) Namespace() string {
	return r.namespace
}

// Init binds every handler in the default-handler table to the
// FULFILLED type of its operation.  Operations that already have a
// handler keep it.
func (r *RestReducers) Init() *RestReducers {
	for _, name := range r.defaultHandlers.Keys() {
		if handler, present := r.defaultHandlers.Get(name); present {
			r.RegisterHandler(name, handler)
		}
	}
	return r
}

func (r *RestReducers) fulfilled(name string) string {
	return flux.Type(r.namespace, name, flux.PhaseFulfilled)
}

func (r *RestReducers) rejected(name string) string {
	return flux.Type(r.namespace, name, flux.PhaseRejected)
}

// register binds handler to key unless one is already bound.  A nil
// handler is never bound.
func (r *RestReducers) register(key string, handler *Handler, shape flux.State) bool {
	if handler == nil {
		return false
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.handlers.Register(key, handler) {
		return false
	}
	shape[key] = handler.Defaults()
	r.Logger.WithFields(logrus.Fields{
		"type":    key,
		"handler": handler.Name(),
	}).Debug("registered handler")
	return true
}

// replace binds handler to key unconditionally, in one step, so that
// Reduce never sees key unbound.  A nil handler unbinds key.
func (r *RestReducers) replace(key string, handler *Handler, shape flux.State) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if handler == nil {
		if r.handlers.Unregister(key) {
			delete(shape, key)
		}
		return
	}
	r.handlers.Replace(key, handler)
	shape[key] = handler.Defaults()
	r.Logger.WithFields(logrus.Fields{
		"type":    key,
		"handler": handler.Name(),
	}).Debug("replaced handler")
}

func (r *RestReducers) unregister(key string, shape flux.State) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.handlers.Unregister(key) {
		delete(shape, key)
	}
}

func (r *RestReducers) get(key string) *Handler {
	handler, _ := r.handlers.Get(key)
	return handler
}

// RegisterHandler binds handler to the FULFILLED type of operation
// name, unless a handler is already bound there or handler is nil.
// Returns true if handler was bound.
func (r *RestReducers) RegisterHandler(name string, handler *Handler) bool {
	return r.register(r.fulfilled(name), handler, r.defaults)
}

// UnregisterHandler removes the handler for the FULFILLED type of
// operation name, along with its default.
func (r *RestReducers) UnregisterHandler(name string) {
	r.unregister(r.fulfilled(name), r.defaults)
}

// ReplaceHandler binds handler to the FULFILLED type of operation
// name unconditionally.  Replacing with nil unbinds it.
func (r *RestReducers) ReplaceHandler(name string, handler *Handler) {
	r.replace(r.fulfilled(name), handler, r.defaults)
}

// HasHandler returns true if a handler is bound to the FULFILLED type
// of operation name.
func (r *RestReducers) HasHandler(name string) bool {
	return r.handlers.Has(r.fulfilled(name))
}

// GetHandler returns the handler bound to the FULFILLED type of
// operation name, or nil.
func (r *RestReducers) GetHandler(name string) *Handler {
	return r.get(r.fulfilled(name))
}

// RegisterErrorHandler binds handler to the REJECTED type of
// operation name, unless a handler is already bound there or handler
// is nil.
func (r *RestReducers) RegisterErrorHandler(name string, handler *Handler) bool {
	return r.register(r.rejected(name), handler, r.errors)
}

// UnregisterErrorHandler removes the handler for the REJECTED type of
// operation name.
func (r *RestReducers) UnregisterErrorHandler(name string) {
	r.unregister(r.rejected(name), r.errors)
}

// ReplaceErrorHandler binds handler to the REJECTED type of operation
// name unconditionally.  Replacing with nil unbinds it.
func (r *RestReducers) ReplaceErrorHandler(name string, handler *Handler) {
	r.replace(r.rejected(name), handler, r.errors)
}

// HasErrorHandler returns true if a handler is bound to the REJECTED
// type of operation name.
func (r *RestReducers) HasErrorHandler(name string) bool {
	return r.handlers.Has(r.rejected(name))
}

// GetErrorHandler returns the handler bound to the REJECTED type of
// operation name, or nil.
func (r *RestReducers) GetErrorHandler(name string) *Handler {
	return r.get(r.rejected(name))
}

// Types returns the notification types with bound handlers, in
// binding order.
func (r *RestReducers) Types() []string {
	return r.handlers.Keys()
}

// Defaults returns a copy of the default state.
func (r *RestReducers) Defaults() flux.State {
	r.lock.RLock()
	defer r.lock.RUnlock()
	result := r.defaults.Copy()
	result[ErrorsKey] = r.errors.Copy()
	return result
}

// Reduce folds n into state.  A nil state starts from Defaults().  If
// no handler is bound to the notification type, state itself is
// returned; reducing foreign traffic is not an error.
func (r *RestReducers) Reduce(state flux.State, n flux.Notification) flux.State {
	if state == nil {
		state = r.Defaults()
	}
	handler := r.get(n.Type)
	if handler == nil {
		return state
	}
	return handler.Handle(state, n)
}

// RegisterDefaultHandler adds a handler to the default table consulted
// by Init, unless one is already there for operation name.
func (r *RestReducers) RegisterDefaultHandler(name string, handler *Handler) bool {
	return r.defaultHandlers.Register(name, handler)
}

// UnregisterDefaultHandler removes an operation from the default
// table.
func (r *RestReducers) UnregisterDefaultHandler(name string) {
	r.defaultHandlers.Unregister(name)
}

// ReplaceDefaultHandler sets the default handler for operation name
// unconditionally.
func (r *RestReducers) ReplaceDefaultHandler(name string, handler *Handler) {
	r.defaultHandlers.Replace(name, handler)
}
