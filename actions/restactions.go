// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package actions

import (
	"context"
	"runtime"

	"github.com/diffeo/go-restflux/flux"
	"github.com/diffeo/go-restflux/restclient"
	"github.com/sirupsen/logrus"
)

// RestActions binds operation names to operation handlers for one
// namespace, and executes them with the START/FULFILLED/REJECTED
// notification lifecycle.
type RestActions struct {
	namespace string
	binding   Binding
	allowed   *flux.Table[Admission]
	handlers  *flux.Table[OperationHandler]
	defaults  *flux.Table[Constructor]

	// Logger receives a debug line for every lifecycle step.
	Logger logrus.FieldLogger
}

// NewRestActions creates the actions for a namespace whose resources
// live at location.  The instance has its own default-constructor
// table; RestActions created through an Actions registry share the
// registry's table instead.  No handlers are bound until Init or
// RegisterHandler is called.
func NewRestActions(namespace, location string, transport restclient.Transport, options Options) *RestActions {
	return newRestActions(namespace, location, transport, options, NewDefaultTable())
}

func newRestActions(namespace, location string, transport restclient.Transport, options Options, defaults *flux.Table[Constructor]) *RestActions {
	allowed := flux.NewTable[Admission](flux.Canonical)
	for name, admission := range options.Allowed {
		allowed.Replace(name, admission)
	}
	return &RestActions{
		namespace: flux.Canonical(namespace),
		binding: Binding{
			Location:  location,
			Transport: transport,
			IDField:   options.IDField,
		},
		allowed:  allowed,
		handlers: flux.NewTable[OperationHandler](flux.Canonical),
		defaults: defaults,
		Logger:   logrus.StandardLogger(),
	}
}

// Namespace returns the canonical namespace name.
func (ra *RestActions) Namespace() string {
	return ra.namespace
}

// Location returns the base resource location.
func (ra *RestActions) Location() string {
	return ra.binding.Location
}

// Init binds a handler for every entry in the default-constructor
// table.  Operations that already have a handler keep it, so calling
// Init again is harmless.
func (ra *RestActions) Init() *RestActions {
	for _, name := range ra.defaults.Keys() {
		ra.BindDefault(name)
	}
	return ra
}

// BindDefault binds the handler built by the default constructor for
// name, if there is one and nothing is bound yet.  Returns true if a
// handler was bound.
func (ra *RestActions) BindDefault(name string) bool {
	constructor, present := ra.defaults.Get(name)
	if !present {
		return false
	}
	return ra.RegisterHandler(name, constructor(ra.binding))
}

// Bind binds the handler built by constructor for name, if nothing is
// bound yet.
func (ra *RestActions) Bind(name string, constructor Constructor) bool {
	return ra.RegisterHandler(name, constructor(ra.binding))
}

// HasHandler returns true if a handler is bound to name.
func (ra *RestActions) HasHandler(name string) bool {
	return ra.handlers.Has(name)
}

// GetHandler returns the handler bound to name, or nil.
func (ra *RestActions) GetHandler(name string) OperationHandler {
	handler, _ := ra.handlers.Get(name)
	return handler
}

// RegisterHandler binds handler to name, unless a handler is already
// bound; use ReplaceHandler to change it.  Returns true if handler was
// bound.
func (ra *RestActions) RegisterHandler(name string, handler OperationHandler) bool {
	return ra.handlers.Register(name, handler)
}

// UnregisterHandler removes the handler bound to name.
func (ra *RestActions) UnregisterHandler(name string) {
	ra.handlers.Unregister(name)
}

// ReplaceHandler binds handler to name unconditionally.
func (ra *RestActions) ReplaceHandler(name string, handler OperationHandler) {
	ra.handlers.Replace(name, handler)
}

// Operations returns the names with bound handlers, in binding order.
func (ra *RestActions) Operations() []string {
	return ra.handlers.Keys()
}

// RegisterDefaultHandler adds a constructor to the default table
// consulted by Init, unless one is already there.  Namespaces that are
// already initialized are not affected.
func (ra *RestActions) RegisterDefaultHandler(name string, constructor Constructor) bool {
	return ra.defaults.Register(name, constructor)
}

// UnregisterDefaultHandler removes a constructor from the default
// table.
func (ra *RestActions) UnregisterDefaultHandler(name string) {
	ra.defaults.Unregister(name)
}

// ReplaceDefaultHandler sets a constructor in the default table
// unconditionally.
func (ra *RestActions) ReplaceDefaultHandler(name string, constructor Constructor) {
	ra.defaults.Replace(name, constructor)
}

// SetAllowed replaces the admission policy for name.
func (ra *RestActions) SetAllowed(name string, admission Admission) {
	ra.allowed.Replace(name, admission)
}

// IsAllowed evaluates the admission policy for name.  Operations
// without a policy are not allowed.
func (ra *RestActions) IsAllowed(name string) bool {
	admission, present := ra.allowed.Get(name)
	if !present || admission == nil {
		return false
	}
	return admission.Admit()
}

// Execute returns a task that runs the operation name with params.
// Nothing happens until the host calls the task.  When it does, the
// task dispatches, in order:
//
//   - {NAMESPACE}_{NAME}_START with params as payload;
//   - {NAMESPACE}_{NAME}_REJECTED with flux.ErrNoSuchOperation if no
//     handler is bound, or flux.ErrNotAllowed if admission is denied;
//   - otherwise {NAMESPACE}_{NAME}_FULFILLED with the handler result,
//     or REJECTED with the handler error.
//
// Exactly one terminal notification follows every START.
func (ra *RestActions) Execute(name string, params interface{}) flux.Task {
	name = flux.Canonical(name)
	namespace := ra.namespace
	return func(ctx context.Context, dispatch flux.Dispatcher) {
		log := ra.Logger.WithFields(logrus.Fields{
			"namespace": namespace,
			"operation": name,
		})
		log.Debug("start")
		dispatch(flux.Notification{
			Type:    flux.Type(namespace, name, flux.PhaseStart),
			Payload: params,
		})

		reject := func(err error) {
			log.WithError(err).Debug("rejected")
			dispatch(flux.Notification{
				Type:    flux.Type(namespace, name, flux.PhaseRejected),
				Payload: err,
			})
		}

		handler := ra.GetHandler(name)
		if handler == nil {
			reject(flux.ErrNoSuchOperation{Namespace: namespace, Operation: name})
			return
		}
		if !ra.IsAllowed(name) {
			reject(flux.ErrNotAllowed{Namespace: namespace, Operation: name})
			return
		}

		result, err := safeExecute(ctx, handler, params)
		if err != nil {
			reject(err)
			return
		}
		log.Debug("fulfilled")
		dispatch(flux.Notification{
			Type:    flux.Type(namespace, name, flux.PhaseFulfilled),
			Payload: result,
		})
	}
}

// safeExecute runs handler, turning a panic into a flux.PanicError.
func safeExecute(ctx context.Context, handler OperationHandler, params interface{}) (result interface{}, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			var stack [4096]byte
			n := runtime.Stack(stack[:], false)
			result = nil
			err = flux.PanicError{Value: recovered, Stack: string(stack[:n])}
		}
	}()
	return handler.Execute(ctx, params)
}
