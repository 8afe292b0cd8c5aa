// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package flux defines the shared vocabulary between the actions and
// reducers packages: notifications, their phases, and the type strings
// that address them.
//
// An operation on a namespace produces a sequence of notifications.
// The first always has phase START and carries the call parameters;
// the last has phase FULFILLED (carrying the result) or REJECTED
// (carrying an error).  The notification type string
//
//     USERS_GET_FULFILLED
//
// is the only thing a reducer uses to find its handler, so both sides
// must build it with Type.
package flux

import (
	"context"
	"strings"
)

// Phase is the lifecycle stage of a single operation execution.
type Phase string

const (
	// PhaseStart is emitted synchronously when a task begins.
	PhaseStart Phase = "START"

	// PhaseFulfilled is emitted when the operation succeeded.
	PhaseFulfilled Phase = "FULFILLED"

	// PhaseRejected is emitted when the operation failed, for
	// whatever reason.
	PhaseRejected Phase = "REJECTED"
)

// Phases lists all of the phases in lifecycle order.
var Phases = []Phase{PhaseStart, PhaseFulfilled, PhaseRejected}

// Canonical returns the canonical form of a namespace or operation
// name.  Names are compared case-insensitively everywhere, and
// registries store this form.
func Canonical(name string) string {
	return strings.ToUpper(name)
}

// Type builds the notification type string for an operation phase on
// a namespace.
func Type(namespace, operation string, phase Phase) string {
	return Canonical(namespace) + "_" + Canonical(operation) + "_" + string(phase)
}

// SplitType breaks a notification type into its operation and phase,
// given the namespace it belongs to.  ok is false if the type does
// not belong to namespace or does not end in a known phase.
func SplitType(namespace, notificationType string) (operation string, phase Phase, ok bool) {
	prefix := Canonical(namespace) + "_"
	if !strings.HasPrefix(notificationType, prefix) {
		return "", "", false
	}
	rest := notificationType[len(prefix):]
	for _, p := range Phases {
		suffix := "_" + string(p)
		if strings.HasSuffix(rest, suffix) && len(rest) > len(suffix) {
			return rest[:len(rest)-len(suffix)], p, true
		}
	}
	return "", "", false
}

// Notification is a typed message with a payload.  The payload of a
// START notification is the operation parameters, of FULFILLED the
// operation result, and of REJECTED an error.
type Notification struct {
	Type    string
	Payload interface{}
}

// Dispatcher accepts a notification and returns whatever the host
// store considers its current output.
type Dispatcher func(Notification) interface{}

// Task is a deferred operation.  Nothing happens until the host store
// calls it with a dispatch capability.  A task may block on network
// I/O; ctx is passed through to the transport.
type Task func(ctx context.Context, dispatch Dispatcher)

// State is the reduced state of one namespace.
type State map[string]interface{}

// Copy returns a shallow copy of s.  Copying a nil State produces an
// empty, non-nil State.
func (s State) Copy() State {
	result := make(State, len(s)+1)
	for k, v := range s {
		result[k] = v
	}
	return result
}

// Reducer folds a notification into a state.
type Reducer func(State, Notification) State
