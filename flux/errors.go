// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package flux

import (
	"errors"
	"fmt"
)

// ErrMissingID is returned from operations that address a single
// resource, such as GET or DELETE, if the parameters do not contain
// an identifier.
var ErrMissingID = errors.New("No identifier in operation parameters")

// ConfigurationError is returned at construction time when a component
// is built with unusable arguments.  It is not recoverable.
type ConfigurationError struct {
	Message string
}

func (err ConfigurationError) Error() string {
	return err.Message
}

// ErrNoHandlerName is returned when a reducer handler is built without
// a name.
var ErrNoHandlerName = ConfigurationError{Message: "You must pass a name for this handler"}

// ErrNoSuchOperation is the payload of a REJECTED notification when no
// operation handler is bound to the requested name.
type ErrNoSuchOperation struct {
	Namespace string
	Operation string
}

func (err ErrNoSuchOperation) Error() string {
	return fmt.Sprintf("No handler with name %v on namespace %v registered", err.Operation, err.Namespace)
}

// ErrNotAllowed is the payload of a REJECTED notification when the
// admission policy for an operation denies it.
type ErrNotAllowed struct {
	Namespace string
	Operation string
}

func (err ErrNotAllowed) Error() string {
	return fmt.Sprintf("Handler %v on namespace %v must not be executed", err.Operation, err.Namespace)
}

// PanicError is the payload of a REJECTED notification when an
// operation handler panicked.
type PanicError struct {
	Value interface{}
	Stack string
}

func (err PanicError) Error() string {
	if e, isError := err.Value.(error); isError {
		return "panic: " + e.Error()
	}
	return fmt.Sprintf("panic: %+v", err.Value)
}
