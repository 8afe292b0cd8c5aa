// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package backend provides a standard way to construct a transport
// based on command-line flags.
package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diffeo/go-restflux/memory"
	"github.com/diffeo/go-restflux/resource"
	"github.com/diffeo/go-restflux/restclient"
	"github.com/diffeo/go-restflux/restserver"
)

// Backend describes user-visible parameters to reach resource data.
// This implements the flag.Value interface, and so a typical use is
//
//     func main() {
//         backend := backend.Backend{Implementation: "memory"}
//         flag.Var(&backend, "backend", "impl[:address] of resource storage")
//         flag.Parse()
//         transport, err := backend.Transport(http.DefaultClient)
//     }
//
// "memory" serves an in-process memory store through the REST
// server without touching the network; "http" and "https" talk to a
// remote server, such as restfluxd, at the address.
type Backend struct {
	// Implementation holds the name of the implementation; for
	// instance, "memory".
	Implementation string

	// Address holds some backend-specific address, such as the
	// "//localhost:5980/" part of an HTTP URL.
	Address string
}

// inProcessURL is the base URL of the in-process memory server.
const inProcessURL = "http://memory.invalid/"

// Transport creates a new transport.  client carries timeouts and
// similar settings for remote backends, and may be nil.  If the
// backend has in-process state, calling this multiple times will
// create multiple copies of that state.  In particular, if
// b.Implementation is "memory", multiple calls to this will create
// multiple independent resource "worlds".
func (b *Backend) Transport(client *http.Client) (restclient.Transport, error) {
	switch b.Implementation {
	case "memory":
		inProcess := restclient.InProcess(restserver.NewRouter(b.newMemory()))
		if client != nil {
			inProcess.Timeout = client.Timeout
		}
		return newClient(inProcessURL, inProcess)
	case "http", "https":
		return newClient(b.String(), client)
	default:
		return nil, errors.New("unknown resource backend " + b.Implementation)
	}
}

func newClient(baseURL string, client *http.Client) (restclient.Transport, error) {
	c, err := restclient.New(baseURL, client)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Resource creates the resource store behind the backend.  Only
// in-process implementations have one.
func (b *Backend) Resource() (resource.Backend, error) {
	switch b.Implementation {
	case "memory":
		return b.newMemory(), nil
	default:
		return nil, errors.New("resource backend " + b.Implementation + " is not in-process")
	}
}

func (b *Backend) newMemory() resource.Backend {
	return memory.New()
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where
// address can be any string.  Set checks to see if the provided
// implementation is any of the known implementations, and returns an
// appropriate error if not.
//
// This is part of the flag.Value interface.  Note that Set does not
// attempt to validate the b.Address part of the string or attempt to
// actually make a connection.
func (b *Backend) Set(param string) error {
	parts := strings.SplitN(param, ":", 2)
	switch parts[0] {
	case "memory", "http", "https":
	case "":
		return errors.New("must specify a backend type")
	default:
		return errors.New("unknown resource backend " + parts[0])
	}
	b.Implementation = parts[0]
	b.Address = ""
	if len(parts) == 2 {
		b.Address = parts[1]
	}
	return nil
}
