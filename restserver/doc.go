// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes a resource.Backend as a REST service.
// The restclient package is a matching HTTP transport, and the
// operation handlers in the actions package speak this URL scheme.
//
// The wire format is defined in the restdata package.
//
// HTTP Considerations
//
// This interface does not support HTTP caching or authentication
// headers.  Authentication in particular is the surrounding
// application's concern.
//
// MIME Types
//
// This interface understands MIME types as follows:
//
//     application/vnd.diffeo.restflux.v1+json
//
// JSON representation of version 1 of this interface.
//
//     application/vnd.diffeo.restflux+json
//     application/json
//     text/json
//
// JSON representation of latest version of this interface.
//
// URL Scheme
//
// Collections and records are addressed by name.  Each name is one
// percent-encoded path segment, so /users/a%2Fb%20c is the record
// "a/b c" in the collection "users".
//
// The following URLs are defined:
//
//     /{collection}          GET (list, or find with ?query=), POST
//     /{collection}/{id}     GET, PUT, DELETE
package restserver
