// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines common data structures shared between the
// restserver package and the HTTP transport in restclient.
// Generally JSON encodings of these are passed across the wire as the
// application/vnd.diffeo.restflux.v1+json MIME type, though plain
// application/json is accepted everywhere.
//
// API Usage
//
// Every collection of records lives at a URL path of its own, and
// every record under that path followed by its identifier:
//
//     GET    /users                       list all records
//     GET    /users?query={"role":"x"}    records matching a query
//     POST   /users                       create a record
//     GET    /users/1234                  one record
//     PUT    /users/1234                  update a record
//     DELETE /users/1234                  delete a record
//
// The query parameter is a JSON object; a record matches if every key
// in the query is present in the record with an equal value.
//
// Records are JSON objects.  The server assigns the "id" field on
// creation if the client does not supply one, and maintains "created"
// and "updated" timestamps as RFC 3339 strings.
//
// Encoding Considerations
//
// Collection names and identifiers appear in URL paths as single
// percent-encoded path segments, so "a/b c" is addressed as
// /users/a%2Fb%20c.  Numeric identifiers use their plain decimal form.
// See FormatID.
//
// HTTP Considerations
//
// The server returns 200 OK with a body, 201 Created for POST, 400 Bad
// Request, 404 Not Found, 406 Not Acceptable and 415 Unsupported Media
// Type.  Errors carry an ErrorResponse body.
package restdata

// V1JSONMediaType is the preferred, most specific MIME type for the
// JSON representation of this content.
const V1JSONMediaType = "application/vnd.diffeo.restflux.v1+json"

// JSONMediaType requests the most recent version of the JSON
// representation of this content.
const JSONMediaType = "application/vnd.diffeo.restflux+json"

// Record is the wire representation of a single record.
type Record map[string]interface{}

// ErrorResponse is the body of an HTTP error response.
type ErrorResponse struct {
	// Error is a short description of the failure.  This may be
	// the name of a well-known error, the string "panic", or the
	// string "error" for some other kind of error.
	Error string `json:"error"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Value is an additional parameter for some errors, such as
	// the collection of a missing record.
	Value string `json:"value,omitempty"`

	// ID is the identifier of a missing record.
	ID string `json:"id,omitempty"`

	// Stack is a stack trace, only set for panics.
	Stack string `json:"stack,omitempty"`
}
