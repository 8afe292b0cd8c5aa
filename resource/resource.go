// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package resource defines an abstract API to a store of records,
// grouped into named collections.  This is the kind of backend the
// operation handlers in the actions package talk to over HTTP; the
// memory package provides an implementation and the restserver
// package publishes any implementation as a REST service.
//
// Records are plain string-keyed maps.  Every record has a string
// "id" field that is unique within its collection.
package resource

import (
	"errors"
	"fmt"
)

// IDField is the name of the record field holding its identifier.
const IDField = "id"

// Record is a single stored object.
type Record map[string]interface{}

// ID returns the identifier of r, or an empty string if it has none.
func (r Record) ID() string {
	if id, ok := r[IDField].(string); ok {
		return id
	}
	return ""
}

// Backend is the principal interface to a record store.  Collections
// spring into existence the first time they are written to; reading
// an unknown collection behaves like reading an empty one.
type Backend interface {
	// List returns every record in a collection, in creation
	// order.
	List(collection string) ([]Record, error)

	// Find returns the records in a collection where every key in
	// query is present with an equal value.
	Find(collection string, query map[string]interface{}) ([]Record, error)

	// Get retrieves a single record.  If it does not exist,
	// returns ErrNoSuchRecord.
	Get(collection, id string) (Record, error)

	// Create adds a new record.  If data has no identifier one is
	// generated.  Returns the stored record.
	Create(collection string, data Record) (Record, error)

	// Update merges data into an existing record and returns the
	// result.  The identifier cannot change.
	Update(collection, id string, data Record) (Record, error)

	// Delete removes a record and returns its final value.
	Delete(collection, id string) (Record, error)

	// Collections returns the number of records in each known
	// collection.
	Collections() (map[string]int, error)
}

// ErrBadRecord is returned from Create and Update if the record data
// is unusable, for instance, a non-string identifier.
var ErrBadRecord = errors.New("Record 'id' must be a string")

// ErrChangedID is returned from Update if it tries to change the
// identifier of a record.
var ErrChangedID = errors.New("Cannot change record 'id'")

// ErrDuplicateID is returned from Create if a record with the same
// identifier already exists.
type ErrDuplicateID struct {
	Collection string
	ID         string
}

func (err ErrDuplicateID) Error() string {
	return fmt.Sprintf("Record %v already exists in %v", err.ID, err.Collection)
}

// ErrNoSuchRecord is returned by Get and similar functions that want
// to look up a record, but cannot find it.
type ErrNoSuchRecord struct {
	Collection string
	ID         string
}

func (err ErrNoSuchRecord) Error() string {
	return fmt.Sprintf("No such record %v in %v", err.ID, err.Collection)
}
