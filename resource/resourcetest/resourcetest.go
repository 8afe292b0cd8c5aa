// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package resourcetest provides generic functional tests for the
// resource.Backend interface.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//     package mybackend
//
//     import (
//             "testing"
//             "github.com/diffeo/go-restflux/resource/resourcetest"
//             "github.com/stretchr/testify/suite"
//     )
//
//     // Suite is the per-backend generic test suite.
//     type Suite struct{
//             resourcetest.Suite
//     }
//
//     // SetupTest creates a fresh backend for every test.
//     func (s *Suite) SetupTest() {
//             s.Backend = NewWithClock(s.Clock)
//     }
//
//     // TestBackend runs the resource generic tests.
//     func TestBackend(t *testing.T) {
//             suite.Run(t, &Suite{})
//     }
package resourcetest

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-restflux/resource"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic resource backend test suite.
type Suite struct {
	suite.Suite

	// Clock contains the alternate time source to be used in
	// tests.  It is pre-initialized to a mock clock.
	Clock *clock.Mock

	// Backend contains the backend under test.  It is set by
	// importing packages, usually in SetupTest.
	Backend resource.Backend
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	s.Clock = clock.NewMock()
}

// create adds a record and fails the test if that does not work.
func (s *Suite) create(collection string, data resource.Record) resource.Record {
	record, err := s.Backend.Create(collection, data)
	s.Require().NoError(err)
	return record
}

// TestEmptyCollection checks that unknown collections read as empty.
func (s *Suite) TestEmptyCollection() {
	records, err := s.Backend.List("nothing")
	if s.NoError(err) {
		s.Empty(records)
	}

	_, err = s.Backend.Get("nothing", "x")
	s.Equal(resource.ErrNoSuchRecord{Collection: "nothing", ID: "x"}, err)
}

// TestCreateGeneratesID checks that records without an identifier
// get one.
func (s *Suite) TestCreateGeneratesID() {
	record := s.create("users", resource.Record{"name": "alice"})
	s.NotEmpty(record.ID())
	s.Equal("alice", record["name"])

	fetched, err := s.Backend.Get("users", record.ID())
	if s.NoError(err) {
		s.Equal(record, fetched)
	}
}

// TestCreateKeepsID checks that a client-supplied identifier is kept,
// and that duplicates are refused.
func (s *Suite) TestCreateKeepsID() {
	record := s.create("users", resource.Record{"id": "7", "name": "bob"})
	s.Equal("7", record.ID())

	_, err := s.Backend.Create("users", resource.Record{"id": "7"})
	s.Equal(resource.ErrDuplicateID{Collection: "users", ID: "7"}, err)

	_, err = s.Backend.Create("users", resource.Record{"id": 7})
	s.Equal(resource.ErrBadRecord, err)
}

// TestTimestamps checks the created and updated fields.
func (s *Suite) TestTimestamps() {
	record := s.create("users", resource.Record{"id": "t"})
	s.Equal(record["created"], record["updated"])

	s.Clock.Add(5 * time.Second)
	updated, err := s.Backend.Update("users", "t", resource.Record{"name": "ted"})
	if s.NoError(err) {
		s.Equal(record["created"], updated["created"])
		s.NotEqual(record["updated"], updated["updated"])
		s.Equal("ted", updated["name"])
	}
}

// TestUpdate checks merge semantics and identifier protection.
func (s *Suite) TestUpdate() {
	s.create("users", resource.Record{"id": "u", "name": "u", "role": "user"})

	updated, err := s.Backend.Update("users", "u", resource.Record{"role": "admin"})
	if s.NoError(err) {
		s.Equal("u", updated["name"])
		s.Equal("admin", updated["role"])
	}

	_, err = s.Backend.Update("users", "u", resource.Record{"id": "v"})
	s.Equal(resource.ErrChangedID, err)

	_, err = s.Backend.Update("users", "u", resource.Record{"id": "u", "x": 1})
	s.NoError(err)

	_, err = s.Backend.Update("users", "missing", resource.Record{})
	s.Equal(resource.ErrNoSuchRecord{Collection: "users", ID: "missing"}, err)
}

// TestDelete checks that deleted records are gone.
func (s *Suite) TestDelete() {
	s.create("users", resource.Record{"id": "d", "name": "dan"})

	deleted, err := s.Backend.Delete("users", "d")
	if s.NoError(err) {
		s.Equal("dan", deleted["name"])
	}

	_, err = s.Backend.Get("users", "d")
	s.Equal(resource.ErrNoSuchRecord{Collection: "users", ID: "d"}, err)

	_, err = s.Backend.Delete("users", "d")
	s.Equal(resource.ErrNoSuchRecord{Collection: "users", ID: "d"}, err)
}

// TestListOrderAndFind checks creation ordering and query matching.
func (s *Suite) TestListOrderAndFind() {
	s.create("users", resource.Record{"id": "a", "role": "admin", "level": 3})
	s.create("users", resource.Record{"id": "b", "role": "user", "level": 1})
	s.create("users", resource.Record{"id": "c", "role": "admin", "level": 1})

	records, err := s.Backend.List("users")
	if s.NoError(err) && s.Len(records, 3) {
		s.Equal("a", records[0].ID())
		s.Equal("b", records[1].ID())
		s.Equal("c", records[2].ID())
	}

	records, err = s.Backend.Find("users", map[string]interface{}{"role": "admin"})
	if s.NoError(err) && s.Len(records, 2) {
		s.Equal("a", records[0].ID())
		s.Equal("c", records[1].ID())
	}

	// Numbers match by value, whatever their decoded type
	records, err = s.Backend.Find("users", map[string]interface{}{"level": float64(1), "role": "admin"})
	if s.NoError(err) && s.Len(records, 1) {
		s.Equal("c", records[0].ID())
	}

	records, err = s.Backend.Find("users", map[string]interface{}{"missing": true})
	if s.NoError(err) {
		s.Empty(records)
	}
}

// TestCollections checks the per-collection counts.
func (s *Suite) TestCollections() {
	s.create("users", resource.Record{})
	s.create("users", resource.Record{})
	s.create("groups", resource.Record{})

	counts, err := s.Backend.Collections()
	if s.NoError(err) {
		s.Equal(map[string]int{"users": 2, "groups": 1}, counts)
	}
}

// TestReturnedRecordsAreCopies checks that callers cannot change
// stored state by mutating a returned record.
func (s *Suite) TestReturnedRecordsAreCopies() {
	record := s.create("users", resource.Record{"id": "c", "name": "carol"})
	record["name"] = "mallory"

	fetched, err := s.Backend.Get("users", "c")
	if s.NoError(err) {
		s.Equal("carol", fetched["name"])
	}
}
