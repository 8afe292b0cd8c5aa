// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// resource.Backend.  There is no persistence, nor is there any
// automatic sharing.  The entire system is behind a single global
// semaphore to protect against concurrent updates.
//
// This is mostly intended as a reference backend for testing,
// including end-to-end tests of the actions package through the
// restserver package, and for the restfluxd daemon.
package memory

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-restflux/resource"
	"github.com/satori/go.uuid"
)

// Timestamp field names maintained on every record.
const (
	CreatedField = "created"
	UpdatedField = "updated"
)

// New creates a new resource backend that operates purely in memory.
func New() resource.Backend {
	return NewWithClock(clock.New())
}

// NewWithClock creates a new resource backend that operates purely in
// memory, using a specified time source for record timestamps.
// Tests can pass a mock clock here.
func NewWithClock(clk clock.Clock) resource.Backend {
	return &backend{
		clock:       clk,
		collections: make(map[string]*collection),
	}
}

type backend struct {
	clock       clock.Clock
	collections map[string]*collection
	sem         sync.Mutex
}

// collection returns the named collection, creating it if create is
// set.  Must be called under the global lock.
func (b *backend) collection(name string, create bool) *collection {
	c := b.collections[name]
	if c == nil && create {
		c = newCollection(name)
		b.collections[name] = c
	}
	return c
}

func (b *backend) now() string {
	return b.clock.Now().UTC().Format(time.RFC3339Nano)
}

func (b *backend) List(name string) ([]resource.Record, error) {
	return b.Find(name, nil)
}

func (b *backend) Find(name string, query map[string]interface{}) ([]resource.Record, error) {
	b.sem.Lock()
	defer b.sem.Unlock()

	c := b.collection(name, false)
	if c == nil {
		return []resource.Record{}, nil
	}
	return c.match(query), nil
}

func (b *backend) Get(name, id string) (resource.Record, error) {
	b.sem.Lock()
	defer b.sem.Unlock()

	c := b.collection(name, false)
	if c == nil {
		return nil, resource.ErrNoSuchRecord{Collection: name, ID: id}
	}
	record, err := c.get(id)
	if err != nil {
		return nil, err
	}
	return copyRecord(record), nil
}

func (b *backend) Create(name string, data resource.Record) (resource.Record, error) {
	record := copyRecord(data)
	switch id := record[resource.IDField].(type) {
	case nil:
		record[resource.IDField] = uuid.NewV4().String()
	case string:
		if id == "" {
			record[resource.IDField] = uuid.NewV4().String()
		}
	default:
		return nil, resource.ErrBadRecord
	}

	b.sem.Lock()
	defer b.sem.Unlock()

	now := b.now()
	record[CreatedField] = now
	record[UpdatedField] = now
	if err := b.collection(name, true).add(record); err != nil {
		return nil, err
	}
	return copyRecord(record), nil
}

func (b *backend) Update(name, id string, data resource.Record) (resource.Record, error) {
	if newID, present := data[resource.IDField]; present {
		s, isString := newID.(string)
		if !isString {
			return nil, resource.ErrBadRecord
		}
		if s != id {
			return nil, resource.ErrChangedID
		}
	}

	b.sem.Lock()
	defer b.sem.Unlock()

	c := b.collection(name, false)
	if c == nil {
		return nil, resource.ErrNoSuchRecord{Collection: name, ID: id}
	}
	record, err := c.get(id)
	if err != nil {
		return nil, err
	}
	for k, v := range data {
		if k == CreatedField {
			continue
		}
		record[k] = v
	}
	record[UpdatedField] = b.now()
	return copyRecord(record), nil
}

func (b *backend) Delete(name, id string) (resource.Record, error) {
	b.sem.Lock()
	defer b.sem.Unlock()

	c := b.collection(name, false)
	if c == nil {
		return nil, resource.ErrNoSuchRecord{Collection: name, ID: id}
	}
	return c.remove(id)
}

func (b *backend) Collections() (map[string]int, error) {
	b.sem.Lock()
	defer b.sem.Unlock()

	result := make(map[string]int, len(b.collections))
	for name, c := range b.collections {
		result[name] = len(c.order)
	}
	return result, nil
}

func copyRecord(r resource.Record) resource.Record {
	result := make(resource.Record, len(r)+3)
	for k, v := range r {
		result[k] = v
	}
	return result
}
