// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"reflect"

	"github.com/diffeo/go-restflux/resource"
)

// collection holds the records of one named collection.  All of its
// methods run under the backend's global lock.
type collection struct {
	name    string
	records map[string]resource.Record
	order   []string
}

func newCollection(name string) *collection {
	return &collection{
		name:    name,
		records: make(map[string]resource.Record),
	}
}

func (c *collection) get(id string) (resource.Record, error) {
	record, present := c.records[id]
	if !present {
		return nil, resource.ErrNoSuchRecord{Collection: c.name, ID: id}
	}
	return record, nil
}

func (c *collection) add(record resource.Record) error {
	id := record.ID()
	if _, present := c.records[id]; present {
		return resource.ErrDuplicateID{Collection: c.name, ID: id}
	}
	c.records[id] = record
	c.order = append(c.order, id)
	return nil
}

func (c *collection) remove(id string) (resource.Record, error) {
	record, err := c.get(id)
	if err != nil {
		return nil, err
	}
	delete(c.records, id)
	for i, other := range c.order {
		if other == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return record, nil
}

// match returns copies of the records, in creation order, that have
// every key in query with an equal value.  A nil query matches
// everything.
func (c *collection) match(query map[string]interface{}) []resource.Record {
	result := []resource.Record{}
	for _, id := range c.order {
		record := c.records[id]
		if matches(record, query) {
			result = append(result, copyRecord(record))
		}
	}
	return result
}

func matches(record resource.Record, query map[string]interface{}) bool {
	for k, want := range query {
		have, present := record[k]
		if !present || !equalValues(have, want) {
			return false
		}
	}
	return true
}

// equalValues compares two decoded values.  Numbers compare by value
// regardless of their Go type, since JSON decoding does not preserve
// it.
func equalValues(a, b interface{}) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
