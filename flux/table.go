// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package flux

// This file provides the keyed registry used by every registry in
// this module.  All of them share the same rule: registering a key
// that is already present does nothing, and callers that want to
// change an entry must replace it explicitly.

import (
	"sync"
)

// Table is a keyed registry with insert-if-absent semantics.  Keys are
// passed through a fold function before use, so a Table built with
// NewTable(Canonical) is case-insensitive.  The table remembers
// registration order.  It can be safely accessed from multiple
// goroutines.
type Table[V any] struct {
	fold    func(string) string
	lock    sync.RWMutex
	order   []string
	entries map[string]V
}

// NewTable creates an empty table.  If fold is nil, keys are used
// as-is.
func NewTable[V any](fold func(string) string) *Table[V] {
	if fold == nil {
		fold = func(key string) string { return key }
	}
	return &Table[V]{
		fold:    fold,
		entries: make(map[string]V),
	}
}

// Register adds value under key, unless something is already
// registered there.  Returns true if value was added.
func (t *Table[V]) Register(key string, value V) bool {
	key = t.fold(key)
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, present := t.entries[key]; present {
		return false
	}
	t.add(key, value)
	return true
}

// Replace unconditionally binds value to key.  An existing entry keeps
// its position in the registration order.
func (t *Table[V]) Replace(key string, value V) {
	key = t.fold(key)
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, present := t.entries[key]; present {
		t.entries[key] = value
		return
	}
	t.add(key, value)
}

// Unregister removes key.  It does nothing if key is absent.  Returns
// true if something was removed.
func (t *Table[V]) Unregister(key string) bool {
	key = t.fold(key)
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, present := t.entries[key]; !present {
		return false
	}
	delete(t.entries, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Has returns true if something is registered under key.
func (t *Table[V]) Has(key string) bool {
	_, present := t.Get(key)
	return present
}

// Get retrieves the value registered under key.
func (t *Table[V]) Get(key string) (value V, present bool) {
	key = t.fold(key)
	t.lock.RLock()
	defer t.lock.RUnlock()

	value, present = t.entries[key]
	return
}

// Keys returns the (folded) keys in registration order.
func (t *Table[V]) Keys() []string {
	t.lock.RLock()
	defer t.lock.RUnlock()

	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// Len returns the number of entries.
func (t *Table[V]) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.entries)
}

// add is an internal helper, running under the write lock, that adds
// a key known to be absent.
func (t *Table[V]) add(key string, value V) {
	t.entries[key] = value
	t.order = append(t.order, key)
}
