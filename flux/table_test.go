// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type TableAssertions struct {
	*assert.Assertions
	Table *Table[string]
}

func NewTableAssertions(t assert.TestingT) *TableAssertions {
	return &TableAssertions{
		assert.New(t),
		NewTable[string](Canonical),
	}
}

// TableHas asserts that key is bound to value.
func (a *TableAssertions) TableHas(key, value string) {
	actual, present := a.Table.Get(key)
	if a.True(present, "missing key %q", key) {
		a.Equal(value, actual)
	}
}

// TableDoesNotHave asserts that nothing is bound to key.
func (a *TableAssertions) TableDoesNotHave(key string) {
	a.False(a.Table.Has(key), "unexpected key %q", key)
}

func TestTableRegisterKeepsFirst(t *testing.T) {
	a := NewTableAssertions(t)
	a.True(a.Table.Register("get", "first"))
	a.False(a.Table.Register("GET", "second"))
	a.TableHas("Get", "first")
	a.Equal(1, a.Table.Len())
}

func TestTableReplace(t *testing.T) {
	a := NewTableAssertions(t)
	a.Table.Register("a", "1")
	a.Table.Register("b", "2")
	a.Table.Replace("A", "3")
	a.TableHas("a", "3")
	a.Equal([]string{"A", "B"}, a.Table.Keys())

	a.Table.Replace("c", "4")
	a.TableHas("C", "4")
	a.Equal([]string{"A", "B", "C"}, a.Table.Keys())
}

func TestTableUnregister(t *testing.T) {
	a := NewTableAssertions(t)
	a.Table.Register("a", "1")
	a.Table.Register("b", "2")
	a.Table.Register("c", "3")

	a.True(a.Table.Unregister("B"))
	a.False(a.Table.Unregister("b"))
	a.TableDoesNotHave("b")
	a.Equal([]string{"A", "C"}, a.Table.Keys())

	// After removal, registration works again
	a.True(a.Table.Register("b", "5"))
	a.TableHas("b", "5")
	a.Equal([]string{"A", "C", "B"}, a.Table.Keys())
}

func TestTableNoFold(t *testing.T) {
	table := NewTable[int](nil)
	table.Register("/users", 1)
	table.Register("/Users", 2)
	assert.Equal(t, 2, table.Len())
	v, _ := table.Get("/users")
	assert.Equal(t, 1, v)
}

func TestTableKeysIsACopy(t *testing.T) {
	a := NewTableAssertions(t)
	a.Table.Register("a", "1")
	keys := a.Table.Keys()
	keys[0] = "Z"
	a.Equal([]string{"A"}, a.Table.Keys())
}
