// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package reducers

import (
	"reflect"
	"sync"
	"testing"

	"github.com/diffeo/go-restflux/flux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerNeedsName(t *testing.T) {
	_, err := NewHandler("", nil)
	assert.Equal(t, flux.ErrNoHandlerName, err)
	assert.IsType(t, flux.ConfigurationError{}, err)

	assert.Panics(t, func() { MustHandler("", 1) })
}

func TestHandlerFallsBackToDefaults(t *testing.T) {
	h := MustHandler("list", []interface{}{})
	prior := flux.State{"list": []interface{}{1, 2}}
	result := h.Handle(prior, flux.Notification{Type: "USERS_ALL_FULFILLED"})
	assert.Equal(t, flux.State{"list": []interface{}{}}, result)
	assert.Equal(t, []interface{}{1, 2}, prior["list"])
}

func TestHandlerStoresPayload(t *testing.T) {
	h := MustHandler("item", nil)
	assert.Equal(t, "item", h.Name())
	assert.Nil(t, h.Defaults())

	prior := flux.State{"list": "x"}
	result := h.Handle(prior, flux.Notification{Payload: 5})
	assert.Equal(t, flux.State{"list": "x", "item": 5}, result)
	assert.NotContains(t, prior, "item")

	// A nil prior state is fine too
	assert.Equal(t, flux.State{"item": 5}, h.Handle(nil, flux.Notification{Payload: 5}))
}

func TestInitDefaults(t *testing.T) {
	r := NewRestReducers("users").Init()
	assert.Equal(t, "USERS", r.Namespace())
	assert.Equal(t, []string{
		"USERS_ALL_FULFILLED",
		"USERS_GET_FULFILLED",
		"USERS_PUT_FULFILLED",
		"USERS_POST_FULFILLED",
		"USERS_DELETE_FULFILLED",
	}, r.Types())
	assert.Equal(t, flux.State{
		"USERS_ALL_FULFILLED":    []interface{}{},
		"USERS_GET_FULFILLED":    nil,
		"USERS_PUT_FULFILLED":    nil,
		"USERS_POST_FULFILLED":   nil,
		"USERS_DELETE_FULFILLED": nil,
		"errors":                 flux.State{},
	}, r.Defaults())

	for op, key := range map[string]string{
		"all":    ListKey,
		"get":    ItemKey,
		"put":    UpdatedKey,
		"post":   CreatedKey,
		"delete": DeletedKey,
	} {
		if assert.True(t, r.HasHandler(op), op) {
			assert.Equal(t, key, r.GetHandler(op).Name())
		}
	}
	assert.False(t, r.HasHandler("find"))
}

func TestRegisterIsIdempotent(t *testing.T) {
	r := NewRestReducers("users")
	h := MustHandler("results", []interface{}{})

	assert.True(t, r.RegisterHandler("find", h))
	once := r.Defaults()
	assert.False(t, r.RegisterHandler("find", h))
	assert.Equal(t, once, r.Defaults())

	// A different handler under the same name changes nothing
	assert.False(t, r.RegisterHandler("FIND", MustHandler("other", 17)))
	assert.Equal(t, once, r.Defaults())
	assert.Equal(t, h, r.GetHandler("find"))
}

func TestReplaceAndUnregister(t *testing.T) {
	r := NewRestReducers("users")
	r.RegisterHandler("find", MustHandler("results", []interface{}{}))
	r.ReplaceHandler("find", MustHandler("found", 0))
	assert.Equal(t, "found", r.GetHandler("find").Name())
	assert.Equal(t, 0, r.Defaults()["USERS_FIND_FULFILLED"])

	r.UnregisterHandler("find")
	assert.False(t, r.HasHandler("find"))
	assert.Nil(t, r.GetHandler("find"))
	assert.NotContains(t, r.Defaults(), "USERS_FIND_FULFILLED")
}

func TestNilHandlerIsNotBound(t *testing.T) {
	r := NewRestReducers("users")
	assert.False(t, r.RegisterHandler("get", nil))
	assert.False(t, r.RegisterErrorHandler("get", nil))
	assert.False(t, r.HasHandler("get"))
	assert.False(t, r.HasErrorHandler("get"))
	assert.Equal(t, flux.State{ErrorsKey: flux.State{}}, r.Defaults())

	r.RegisterHandler("get", MustHandler(ItemKey, nil))
	r.ReplaceHandler("get", nil)
	assert.False(t, r.HasHandler("get"))
	assert.NotContains(t, r.Defaults(), "USERS_GET_FULFILLED")
}

func TestReplaceKeepsTypeBound(t *testing.T) {
	r := NewRestReducers("users")
	first := MustHandler("first", nil)
	second := MustHandler("second", nil)
	r.RegisterHandler("get", first)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				r.ReplaceHandler("get", second)
			} else {
				r.ReplaceHandler("get", first)
			}
		}
	}()

	n := flux.Notification{Type: "USERS_GET_FULFILLED", Payload: 1}
	for i := 0; i < 1000; i++ {
		state := r.Reduce(flux.State{}, n)
		if state["first"] != 1 && state["second"] != 1 {
			t.Errorf("notification not reduced on iteration %d: %v", i, state)
			break
		}
	}
	close(stop)
	wg.Wait()
}

func TestErrorHandlers(t *testing.T) {
	r := NewRestReducers("users").Init()
	h := MustHandler("error", nil)

	assert.True(t, r.RegisterErrorHandler("get", h))
	assert.True(t, r.HasErrorHandler("GET"))
	assert.Equal(t, h, r.GetErrorHandler("get"))
	// Error handlers do not collide with success handlers
	assert.Equal(t, ItemKey, r.GetHandler("get").Name())

	defaults := r.Defaults()
	assert.Equal(t, flux.State{"USERS_GET_REJECTED": nil}, defaults[ErrorsKey])
	assert.NotContains(t, defaults, "USERS_GET_REJECTED")

	state := r.Reduce(nil, flux.Notification{Type: "USERS_GET_REJECTED", Payload: "boom"})
	assert.Equal(t, "boom", state["error"])

	r.ReplaceErrorHandler("get", MustHandler("failure", "none"))
	assert.Equal(t, flux.State{"USERS_GET_REJECTED": "none"}, r.Defaults()[ErrorsKey])

	r.UnregisterErrorHandler("get")
	assert.False(t, r.HasErrorHandler("get"))
	assert.Equal(t, flux.State{}, r.Defaults()[ErrorsKey])
}

func TestReduce(t *testing.T) {
	r := NewRestReducers("users").Init()

	state := r.Reduce(nil, flux.Notification{
		Type:    "USERS_ALL_FULFILLED",
		Payload: []interface{}{"a", "b"},
	})
	assert.Equal(t, []interface{}{"a", "b"}, state[ListKey])
	assert.Contains(t, state, "USERS_ALL_FULFILLED")

	state = r.Reduce(state, flux.Notification{Type: "USERS_ALL_FULFILLED"})
	assert.Equal(t, []interface{}{}, state[ListKey])

	// START is not bound by default
	state = r.Reduce(state, flux.Notification{Type: "USERS_ALL_START", Payload: "x"})
	assert.Equal(t, []interface{}{}, state[ListKey])
}

func TestReduceUnknownTypeIsIdentity(t *testing.T) {
	r := NewRestReducers("users").Init()
	state := flux.State{"list": []interface{}{1, 2}}
	for _, typ := range []string{"ACCOUNTS_ALL_FULFILLED", "USERS_FIND_FULFILLED", "whatever", ""} {
		result := r.Reduce(state, flux.Notification{Type: typ, Payload: 1})
		assert.Equal(t, reflect.ValueOf(state).Pointer(), reflect.ValueOf(result).Pointer(), typ)
	}
}

func TestReduceNilUnknownIsDefaults(t *testing.T) {
	r := NewRestReducers("users").Init()
	assert.Equal(t, r.Defaults(), r.Reduce(nil, flux.Notification{}))
}

func TestDefaultsIsACopy(t *testing.T) {
	r := NewRestReducers("users").Init()
	d := r.Defaults()
	d["extra"] = 1
	d[ErrorsKey].(flux.State)["X"] = 2
	assert.NotContains(t, r.Defaults(), "extra")
	assert.Equal(t, flux.State{}, r.Defaults()[ErrorsKey])
}

func TestRegistry(t *testing.T) {
	registry := New()
	users := registry.Register("users")
	require.NotNil(t, users)
	assert.True(t, users.HasHandler("all"))
	assert.True(t, users == registry.Register("Users"))
	assert.True(t, users == registry.Get("USERS"))
	assert.True(t, registry.Has("uSeRs"))

	registry.Register("accounts")
	assert.Equal(t, []string{"USERS", "ACCOUNTS"}, registry.Namespaces())

	registry.Unregister("users")
	assert.False(t, registry.Has("users"))
	assert.Nil(t, registry.Get("users"))
	assert.Equal(t, []string{"ACCOUNTS"}, registry.Namespaces())
}

func TestRegisteredNamespaceIsBound(t *testing.T) {
	registry := New()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			registry.Register("users")
			registry.Unregister("users")
		}
	}()
	for i := 0; i < 1000; i++ {
		if users := registry.Get("users"); users != nil {
			assert.True(t, users.HasHandler("all"))
		}
	}
	wg.Wait()
}

func TestGetCombined(t *testing.T) {
	registry := New()
	registry.Register("users")
	registry.Register("accounts").RegisterErrorHandler("all", MustHandler("error", nil))

	combined := registry.GetCombined()
	require.Len(t, combined, 2)
	require.Contains(t, combined, "USERS")
	require.Contains(t, combined, "ACCOUNTS")
	assert.Equal(t, registry.Get("users").Defaults(), combined["USERS"]())
	assert.Equal(t,
		flux.State{"ACCOUNTS_ALL_REJECTED": nil},
		combined["ACCOUNTS"]()[ErrorsKey])
}

func TestDefaultTableAffectsLaterNamespaces(t *testing.T) {
	registry := New()
	early := registry.Register("early")

	assert.True(t, registry.RegisterDefaultHandler("find", MustHandler("results", []interface{}{})))
	assert.False(t, registry.RegisterDefaultHandler("FIND", MustHandler("other", nil)))
	registry.UnregisterDefaultHandler("delete")
	late := registry.Register("late")

	assert.False(t, early.HasHandler("find"))
	assert.True(t, early.HasHandler("delete"))
	assert.Equal(t, "results", late.GetHandler("find").Name())
	assert.False(t, late.HasHandler("delete"))

	late.ReplaceDefaultHandler("find", MustHandler("found", nil))
	later := registry.Register("later")
	assert.Equal(t, "found", later.GetHandler("find").Name())

	later.UnregisterDefaultHandler("find")
	assert.True(t, later.RegisterDefaultHandler("find", MustHandler("results", nil)))
}
