// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package store

import (
	"testing"

	"github.com/diffeo/go-restflux/flux"
	"github.com/diffeo/go-restflux/reducers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, namespaces ...string) (*Store, *reducers.Reducers) {
	rs := reducers.New()
	for _, namespace := range namespaces {
		rs.Register(namespace)
	}
	s, err := New(rs, WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	return s, rs
}

func TestDispatchLongestPrefix(t *testing.T) {
	s, _ := newStore(t, "user", "user_accounts")

	result := s.Dispatch(flux.Notification{
		Type:    "USER_ACCOUNTS_ALL_FULFILLED",
		Payload: []interface{}{"a"},
	})
	if assert.IsType(t, flux.State{}, result) {
		assert.Equal(t, []interface{}{"a"}, result.(flux.State)["list"])
	}
	assert.Equal(t, []interface{}{"a"}, s.State("user_accounts")["list"])
	assert.Equal(t, []interface{}{}, s.State("user")["list"])

	s.Dispatch(flux.Notification{Type: "USER_GET_FULFILLED", Payload: "me"})
	assert.Equal(t, "me", s.State("USER")["item"])
	assert.Nil(t, s.State("user_accounts")["item"])
}

func TestDispatchForeign(t *testing.T) {
	s, _ := newStore(t, "users")
	var seen []string
	s.Subscribe(func(n flux.Notification) { seen = append(seen, n.Type) })

	assert.Nil(t, s.Dispatch(flux.Notification{Type: "ROUTER_NAVIGATE", Payload: "/"}))
	assert.Nil(t, s.Dispatch(flux.Notification{Type: "USERSX_ALL_FULFILLED"}))
	assert.Equal(t, []string{"ROUTER_NAVIGATE", "USERSX_ALL_FULFILLED"}, seen)
	assert.Equal(t, 2.0, testutil.ToFloat64(s.notifications.WithLabelValues("", "OTHER")))
	assert.Equal(t, reducers.New().Register("users").Defaults(), s.State("users"))
}

func TestSubscribe(t *testing.T) {
	s, _ := newStore(t, "users")
	var first, second []flux.Notification
	unsubscribe := s.Subscribe(func(n flux.Notification) { first = append(first, n) })
	s.Subscribe(func(n flux.Notification) { second = append(second, n) })

	n := flux.Notification{Type: "USERS_GET_START", Payload: 1}
	s.Dispatch(n)
	unsubscribe()
	unsubscribe()
	s.Dispatch(n)

	assert.Equal(t, []flux.Notification{n}, first)
	assert.Equal(t, []flux.Notification{n, n}, second)
}

func TestNotificationMetrics(t *testing.T) {
	s, _ := newStore(t, "users")
	s.Dispatch(flux.Notification{Type: "USERS_ALL_START"})
	s.Dispatch(flux.Notification{Type: "USERS_ALL_FULFILLED"})
	s.Dispatch(flux.Notification{Type: "USERS_GET_START"})
	s.Dispatch(flux.Notification{Type: "USERS_GET_REJECTED"})

	assert.Equal(t, 2.0, testutil.ToFloat64(s.notifications.WithLabelValues("USERS", "START")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.notifications.WithLabelValues("USERS", "FULFILLED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.notifications.WithLabelValues("USERS", "REJECTED")))
}

func TestSharedRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	rs := reducers.New()
	rs.Register("users")
	s1, err := New(rs, WithRegisterer(reg))
	require.NoError(t, err)
	s2, err := New(rs, WithRegisterer(reg))
	require.NoError(t, err)

	s1.Dispatch(flux.Notification{Type: "USERS_ALL_START"})
	s2.Dispatch(flux.Notification{Type: "USERS_ALL_START"})
	assert.Equal(t, 2.0, testutil.ToFloat64(s2.notifications.WithLabelValues("USERS", "START")))
}

func TestStateAndSnapshot(t *testing.T) {
	s, rs := newStore(t, "users")
	assert.Nil(t, s.State("accounts"))

	// Namespaces registered after the store was created work too
	rs.Register("accounts")
	s.Dispatch(flux.Notification{Type: "ACCOUNTS_POST_FULFILLED", Payload: "new"})

	snapshot := s.Snapshot()
	assert.Len(t, snapshot, 2)
	assert.Equal(t, "new", snapshot["ACCOUNTS"]["created"])
	assert.Equal(t, rs.Get("users").Defaults(), snapshot["USERS"])

	// Returned states are copies
	snapshot["ACCOUNTS"]["created"] = "changed"
	assert.Equal(t, "new", s.State("accounts")["created"])
}
