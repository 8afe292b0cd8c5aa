// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package store

import (
	"context"
	"sync"
	"testing"

	"github.com/diffeo/go-restflux/actions"
	"github.com/diffeo/go-restflux/flux"
	"github.com/diffeo/go-restflux/memory"
	"github.com/diffeo/go-restflux/reducers"
	"github.com/diffeo/go-restflux/resource"
	"github.com/diffeo/go-restflux/restclient"
	"github.com/diffeo/go-restflux/restserver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// EndToEndSuite drives namespaces through the store, the HTTP
// transport and the REST server, down to a memory backend.
type EndToEndSuite struct {
	suite.Suite
	Backend  resource.Backend
	Actions  *actions.Actions
	Reducers *reducers.Reducers
	Store    *Store

	lock  sync.Mutex
	Types []string
}

func TestEndToEnd(t *testing.T) {
	suite.Run(t, &EndToEndSuite{})
}

func (s *EndToEndSuite) SetupTest() {
	s.Backend = memory.New()
	client, err := restclient.New("http://restflux.test/", restclient.InProcess(restserver.NewRouter(s.Backend)))
	s.Require().NoError(err)

	s.Actions = actions.New(client)
	s.Actions.RegisterDefaultHandler(actions.Find, actions.NewFind)
	s.Reducers = reducers.New()
	s.Reducers.RegisterDefaultHandler(actions.Find, reducers.MustHandler("results", []interface{}{}))

	s.Actions.Register("users", "/users", actions.Options{
		Allowed: actions.Permit(actions.All, actions.Get, actions.Find, actions.Post, actions.Put, actions.Delete),
	})
	s.Reducers.Register("users")

	s.Store, err = New(s.Reducers, WithRegisterer(prometheus.NewRegistry()))
	s.Require().NoError(err)

	s.Types = nil
	s.Store.Subscribe(func(n flux.Notification) {
		s.lock.Lock()
		defer s.lock.Unlock()
		s.Types = append(s.Types, n.Type)
	})
}

func (s *EndToEndSuite) run(op string, params interface{}) {
	s.Store.Run(context.Background(), s.Actions.Get("users").Execute(op, params))
}

func (s *EndToEndSuite) create(id, name string) {
	_, err := s.Backend.Create("users", resource.Record{"id": id, "name": name})
	s.Require().NoError(err)
}

func (s *EndToEndSuite) TestPostThenAll() {
	s.run("post", map[string]interface{}{"name": "alice"})
	created, ok := s.Store.State("users")["created"].(map[string]interface{})
	s.Require().True(ok)
	s.Equal("alice", created["name"])
	s.NotEmpty(created["id"])

	s.run("all", nil)
	list, ok := s.Store.State("users")["list"].([]interface{})
	if s.True(ok) && s.Len(list, 1) {
		s.Equal(created["id"], list[0].(map[string]interface{})["id"])
	}
	s.Equal([]string{
		"USERS_POST_START", "USERS_POST_FULFILLED",
		"USERS_ALL_START", "USERS_ALL_FULFILLED",
	}, s.Types)
}

func (s *EndToEndSuite) TestDeleteScenario() {
	s.create("7", "gone")
	var notifications []flux.Notification
	s.Store.Subscribe(func(n flux.Notification) { notifications = append(notifications, n) })

	params := map[string]interface{}{"id": 7}
	s.run("delete", params)
	s.Require().Len(notifications, 2)
	s.Equal(flux.Notification{Type: "USERS_DELETE_START", Payload: params}, notifications[0])
	s.Equal("USERS_DELETE_FULFILLED", notifications[1].Type)
	deleted, ok := notifications[1].Payload.(map[string]interface{})
	if s.True(ok) {
		s.Equal("7", deleted["id"])
		s.Equal("gone", deleted["name"])
	}
	s.Equal(deleted, s.Store.State("users")["deleted"])

	// Deleting again fails on the server
	s.run("delete", params)
	s.Require().Len(notifications, 4)
	s.Equal("USERS_DELETE_REJECTED", notifications[3].Type)
	s.Equal(resource.ErrNoSuchRecord{Collection: "users", ID: "7"}, notifications[3].Payload)
}

func (s *EndToEndSuite) TestGetAndPut() {
	s.create("5", "bob")
	s.run("get", 5)
	item := s.Store.State("users")["item"].(map[string]interface{})
	s.Equal("bob", item["name"])

	s.run("put", map[string]interface{}{"id": "5", "name": "robert"})
	updated := s.Store.State("users")["updated"].(map[string]interface{})
	s.Equal("robert", updated["name"])

	record, err := s.Backend.Get("users", "5")
	s.NoError(err)
	s.Equal("robert", record["name"])
}

func (s *EndToEndSuite) TestFind() {
	s.create("1", "alice")
	s.create("2", "bob")
	s.create("3", "alice")

	s.run("find", map[string]interface{}{"name": "alice"})
	results, ok := s.Store.State("users")["results"].([]interface{})
	if s.True(ok) && s.Len(results, 2) {
		s.Equal("1", results[0].(map[string]interface{})["id"])
		s.Equal("3", results[1].(map[string]interface{})["id"])
	}
}

func (s *EndToEndSuite) TestEscapedID() {
	for _, id := range []string{"a/b c", "a@b.com", "-1"} {
		s.create(id, "odd")
		s.run("get", id)
		item, ok := s.Store.State("users")["item"].(map[string]interface{})
		if s.True(ok, id) {
			s.Equal(id, item["id"])
		}
	}

	s.run("delete", map[string]interface{}{"id": "a@b.com"})
	_, err := s.Backend.Get("users", "a@b.com")
	s.Error(err)
}

func (s *EndToEndSuite) TestNotAllowed() {
	s.Actions.Get("users").SetAllowed("delete", actions.Allow(false))
	s.create("7", "kept")
	s.run("delete", 7)
	s.Equal([]string{"USERS_DELETE_START", "USERS_DELETE_REJECTED"}, s.Types)
	_, err := s.Backend.Get("users", "7")
	s.NoError(err)
}

func (s *EndToEndSuite) TestConcurrentTasks() {
	for _, id := range []string{"1", "2", "3", "4"} {
		s.create(id, "user "+id)
	}
	for _, id := range []string{"1", "2", "3", "4"} {
		s.Store.Go(context.Background(), s.Actions.Get("users").Execute("get", id))
	}
	s.Store.Wait()

	s.lock.Lock()
	defer s.lock.Unlock()
	s.Len(s.Types, 8)
	// Whichever GET finished last owns the item
	item := s.Store.State("users")["item"].(map[string]interface{})
	s.Contains([]string{"1", "2", "3", "4"}, item["id"])
}

func (s *EndToEndSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Store.Run(ctx, s.Actions.Get("users").Execute("all", nil))
	s.Equal([]string{"USERS_ALL_START", "USERS_ALL_REJECTED"}, s.Types)
}

func TestStandaloneRestActions(t *testing.T) {
	// RestActions work without a registry as long as something runs
	// the task
	backend := memory.New()
	client, err := restclient.New("http://restflux.test", restclient.InProcess(restserver.NewRouter(backend)))
	require.NoError(t, err)
	users := actions.NewRestActions("users", "/users", client, actions.Options{
		Allowed: actions.Permit("post"),
	}).Init()
	r := reducers.NewRestReducers("users").Init()

	var state flux.State
	users.Execute("post", map[string]interface{}{"id": "x"})(context.Background(), func(n flux.Notification) interface{} {
		state = r.Reduce(state, n)
		return state
	})
	if assert.IsType(t, map[string]interface{}{}, state["created"]) {
		assert.Equal(t, "x", state["created"].(map[string]interface{})["id"])
	}
}
