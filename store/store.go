// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package store provides a minimal host store for the actions and
// reducers packages.  It keeps one state per registered namespace,
// folds every dispatched notification into the owning namespace's
// state, and runs the tasks produced by actions.RestActions.Execute.
//
//     s := store.New(reducers)
//     s.Run(ctx, actions.Get("users").Execute("all", nil))
//     users := s.State("users")
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/diffeo/go-restflux/flux"
	"github.com/diffeo/go-restflux/reducers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Subscriber is called after every dispatched notification has been
// reduced.
type Subscriber func(flux.Notification)

// Store holds the reduced state of every namespace in a Reducers
// registry.  Dispatch is serialized; when notifications from
// overlapping operations race, the last one dispatched wins.
type Store struct {
	reducers      *reducers.Reducers
	logger        logrus.FieldLogger
	notifications *prometheus.CounterVec

	lock        sync.Mutex
	states      map[string]flux.State
	subscribers map[int]Subscriber
	nextID      int

	tasks sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the logger for dispatch tracing.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithRegisterer registers the store's metrics with reg.  If an
// identical collector is already registered there, the store shares
// it.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Store) error {
		err := reg.Register(s.notifications)
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				s.notifications = existing
				return nil
			}
		}
		return err
	}
}

// New creates a store over a reducer registry.  Namespaces may be
// registered with rs before or after the store is created.
func New(rs *reducers.Reducers, options ...Option) (*Store, error) {
	s := &Store{
		reducers: rs,
		logger:   logrus.StandardLogger(),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "restflux",
				Subsystem: "store",
				Name:      "notifications_total",
				Help:      "Notifications dispatched, by namespace and phase",
			},
			[]string{"namespace", "phase"},
		),
		states:      make(map[string]flux.State),
		subscribers: make(map[int]Subscriber),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// route finds the registered namespace owning a notification type:
// the longest namespace that, followed by "_", prefixes the type.
func (s *Store) route(notificationType string) string {
	best := ""
	for _, namespace := range s.reducers.Namespaces() {
		if len(namespace) > len(best) && strings.HasPrefix(notificationType, namespace+"_") {
			best = namespace
		}
	}
	return best
}

// Dispatch folds n into the state of its namespace and notifies
// subscribers.  It returns the new state of the namespace, or nil if
// no registered namespace owns the notification.  Dispatch is a
// flux.Dispatcher.
func (s *Store) Dispatch(n flux.Notification) interface{} {
	namespace := s.route(n.Type)
	phase := "OTHER"
	if namespace != "" {
		if _, p, ok := flux.SplitType(namespace, n.Type); ok {
			phase = string(p)
		}
	}
	s.notifications.WithLabelValues(namespace, phase).Inc()
	s.logger.WithFields(logrus.Fields{
		"type":      n.Type,
		"namespace": namespace,
	}).Debug("dispatch")

	var state flux.State
	s.lock.Lock()
	if r := s.reducers.Get(namespace); namespace != "" && r != nil {
		state = r.Reduce(s.states[namespace], n)
		s.states[namespace] = state
	}
	subscribers := make([]Subscriber, 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if subscriber, present := s.subscribers[id]; present {
			subscribers = append(subscribers, subscriber)
		}
	}
	s.lock.Unlock()

	for _, subscriber := range subscribers {
		subscriber(n)
	}
	if state == nil {
		return nil
	}
	return state.Copy()
}

// Subscribe adds a function called after every dispatch, in
// subscription order.  Calling the returned function removes it.
func (s *Store) Subscribe(subscriber Subscriber) (unsubscribe func()) {
	s.lock.Lock()
	defer s.lock.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = subscriber
	return func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		delete(s.subscribers, id)
	}
}

// Run executes a task synchronously, with Dispatch as its dispatch
// capability.
func (s *Store) Run(ctx context.Context, task flux.Task) {
	task(ctx, s.Dispatch)
}

// Go executes a task in a new goroutine.  Use Wait to wait for all of
// these tasks to finish.
func (s *Store) Go(ctx context.Context, task flux.Task) {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		task(ctx, s.Dispatch)
	}()
}

// Wait blocks until every task started with Go has finished.
func (s *Store) Wait() {
	s.tasks.Wait()
}

// State returns a copy of the current state of namespace.  A
// namespace that has seen no notifications yet has its default
// state.  Returns nil if the namespace is not registered.
func (s *Store) State(namespace string) flux.State {
	r := s.reducers.Get(namespace)
	if r == nil {
		return nil
	}
	s.lock.Lock()
	state, present := s.states[r.Namespace()]
	s.lock.Unlock()
	if !present {
		return r.Defaults()
	}
	return state.Copy()
}

// Snapshot returns the current state of every registered namespace.
func (s *Store) Snapshot() map[string]flux.State {
	combined := s.reducers.GetCombined()
	result := make(map[string]flux.State, len(combined))
	s.lock.Lock()
	defer s.lock.Unlock()
	for namespace, initial := range combined {
		if state, present := s.states[namespace]; present {
			result[namespace] = state.Copy()
		} else {
			result[namespace] = initial()
		}
	}
	return result
}
