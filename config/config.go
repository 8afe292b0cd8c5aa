// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package config declares namespaces, reducer handlers and routes in a
// YAML file, instead of registering them one call at a time.
//
//     base_url: http://localhost:5980
//     timeout: 10s
//     namespaces:
//       - name: users
//         location: /users
//         allowed: {all: true, get: true, find: true}
//         operations: [find]
//         handlers:
//           find: {name: results, default: []}
//         error_handlers:
//           get: {name: error}
//     routes:
//       - path: /users
//         unit: UserList
//         options: {title: Users}
//
// Load or Parse the file, then Apply it to the registries.
package config

import (
	"fmt"
	"io/ioutil"
	"reflect"
	"time"

	"github.com/diffeo/go-restflux/actions"
	"github.com/diffeo/go-restflux/flux"
	"github.com/diffeo/go-restflux/reducers"
	"github.com/diffeo/go-restflux/routes"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// Handler declares a reducer handler.
type Handler struct {
	Name    string      `mapstructure:"name"`
	Default interface{} `mapstructure:"default"`
}

// Namespace declares the actions and reducers of one namespace.
type Namespace struct {
	// Name is the namespace name.  Required.
	Name string `mapstructure:"name"`

	// Location is the resource location, absolute or relative to
	// the base URL.  Required.
	Location string `mapstructure:"location"`

	// IDField names the identity field of operation parameters.
	IDField string `mapstructure:"id_field"`

	// Allowed holds the static admission policy per operation.
	// Operations not listed are not allowed.
	Allowed map[string]bool `mapstructure:"allowed"`

	// Operations names built-in operations to bind beyond the
	// default set, such as "find".
	Operations []string `mapstructure:"operations"`

	// Handlers replace or add reducer handlers, keyed by
	// operation name.
	Handlers map[string]Handler `mapstructure:"handlers"`

	// ErrorHandlers add reducer handlers for REJECTED
	// notifications, keyed by operation name.
	ErrorHandlers map[string]Handler `mapstructure:"error_handlers"`
}

// Route declares one navigation route.
type Route struct {
	Path    string                 `mapstructure:"path"`
	Unit    string                 `mapstructure:"unit"`
	Options map[string]interface{} `mapstructure:"options"`
}

// Config is a complete declarative configuration.
type Config struct {
	// BaseURL is where relative resource locations are resolved.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds every network call; zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`

	Namespaces []Namespace `mapstructure:"namespaces"`
	Routes     []Route     `mapstructure:"routes"`
}

// Load reads a configuration file.
func Load(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML configuration.  Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	raw, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			decodeSecondsAsDuration,
		),
		ErrorUnused: true,
		Result:      config,
	})
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if err := decoder.Decode(raw); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// decodeSecondsAsDuration is a mapstructure decode hook that accepts
// a bare number of seconds where a duration is expected.
func decodeSecondsAsDuration(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch n := data.(type) {
	case int:
		return time.Duration(n) * time.Second, nil
	case float64:
		return time.Duration(n * float64(time.Second)), nil
	}
	return data, nil
}

// Validate checks that every namespace and route is usable.
func (c *Config) Validate() error {
	for i, ns := range c.Namespaces {
		if ns.Name == "" {
			return flux.ConfigurationError{Message: fmt.Sprintf("namespace %d has no name", i)}
		}
		if ns.Location == "" {
			return flux.ConfigurationError{Message: fmt.Sprintf("namespace %v has no location", ns.Name)}
		}
		for _, op := range ns.Operations {
			if _, known := actions.Constructors[flux.Canonical(op)]; !known {
				return flux.ConfigurationError{Message: fmt.Sprintf("namespace %v: unknown operation %v", ns.Name, op)}
			}
		}
		for op, h := range ns.Handlers {
			if h.Name == "" {
				return flux.ConfigurationError{Message: fmt.Sprintf("namespace %v: handler for %v has no name", ns.Name, op)}
			}
		}
		for op, h := range ns.ErrorHandlers {
			if h.Name == "" {
				return flux.ConfigurationError{Message: fmt.Sprintf("namespace %v: error handler for %v has no name", ns.Name, op)}
			}
		}
	}
	for i, route := range c.Routes {
		if route.Path == "" {
			return flux.ConfigurationError{Message: fmt.Sprintf("route %d has no path", i)}
		}
	}
	return nil
}

// Options builds the actions options for a namespace.
func (ns Namespace) Options() actions.Options {
	allowed := make(map[string]actions.Admission, len(ns.Allowed))
	for op, ok := range ns.Allowed {
		allowed[op] = actions.Allow(ok)
	}
	return actions.Options{Allowed: allowed, IDField: ns.IDField}
}

// Apply validates the configuration and registers everything it
// declares.  Namespaces and routes that are already registered are
// left alone, following the usual registration rule; declared
// handlers replace the defaults of newly registered namespaces.  Any
// of the registries may be nil, in which case that part is skipped.
func (c *Config) Apply(a *actions.Actions, r *reducers.Reducers, rt *routes.Routes) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, ns := range c.Namespaces {
		if a != nil && !a.Has(ns.Name) {
			ra := a.Register(ns.Name, ns.Location, ns.Options())
			for _, op := range ns.Operations {
				ra.Bind(op, actions.Constructors[flux.Canonical(op)])
			}
		}
		if r != nil && !r.Has(ns.Name) {
			rr := r.Register(ns.Name)
			for op, h := range ns.Handlers {
				handler, err := reducers.NewHandler(h.Name, h.Default)
				if err != nil {
					return err
				}
				rr.ReplaceHandler(op, handler)
			}
			for op, h := range ns.ErrorHandlers {
				handler, err := reducers.NewHandler(h.Name, h.Default)
				if err != nil {
					return err
				}
				rr.ReplaceErrorHandler(op, handler)
			}
		}
	}
	if rt != nil {
		for _, route := range c.Routes {
			rt.Register(route.Path, route.Unit, route.Options)
		}
	}
	return nil
}
