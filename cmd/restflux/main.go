// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Command restflux drives the namespaces declared in a configuration
// file from the command line.  Every operation runs through a store,
// and every notification it produces is printed.
package main

import (
	"net/http"
	"os"

	"github.com/diffeo/go-restflux/actions"
	"github.com/diffeo/go-restflux/backend"
	"github.com/diffeo/go-restflux/config"
	"github.com/diffeo/go-restflux/reducers"
	"github.com/diffeo/go-restflux/routes"
	"github.com/diffeo/go-restflux/store"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// environment is everything the subcommands share.
type environment struct {
	Config   *config.Config
	Actions  *actions.Actions
	Reducers *reducers.Reducers
	Routes   *routes.Routes
	Store    *store.Store
}

var env environment

// setup builds the registries and the store from a configuration.
// The backend defaults to the configured base URL, or to an
// in-process memory store if there is none.
func setup(cfg *config.Config, b backend.Backend) (*environment, error) {
	if b.Implementation == "" {
		if cfg.BaseURL != "" {
			if err := b.Set(cfg.BaseURL); err != nil {
				return nil, err
			}
		} else {
			b.Implementation = "memory"
		}
	}
	transport, err := b.Transport(&http.Client{Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}

	e := &environment{
		Config:   cfg,
		Actions:  actions.New(transport),
		Reducers: reducers.New(),
		Routes:   routes.New(),
	}
	if err := cfg.Apply(e.Actions, e.Reducers, e.Routes); err != nil {
		return nil, err
	}
	e.Store, err = store.New(e.Reducers)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func main() {
	var b backend.Backend
	app := cli.NewApp()
	app.Name = "restflux"
	app.Usage = "run resource operations declared in a configuration file"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Value:  "restflux.yaml",
			Usage:  "YAML file declaring namespaces and routes",
			EnvVar: "RESTFLUX_CONFIG",
		},
		cli.GenericFlag{
			Name:  "backend",
			Value: &b,
			Usage: "impl[:address] of the resource backend, overriding base_url",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "warning",
			Usage: "minimum level of log messages",
		},
	}
	app.Commands = []cli.Command{
		execCommand,
		scriptCommand,
		namespacesCommand,
		routesCommand,
	}
	app.Before = func(c *cli.Context) error {
		level, err := logrus.ParseLevel(c.String("log-level"))
		if err != nil {
			return err
		}
		logrus.SetLevel(level)

		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		e, err := setup(cfg, b)
		if err != nil {
			return err
		}
		env = *e
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("restflux failed")
	}
}
