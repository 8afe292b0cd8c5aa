// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Command restfluxd serves an in-memory resource store over REST.
// Every collection is at /{collection}, every record at
// /{collection}/{id}, and Prometheus metrics are at /metrics.
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/diffeo/go-restflux/backend"
	"github.com/diffeo/go-restflux/restserver"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/urfave/negroni"
)

func main() {
	app := cli.NewApp()
	app.Name = "restfluxd"
	app.Usage = "serve an in-memory resource store over REST"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "http",
			Value: ":5980",
			Usage: "[ip]:port for HTTP REST interface",
		},
		cli.StringFlag{
			Name:  "seed",
			Usage: "YAML file of initial records, keyed by collection",
		},
		cli.BoolFlag{
			Name:  "log-requests",
			Usage: "log all requests",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "minimum level of log messages",
		},
		cli.DurationFlag{
			Name:  "metrics-interval",
			Value: 15 * time.Second,
			Usage: "how often to refresh the record count metrics",
		},
	}
	app.Action = serve
	if err := app.Run(os.Args); err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("restfluxd failed")
	}
}

func serve(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	b := backend.Backend{Implementation: "memory"}
	resources, err := b.Resource()
	if err != nil {
		return err
	}
	if seed := c.String("seed"); seed != "" {
		if err := loadSeed(resources, seed); err != nil {
			logrus.WithFields(logrus.Fields{
				"err":  err,
				"seed": seed,
			}).Error("Could not load seed records")
			return err
		}
	}

	// /metrics must come first, since /{collection} matches it too
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	restserver.PopulateRouter(r, resources)

	recovery := negroni.NewRecovery()
	recovery.Logger = logrus.StandardLogger()
	n := negroni.New(recovery)
	if c.Bool("log-requests") {
		requests := negroni.NewLogger()
		requests.ALogger = logrus.StandardLogger()
		n.Use(requests)
	}
	n.UseHandler(r)

	go observe(resources, c.Duration("metrics-interval"))

	bind := c.String("http")
	logrus.WithField("http", bind).Info("Serving resources")
	return http.ListenAndServe(bind, n)
}
