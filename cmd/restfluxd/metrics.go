// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"time"

	"github.com/diffeo/go-restflux/resource"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var recordCount = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "restflux",
		Subsystem: "backend",
		Name:      "records",
		Help:      "Number of records per collection",
	},
	[]string{
		"collection",
	},
)

func init() {
	prometheus.MustRegister(recordCount)
}

// record sets the record count gauge once.
func record(resources resource.Backend) error {
	counts, err := resources.Collections()
	if err != nil {
		return err
	}
	for collection, count := range counts {
		recordCount.With(prometheus.Labels{
			"collection": collection,
		}).Set(float64(count))
	}
	return nil
}

// observe refreshes the record count gauge forever.
func observe(resources resource.Backend, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := record(resources); err != nil {
			logrus.WithField("err", err).Warn("Could not count records")
		}
		<-ticker.C
	}
}
