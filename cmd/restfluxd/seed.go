// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/diffeo/go-restflux/config"
	"github.com/diffeo/go-restflux/resource"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// loadSeed creates the records in a YAML file of the form
//
//     users:
//       - {id: "1", name: alice}
//       - {name: bob}
//
// Collections are created in name order, records in file order.
func loadSeed(resources resource.Backend, filename string) error {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	return seed(resources, data)
}

func seed(resources resource.Backend, data []byte) error {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw, err := config.Normalize(raw)
	if err != nil {
		return err
	}
	var collections map[string][]map[string]interface{}
	if err := mapstructure.Decode(raw, &collections); err != nil {
		return err
	}

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for i, record := range collections[name] {
			if _, err := resources.Create(name, resource.Record(record)); err != nil {
				return fmt.Errorf("%v record %d: %v", name, i, err)
			}
		}
	}
	return nil
}
