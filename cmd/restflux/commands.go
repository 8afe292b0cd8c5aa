// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/diffeo/go-restflux/config"
	"github.com/diffeo/go-restflux/flux"
	"github.com/diffeo/go-restflux/restdata"
	"github.com/mitchellh/mapstructure"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

// step is one operation in a script.
type step struct {
	Namespace string      `mapstructure:"namespace"`
	Operation string      `mapstructure:"operation"`
	Params    interface{} `mapstructure:"params"`
}

var errUsage = errors.New("usage: exec NAMESPACE OPERATION [PARAMS-JSON]")

var execCommand = cli.Command{
	Name:      "exec",
	Usage:     "run one operation and print its notifications",
	ArgsUsage: "NAMESPACE OPERATION [PARAMS-JSON]",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "state",
			Usage: "print the namespace state afterwards",
		},
	},
	Action: func(c *cli.Context) error {
		args := c.Args()
		if len(args) < 2 || len(args) > 3 {
			return errUsage
		}
		s := step{Namespace: args[0], Operation: args[1]}
		if len(args) == 3 {
			if err := restdata.Unmarshal([]byte(args[2]), &s.Params); err != nil {
				return err
			}
		}
		w := c.App.Writer
		if err := env.run(context.Background(), w, []step{s}); err != nil {
			return err
		}
		if c.Bool("state") {
			return printState(w, s.Namespace, env.Store.State(s.Namespace))
		}
		return nil
	},
}

var scriptCommand = cli.Command{
	Name:      "script",
	Usage:     "run a YAML list of operations against one store",
	ArgsUsage: "FILE",
	Action: func(c *cli.Context) error {
		if len(c.Args()) != 1 {
			return errors.New("usage: script FILE")
		}
		data, err := ioutil.ReadFile(c.Args()[0])
		if err != nil {
			return err
		}
		steps, err := parseScript(data)
		if err != nil {
			return err
		}
		w := c.App.Writer
		if err := env.run(context.Background(), w, steps); err != nil {
			return err
		}
		snapshot := env.Store.Snapshot()
		namespaces := make([]string, 0, len(snapshot))
		for namespace := range snapshot {
			namespaces = append(namespaces, namespace)
		}
		sort.Strings(namespaces)
		for _, namespace := range namespaces {
			if err := printState(w, namespace, snapshot[namespace]); err != nil {
				return err
			}
		}
		return nil
	},
}

var namespacesCommand = cli.Command{
	Name:  "namespaces",
	Usage: "list the configured namespaces",
	Action: func(c *cli.Context) error {
		return env.printNamespaces(c.App.Writer)
	},
}

var routesCommand = cli.Command{
	Name:  "routes",
	Usage: "print the navigation table",
	Action: func(c *cli.Context) error {
		return env.Routes.Render(c.App.Writer)
	},
}

func parseScript(data []byte) ([]step, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	raw, err := config.Normalize(raw)
	if err != nil {
		return nil, err
	}
	var steps []step
	if err := mapstructure.Decode(raw, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// run executes steps in order, printing every notification as it is
// dispatched.
func (e *environment) run(ctx context.Context, w io.Writer, steps []step) error {
	var printErr error
	unsubscribe := e.Store.Subscribe(func(n flux.Notification) {
		if err := printNotification(w, n); err != nil && printErr == nil {
			printErr = err
		}
	})
	defer unsubscribe()

	for _, s := range steps {
		ra := e.Actions.Get(s.Namespace)
		if ra == nil {
			return fmt.Errorf("no namespace %v", s.Namespace)
		}
		e.Store.Run(ctx, ra.Execute(s.Operation, s.Params))
	}
	return printErr
}

func printNotification(w io.Writer, n flux.Notification) error {
	payload := n.Payload
	if err, isError := payload.(error); isError {
		payload = map[string]interface{}{"error": err.Error()}
	}
	data, err := restdata.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s %s\n", n.Type, data)
	return err
}

func printState(w io.Writer, namespace string, state flux.State) error {
	data, err := restdata.Marshal(state)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s %s\n", flux.Canonical(namespace), data)
	return err
}

func (e *environment) printNamespaces(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAMESPACE\tLOCATION\tOPERATIONS")
	for _, namespace := range e.Actions.Namespaces() {
		ra := e.Actions.Get(namespace)
		if ra == nil {
			continue
		}
		var ops []string
		for _, op := range ra.Operations() {
			if ra.IsAllowed(op) {
				ops = append(ops, op)
			} else {
				ops = append(ops, "("+op+")")
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", namespace, ra.Location(), strings.Join(ops, " "))
	}
	return tw.Flush()
}
