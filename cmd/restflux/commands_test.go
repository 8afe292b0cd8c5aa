// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/diffeo/go-restflux/backend"
	"github.com/diffeo/go-restflux/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
namespaces:
  - name: users
    location: /users
    allowed: {all: true, post: true, get: true}
routes:
  - path: /users
    unit: UserList
`

func newEnvironment(t *testing.T) *environment {
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)
	e, err := setup(cfg, backend.Backend{})
	require.NoError(t, err)
	return e
}

func TestScript(t *testing.T) {
	e := newEnvironment(t)
	steps, err := parseScript([]byte(`
- {namespace: users, operation: post, params: {id: "1", name: alice}}
- {namespace: users, operation: all}
- {namespace: users, operation: delete, params: {id: "1"}}
`))
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, map[string]interface{}{"id": "1", "name": "alice"}, steps[0].Params)

	var buf bytes.Buffer
	require.NoError(t, e.run(context.Background(), &buf, steps))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "USERS_POST_START "))
	assert.True(t, strings.HasPrefix(lines[1], "USERS_POST_FULFILLED "))
	assert.True(t, strings.HasPrefix(lines[3], "USERS_ALL_FULFILLED "))
	assert.Contains(t, lines[3], "alice")
	assert.Equal(t,
		`USERS_DELETE_REJECTED {"error":"Handler DELETE on namespace USERS must not be executed"}`,
		lines[5])

	list := e.Store.State("users")["list"].([]interface{})
	assert.Len(t, list, 1)
}

func TestRunUnknownNamespace(t *testing.T) {
	e := newEnvironment(t)
	var buf bytes.Buffer
	err := e.run(context.Background(), &buf, []step{{Namespace: "accounts", Operation: "all"}})
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestPrintNamespaces(t *testing.T) {
	e := newEnvironment(t)
	var buf bytes.Buffer
	require.NoError(t, e.printNamespaces(&buf))
	assert.Equal(t,
		"NAMESPACE  LOCATION  OPERATIONS\n"+
			"USERS      /users    ALL GET (PUT) POST (DELETE)\n",
		buf.String())
}

func TestSetupUsesBaseURL(t *testing.T) {
	cfg, err := config.Parse([]byte("base_url: http://localhost:5980/\n"))
	require.NoError(t, err)
	_, err = setup(cfg, backend.Backend{})
	assert.NoError(t, err)

	cfg.BaseURL = "ftp://localhost/"
	_, err = setup(cfg, backend.Backend{})
	assert.Error(t, err)

	// An explicit backend wins
	_, err = setup(cfg, backend.Backend{Implementation: "memory"})
	assert.NoError(t, err)
}
