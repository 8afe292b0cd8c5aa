// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"testing"

	"github.com/diffeo/go-restflux/resource/resourcetest"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic resource tests against the memory backend.
type Suite struct {
	resourcetest.Suite
}

// SetupTest creates a fresh backend for every test.
func (s *Suite) SetupTest() {
	s.Backend = NewWithClock(s.Clock)
}

// TestBackend runs the resource generic tests.
func TestBackend(t *testing.T) {
	suite.Run(t, &Suite{})
}
