// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package actions

// Admission decides whether an operation may run.  It is evaluated
// every time the operation executes.
type Admission interface {
	Admit() bool
}

// Allow is a static admission policy.
type Allow bool

// Admit returns the policy itself.
func (a Allow) Admit() bool {
	return bool(a)
}

// AllowFunc is a dynamic admission policy, such as a feature flag or
// a permission check.
type AllowFunc func() bool

// Admit calls f.
func (f AllowFunc) Admit() bool {
	return f()
}

// Options configure a RestActions instance.
type Options struct {
	// Allowed holds the admission policy per operation name.
	// Names are case-insensitive.  An operation with no entry is
	// not allowed.
	Allowed map[string]Admission

	// IDField names the identity field inside operation
	// parameters.  Defaults to DefaultIDField.
	IDField string
}

// Permit builds an Allowed map that statically allows the named
// operations.
func Permit(names ...string) map[string]Admission {
	result := make(map[string]Admission, len(names))
	for _, name := range names {
		result[name] = Allow(true)
	}
	return result
}
