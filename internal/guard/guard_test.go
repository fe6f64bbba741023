// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package guard

import (
	"testing"

	"cartcheckout/cli/internal/session"

	"github.com/stretchr/testify/assert"
)

func snap(loggedIn, loading bool) session.Snapshot {
	st := session.LoggedOut()
	if loggedIn {
		st = session.LoggedInAs("a@b.com", "u1")
	}
	return session.Snapshot{State: st, Loading: loading}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		snap     session.Snapshot
		route    Route
		want     Decision
		redirect bool
	}{
		{name: "checkout while logged out", snap: snap(false, false), route: RouteCheckout, want: Decision{To: RouteLogin, Replace: true}, redirect: true},
		{name: "checkout while logged in", snap: snap(true, false), route: RouteCheckout},
		{name: "login while logged in", snap: snap(true, false), route: RouteLogin, want: Decision{To: RouteHome, Replace: true}, redirect: true},
		{name: "register while logged in", snap: snap(true, false), route: RouteRegister, want: Decision{To: RouteHome, Replace: true}, redirect: true},
		{name: "login while logged out", snap: snap(false, false), route: RouteLogin},
		{name: "home is always open", snap: snap(false, false), route: RouteHome},
		{name: "loading suppresses checkout redirect", snap: snap(false, true), route: RouteCheckout},
		{name: "loading suppresses login redirect", snap: snap(true, true), route: RouteLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Evaluate(tt.snap, tt.route)
			assert.Equal(t, tt.redirect, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGuard_EmitsOnce(t *testing.T) {
	var g Guard

	d, ok := g.Observe(snap(false, false), RouteCheckout)
	assert.True(t, ok)
	assert.Equal(t, RouteLogin, d.To)

	_, ok = g.Observe(snap(false, false), RouteCheckout)
	assert.False(t, ok)

	last, ok := g.Last()
	assert.True(t, ok)
	assert.Equal(t, d, last)
}

func TestGuard_ReemitsAfterSettledAllowedState(t *testing.T) {
	var g Guard

	_, ok := g.Observe(snap(false, false), RouteCheckout)
	assert.True(t, ok)

	_, ok = g.Observe(snap(true, false), RouteCheckout)
	assert.False(t, ok)
	_, ok = g.Last()
	assert.False(t, ok)

	_, ok = g.Observe(snap(false, false), RouteCheckout)
	assert.True(t, ok)
}

func TestGuard_LoadingKeepsLastDecision(t *testing.T) {
	var g Guard

	_, ok := g.Observe(snap(false, false), RouteCheckout)
	assert.True(t, ok)
	_, ok = g.Observe(snap(false, true), RouteCheckout)
	assert.False(t, ok)
	_, ok = g.Observe(snap(false, false), RouteCheckout)
	assert.False(t, ok)
}

func TestRouter(t *testing.T) {
	r := NewRouter(RouteHome)
	r.Push(RouteCheckout)
	assert.Equal(t, RouteCheckout, r.Current())

	r.Apply(Decision{To: RouteLogin, Replace: true})
	assert.Equal(t, RouteLogin, r.Current())
	assert.Equal(t, 2, r.Depth())

	assert.True(t, r.Back())
	assert.Equal(t, RouteHome, r.Current())
	assert.False(t, r.Back())
}

func TestParse(t *testing.T) {
	r, ok := Parse("/checkout")
	assert.True(t, ok)
	assert.Equal(t, RouteCheckout, r)

	_, ok = Parse("/admin")
	assert.False(t, ok)
}
