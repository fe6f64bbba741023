// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard decides which views a visitor may see.
//
// Evaluate is a pure function of a session snapshot and the current route.
// Guard wraps it and remembers only the last decision it emitted, so feeding
// it the same inputs repeatedly produces a redirect once. Applying decisions
// is left to a Router.
package guard

import (
	"sync"

	"cartcheckout/cli/internal/session"
)

// Route names a view.
type Route string

const (
	RouteHome     Route = "/"
	RouteLogin    Route = "/login"
	RouteRegister Route = "/register"
	RouteCheckout Route = "/checkout"
)

// Routes lists every known route in menu order.
var Routes = []Route{RouteHome, RouteLogin, RouteRegister, RouteCheckout}

// Parse returns the route for s and whether it is known.
func Parse(s string) (Route, bool) {
	for _, r := range Routes {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// RequiresAuth reports whether the route is only for signed-in visitors.
func (r Route) RequiresAuth() bool { return r == RouteCheckout }

// GuestOnly reports whether the route is only for signed-out visitors.
func (r Route) GuestOnly() bool { return r == RouteLogin || r == RouteRegister }

// Decision is a redirect the router should apply.
type Decision struct {
	To Route
	// Replace means the current history entry is overwritten.
	Replace bool
}

// Evaluate returns the redirect for route given snap, if any. No decision is
// made while a call is in flight.
func Evaluate(snap session.Snapshot, current Route) (Decision, bool) {
	if snap.Loading {
		return Decision{}, false
	}
	switch {
	case current.RequiresAuth() && !snap.State.LoggedIn:
		return Decision{To: RouteLogin, Replace: true}, true
	case current.GuestOnly() && snap.State.LoggedIn:
		return Decision{To: RouteHome, Replace: true}, true
	}
	return Decision{}, false
}

// Guard emits each redirect once for a given route.
type Guard struct {
	mu   sync.Mutex
	last *observation
}

type observation struct {
	from Route
	d    Decision
}

// Observe evaluates snap against route. It returns the decision only when it
// differs from the last one emitted for the same route.
func (g *Guard) Observe(snap session.Snapshot, route Route) (Decision, bool) {
	d, ok := Evaluate(snap, route)

	g.mu.Lock()
	defer g.mu.Unlock()
	if !ok {
		if !snap.Loading {
			g.last = nil
		}
		return Decision{}, false
	}
	if g.last != nil && g.last.from == route && g.last.d == d {
		return Decision{}, false
	}
	g.last = &observation{from: route, d: d}
	return d, true
}

// Last returns the last decision emitted, if any.
func (g *Guard) Last() (Decision, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return Decision{}, false
	}
	return g.last.d, true
}
