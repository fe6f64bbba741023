// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package guard

import "sync"

// Router is a minimal navigation history.
type Router struct {
	mu      sync.Mutex
	history []Route
}

// NewRouter starts a history at route.
func NewRouter(start Route) *Router {
	return &Router{history: []Route{start}}
}

// Current returns the route on top of the history.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[len(r.history)-1]
}

// Push adds route to the history.
func (r *Router) Push(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, route)
}

// Replace overwrites the current entry.
func (r *Router) Replace(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[len(r.history)-1] = route
}

// Back pops the current entry and reports whether there was one to go back to.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) < 2 {
		return false
	}
	r.history = r.history[:len(r.history)-1]
	return true
}

// Apply navigates according to d.
func (r *Router) Apply(d Decision) {
	if d.Replace {
		r.Replace(d.To)
		return
	}
	r.Push(d.To)
}

// Depth returns the number of entries in the history.
func (r *Router) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}
