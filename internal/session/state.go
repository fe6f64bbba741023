// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

// State is the client's view of the current session.
// LoggedIn is true exactly when UID is non-nil; Email is empty when logged out.
type State struct {
	LoggedIn bool
	Email    string
	UID      *string
}

// LoggedOut returns the initial, signed-out state.
func LoggedOut() State { return State{} }

// LoggedInAs returns a signed-in state for the given identity.
func LoggedInAs(email, uid string) State {
	return State{LoggedIn: true, Email: email, UID: &uid}
}

// Valid reports whether s satisfies the LoggedIn/UID invariant.
func (s State) Valid() bool {
	if s.LoggedIn != (s.UID != nil) {
		return false
	}
	return s.LoggedIn || s.Email == ""
}

// UIDString returns the uid or "" when logged out.
func (s State) UIDString() string {
	if s.UID == nil {
		return ""
	}
	return *s.UID
}

// Outcome is the transient result of one verification round trip.
type Outcome struct {
	Email   string
	UID     string
	Success bool
}

// state folds the outcome into a session state. A successful outcome without
// a uid cannot satisfy the invariant and is treated as a failure.
func (o Outcome) state() State {
	if !o.Success || o.UID == "" {
		return LoggedOut()
	}
	return LoggedInAs(o.Email, o.UID)
}

// Snapshot is an immutable view of the store handed to readers.
type Snapshot struct {
	State   State
	Loading bool
	Err     error
}
