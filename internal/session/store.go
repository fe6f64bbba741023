// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the client-side authentication state.
//
// A Store is the single writer of the session state. Every transition goes
// through Verify, which asks the server whether the ambient session cookie
// still denotes a valid account and folds the answer into the state. Any
// failure during verification leaves the store logged out.
//
// Readers take immutable Snapshots or Subscribe to be told about every change;
// the route guard and the terminal views are both readers.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"cartcheckout/cli/internal/backend"
	apperrors "cartcheckout/cli/internal/errors"
)

// Verifier is the slice of the backend the store depends on.
type Verifier interface {
	VerifyToken(ctx context.Context) (backend.VerifyResponse, error)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for verification tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store holds the session state, the loading flag and the last verification
// error. It is safe for concurrent use.
type Store struct {
	api Verifier
	log *slog.Logger

	// verifyMu serializes Verify calls end to end.
	verifyMu sync.Mutex

	mu       sync.Mutex
	state    State
	inflight int
	err      error
	closed   bool
	subs     map[int]func(Snapshot)
	nextSub  int

	mount sync.Once
}

// New creates a logged-out store backed by api.
func New(api Verifier, opts ...Option) *Store {
	s := &Store{
		api:   api,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		state: LoggedOut(),
		subs:  make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify performs one verification round trip and reconciles the state.
// It returns true only when the server confirmed a session with a uid.
// Concurrent calls run one after another. After Close it does nothing.
func (s *Store) Verify(ctx context.Context) bool {
	s.verifyMu.Lock()
	defer s.verifyMu.Unlock()

	if !s.enter(true) {
		return false
	}

	next := LoggedOut()
	var err error
	defer func() { s.leave(next, err) }()

	out, err := s.check(ctx)
	if err != nil {
		s.log.DebugContext(ctx, "verification failed", "kind", apperrors.KindOf(err), "error", err)
		return false
	}
	if out.Success && out.UID == "" {
		err = apperrors.New(apperrors.Unknown, "verification returned no account id")
		s.log.WarnContext(ctx, "verification succeeded without uid")
		return false
	}

	next = out.state()
	s.log.DebugContext(ctx, "verification finished", "logged_in", next.LoggedIn)
	return next.LoggedIn
}

// check runs the backend call, converting a panic into an unknown error.
func (s *Store) check(ctx context.Context) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{}
			err = apperrors.New(apperrors.Unknown, fmt.Sprintf("verification panicked: %v", r))
		}
	}()

	resp, err := s.api.VerifyToken(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Email: resp.Email, UID: resp.UID, Success: resp.VerificationSuccess}, nil
}

// Track marks a non-verify network call (login, register, logout) as in
// flight so readers see Loading. The returned func ends the tracking and is
// safe to call more than once.
func (s *Store) Track() (done func()) {
	if !s.enter(false) {
		return func() {}
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.inflight--
			if s.closed {
				s.mu.Unlock()
				return
			}
			snap, subs := s.snapshotLocked(), s.subscribersLocked()
			s.mu.Unlock()
			notify(subs, snap)
		})
	}
}

// MountOnce runs the automatic verification performed when the application
// starts. Only the first call has any effect.
func (s *Store) MountOnce(ctx context.Context) {
	s.mount.Do(func() { s.Verify(ctx) })
}

// Subscribe registers fn to be called with a fresh snapshot after every
// change. fn runs outside the store lock and must not block for long.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Snapshot returns the current state, loading flag and last error.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// State returns a copy of the current session state.
func (s *Store) State() State { return s.Snapshot().State }

// Loading reports whether a network call is in flight.
func (s *Store) Loading() bool { return s.Snapshot().Loading }

// Err returns the error recorded by the last verification, if any.
func (s *Store) Err() error { return s.Snapshot().Err }

// Close tears the store down. Responses arriving afterwards are dropped and
// subscribers are no longer called.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[int]func(Snapshot))
}

func (s *Store) enter(clearErr bool) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.inflight++
	if clearErr {
		s.err = nil
	}
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return true
}

func (s *Store) leave(next State, err error) {
	s.mu.Lock()
	s.inflight--
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.err = err
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

func (s *Store) snapshotLocked() Snapshot {
	st := s.state
	if st.UID != nil {
		uid := *st.UID
		st.UID = &uid
	}
	return Snapshot{State: st, Loading: s.inflight > 0, Err: s.err}
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
