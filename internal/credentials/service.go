// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credentials implements sign-in, registration and sign-out.
//
// Each operation makes one request and, when the server reports success,
// re-verifies the session through the store. None of them writes session
// state directly: the store only ever reflects what verification observed.
package credentials

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"cartcheckout/cli/internal/backend"
	apperrors "cartcheckout/cli/internal/errors"
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/session"
)

// User-facing messages.
const (
	MsgMissingFields = "Please fill out all form inputs!"
	MsgGeneric       = "Something went wrong!"
	MsgRegistered    = "Successfully registered!"
	MsgLoggedIn      = "Logged in"
	MsgLogoutFailed  = "Something went wrong when logging out!"
	MsgLoggedOut     = "Logged out"
)

// API is the slice of the backend used by credential operations.
type API interface {
	Login(ctx context.Context, req backend.LoginRequest) (backend.LoginResponse, error)
	Register(ctx context.Context, req backend.RegisterRequest) (backend.RegisterResponse, error)
	Logout(ctx context.Context) error
}

// Outcome tells the caller what to show and where to go.
// Navigate is empty when no navigation should happen.
type Outcome struct {
	Success  bool
	Navigate guard.Route
	Message  string
}

type (
	LoginOutcome    = Outcome
	RegisterOutcome = Outcome
)

// Service runs credential operations against api and reconciles store.
type Service struct {
	api   API
	store *session.Store
	log   *slog.Logger
}

// NewService builds a Service. A nil logger discards output.
func NewService(api API, store *session.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{api: api, store: store, log: log}
}

// Login signs in with email and password.
//
// Empty fields fail with a validation error before any request is made.
// A rejected sign-in returns a business error carrying the server's message.
// On success the session is re-verified and the outcome navigates home.
func (s *Service) Login(ctx context.Context, email, password string) (LoginOutcome, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return invalid()
	}

	done := s.store.Track()
	defer done()

	resp, err := s.api.Login(ctx, backend.LoginRequest{Email: email, Password: password})
	if err != nil {
		return s.failed(ctx, "login", err, MsgGeneric)
	}
	if !resp.LoginSuccess {
		s.log.InfoContext(ctx, "login rejected", "email", email, "reason", resp.ResString)
		return rejected(resp.ResString)
	}

	s.store.Verify(ctx)
	s.log.InfoContext(ctx, "logged in", "email", email)
	return Outcome{Success: true, Navigate: guard.RouteHome, Message: nonEmpty(resp.ResString, MsgLoggedIn)}, nil
}

// Register creates an account and signs in with it. It follows the same
// contract as Login with an additional required name.
func (s *Service) Register(ctx context.Context, name, email, password string) (RegisterOutcome, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return invalid()
	}

	done := s.store.Track()
	defer done()

	resp, err := s.api.Register(ctx, backend.RegisterRequest{Email: email, Name: name, Password: password})
	if err != nil {
		return s.failed(ctx, "register", err, MsgGeneric)
	}
	if !resp.RegisterSuccess {
		s.log.InfoContext(ctx, "registration rejected", "email", email, "reason", resp.ResString)
		return rejected(resp.ResString)
	}

	s.store.Verify(ctx)
	s.log.InfoContext(ctx, "registered", "email", email)
	return Outcome{Success: true, Navigate: guard.RouteHome, Message: MsgRegistered}, nil
}

// Logout asks the server to invalidate the session cookie. It reports true
// only for a 2xx answer and leaves the session state alone; callers follow it
// with a verification, or use SignOut.
func (s *Service) Logout(ctx context.Context) (bool, error) {
	done := s.store.Track()
	defer done()

	if err := s.api.Logout(ctx); err != nil {
		_, err = s.failed(ctx, "logout", err, MsgLogoutFailed)
		return false, err
	}
	return true, nil
}

// SignOut logs out and then re-verifies, returning the resulting snapshot.
// The session is only reported as signed out once verification says so.
func (s *Service) SignOut(ctx context.Context) (session.Snapshot, error) {
	ok, err := s.Logout(ctx)
	if !ok {
		return s.store.Snapshot(), err
	}
	s.store.Verify(ctx)
	snap := s.store.Snapshot()
	s.log.InfoContext(ctx, "signed out", "logged_in", snap.State.LoggedIn)
	return snap, nil
}

// failed maps a backend error to an outcome. Transport errors keep the
// status text as their message; anything else gets the generic message.
func (s *Service) failed(ctx context.Context, op string, err error, generic string) (Outcome, error) {
	s.log.WarnContext(ctx, op+" failed", "kind", apperrors.KindOf(err), "error", err)
	if !apperrors.IsKind(err, apperrors.Transport) {
		err = apperrors.Wrap(apperrors.Unknown, generic, err)
	}
	return Outcome{Message: nonEmpty(apperrors.MessageOf(err), generic)}, err
}

func invalid() (Outcome, error) {
	err := apperrors.New(apperrors.Validation, MsgMissingFields)
	return Outcome{Message: err.Message}, err
}

func rejected(resString string) (Outcome, error) {
	msg := nonEmpty(resString, MsgGeneric)
	return Outcome{Message: msg}, apperrors.New(apperrors.Business, msg)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
