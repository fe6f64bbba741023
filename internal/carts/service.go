// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package carts lists reservable carts and checks them out.
package carts

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"cartcheckout/cli/internal/backend"
	apperrors "cartcheckout/cli/internal/errors"
	"cartcheckout/cli/internal/session"
)

const (
	MsgSignInRequired = "sign in to view carts"
	MsgFetchFailed    = "Error fetching cart data"
	MsgCheckoutFailed = "Error checking out cart"
)

// Cart is one reservable cart.
type Cart struct {
	ID        string
	Name      string
	Type      int
	Available bool
}

// Seats describes the cart type ("4-seater" or "6-seater").
func (c Cart) Seats() string {
	switch c.Type {
	case 1:
		return "4-seater"
	case 2:
		return "6-seater"
	default:
		return "unknown"
	}
}

// API is the slice of the backend used here.
type API interface {
	CartInfo(ctx context.Context) ([]backend.Cart, error)
	Checkout(ctx context.Context, req backend.CheckoutRequest) (backend.CheckoutResponse, error)
}

// Service reads carts for signed-in visitors.
type Service struct {
	api     API
	store   *session.Store
	log     *slog.Logger
	loading atomic.Bool
}

// NewService builds a Service. A nil logger discards output.
func NewService(api API, store *session.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{api: api, store: store, log: log}
}

// Loading reports whether a cart request is in flight.
func (s *Service) Loading() bool { return s.loading.Load() }

// List returns all carts. The session must be signed in; otherwise a
// validation error is returned without contacting the server. An empty
// listing is reported as an error.
func (s *Service) List(ctx context.Context) ([]Cart, error) {
	if !s.store.State().LoggedIn {
		return nil, apperrors.New(apperrors.Validation, MsgSignInRequired)
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	raw, err := s.api.CartInfo(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "cart listing failed", "error", err)
		if apperrors.IsKind(err, apperrors.Transport) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.Unknown, MsgFetchFailed, err)
	}
	if len(raw) == 0 {
		return nil, apperrors.New(apperrors.Unknown, MsgFetchFailed)
	}

	out := make([]Cart, 0, len(raw))
	for _, c := range raw {
		out = append(out, Cart{ID: c.ID, Name: c.Name, Type: c.Type, Available: c.Available})
	}
	s.log.DebugContext(ctx, "carts listed", "count", len(out))
	return out, nil
}

// Checkout reserves the cart with the given id and returns the server's
// message.
func (s *Service) Checkout(ctx context.Context, cartID string) (string, error) {
	if !s.store.State().LoggedIn {
		return "", apperrors.New(apperrors.Validation, MsgSignInRequired)
	}
	if cartID == "" {
		return "", apperrors.New(apperrors.Validation, "cart id is required")
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	resp, err := s.api.Checkout(ctx, backend.CheckoutRequest{CartID: cartID})
	if err != nil {
		s.log.WarnContext(ctx, "checkout failed", "cart", cartID, "error", err)
		if apperrors.IsKind(err, apperrors.Transport) {
			return "", err
		}
		return "", apperrors.Wrap(apperrors.Unknown, MsgCheckoutFailed, err)
	}
	if !resp.DatabaseAvailable {
		return "", apperrors.New(apperrors.Business, nonEmpty(resp.ResString, MsgCheckoutFailed))
	}
	s.log.InfoContext(ctx, "cart checked out", "cart", cartID)
	return resp.ResString, nil
}

// Available filters carts that can be checked out.
func Available(all []Cart) []Cart {
	var out []Cart
	for _, c := range all {
		if c.Available {
			out = append(out, c)
		}
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
