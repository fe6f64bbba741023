// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package carts

import (
	"context"
	"net/http"
	"testing"

	"cartcheckout/cli/internal/backend"
	apperrors "cartcheckout/cli/internal/errors"
	"cartcheckout/cli/internal/fakeserver"
	"cartcheckout/cli/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(t *testing.T) (*fakeserver.Server, *Service) {
	t.Helper()
	srv := fakeserver.Start()
	t.Cleanup(srv.Close)
	srv.AddUser("Ann", "a@b.com", "pw")

	api := backend.New(srv.URL(), backend.DefaultEndpoints())
	_, err := api.Login(context.Background(), backend.LoginRequest{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)
	store := session.New(api)
	require.True(t, store.Verify(context.Background()))
	return srv, NewService(api, store, nil)
}

func TestList(t *testing.T) {
	srv, svc := signedIn(t)
	srv.SetCarts([]fakeserver.Cart{
		{ID: "c1", Name: "Birdie", Type: 1, Available: true},
		{ID: "c2", Name: "Eagle", Type: 2, Available: false},
	})

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "4-seater", got[0].Seats())
	assert.Equal(t, "6-seater", got[1].Seats())
	assert.Equal(t, []Cart{got[0]}, Available(got))
	assert.False(t, svc.Loading())
}

func TestList_EmptyIsError(t *testing.T) {
	_, svc := signedIn(t)

	_, err := svc.List(context.Background())

	require.Error(t, err)
	assert.Equal(t, MsgFetchFailed, apperrors.MessageOf(err))
}

func TestList_RequiresSession(t *testing.T) {
	srv := fakeserver.Start()
	t.Cleanup(srv.Close)
	api := backend.New(srv.URL(), backend.DefaultEndpoints())
	svc := NewService(api, session.New(api), nil)

	_, err := svc.List(context.Background())

	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
	assert.Equal(t, 0, srv.TotalHits())
}

func TestList_Transport(t *testing.T) {
	srv, svc := signedIn(t)
	srv.Force("/cart-info", fakeserver.Override{Status: http.StatusServiceUnavailable})

	_, err := svc.List(context.Background())

	assert.Equal(t, http.StatusServiceUnavailable, apperrors.StatusOf(err))
}

func TestCheckout(t *testing.T) {
	srv, svc := signedIn(t)

	msg, err := svc.Checkout(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Successfully checked out a cart", msg)

	srv.Force("/checkout", fakeserver.Override{Status: http.StatusOK, Body: `{"resString":"Database offline","databaseAvailable":false}`})
	_, err = svc.Checkout(context.Background(), "c1")
	assert.True(t, apperrors.IsKind(err, apperrors.Business))
	assert.Equal(t, "Database offline", apperrors.MessageOf(err))

	_, err = svc.Checkout(context.Background(), "")
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
}

func TestSeats(t *testing.T) {
	assert.Equal(t, "unknown", Cart{Type: 7}.Seats())
}
