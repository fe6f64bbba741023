// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credentials

import (
	"context"
	"net/http"
	"testing"

	"cartcheckout/cli/internal/backend"
	apperrors "cartcheckout/cli/internal/errors"
	"cartcheckout/cli/internal/fakeserver"
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	srv   *fakeserver.Server
	store *session.Store
	svc   *Service
}

func setup(t *testing.T) env {
	t.Helper()
	srv := fakeserver.Start()
	t.Cleanup(srv.Close)
	api := backend.New(srv.URL(), backend.DefaultEndpoints())
	store := session.New(api)
	return env{srv: srv, store: store, svc: NewService(api, store, nil)}
}

func TestLogin_Success(t *testing.T) {
	e := setup(t)
	uid := e.srv.AddUser("Ann", "a@b.com", "pw")

	out, err := e.svc.Login(context.Background(), "  a@b.com ", "pw")

	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, guard.RouteHome, out.Navigate)
	assert.Equal(t, session.LoggedInAs("a@b.com", uid), e.store.State())
	assert.False(t, e.store.Loading())
	assert.Equal(t, 1, e.srv.Hits("/verify-token"))
}

func TestLogin_Scenarios(t *testing.T) {
	t.Run("server confirms login and verification", func(t *testing.T) {
		e := setup(t)
		e.srv.Force("/login", fakeserver.Override{Status: http.StatusOK, Body: `{"loginSuccess":true}`})
		e.srv.Force("/verify-token", fakeserver.Override{Status: http.StatusOK, Body: `{"email":"a@b.com","uid":"u1","verificationSuccess":true}`})

		out, err := e.svc.Login(context.Background(), "a@b.com", "pw")

		require.NoError(t, err)
		assert.Equal(t, guard.RouteHome, out.Navigate)
		assert.Equal(t, session.LoggedInAs("a@b.com", "u1"), e.store.State())
	})

	t.Run("server rejects password", func(t *testing.T) {
		e := setup(t)
		e.srv.Force("/login", fakeserver.Override{Status: http.StatusOK, Body: `{"loginSuccess":false,"resString":"bad password"}`})

		out, err := e.svc.Login(context.Background(), "a@b.com", "pw")

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.Business))
		assert.Equal(t, "bad password", out.Message)
		assert.Empty(t, out.Navigate)
		assert.Equal(t, session.LoggedOut(), e.store.State())
		assert.Equal(t, 0, e.srv.Hits("/verify-token"))
	})

	t.Run("logout then verify", func(t *testing.T) {
		e := setup(t)
		e.srv.Force("/verify-token", fakeserver.Override{Status: http.StatusOK, Body: `{"email":"a@b.com","uid":"u1","verificationSuccess":true}`})
		require.True(t, e.store.Verify(context.Background()))

		ok, err := e.svc.Logout(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, e.store.State().LoggedIn, "logout alone must not touch the session")

		e.srv.Force("/verify-token", fakeserver.Override{Status: http.StatusOK, Body: `{"verificationSuccess":false}`})
		e.store.Verify(context.Background())
		assert.Equal(t, session.LoggedOut(), e.store.State())
	})

	t.Run("empty email makes no request", func(t *testing.T) {
		e := setup(t)

		out, err := e.svc.Login(context.Background(), "   ", "pw")

		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.Validation))
		assert.Equal(t, MsgMissingFields, out.Message)
		assert.Equal(t, 0, e.srv.TotalHits())
	})
}

func TestLogin_TransportFailureLeavesSession(t *testing.T) {
	e := setup(t)
	e.srv.Force("/verify-token", fakeserver.Override{Status: http.StatusOK, Body: `{"email":"a@b.com","uid":"u1","verificationSuccess":true}`})
	require.True(t, e.store.Verify(context.Background()))
	e.srv.Force("/login", fakeserver.Override{Status: http.StatusTooManyRequests})

	out, err := e.svc.Login(context.Background(), "a@b.com", "pw")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Transport))
	assert.Equal(t, "Too Many Requests", out.Message)
	assert.Empty(t, out.Navigate)
	assert.Equal(t, session.LoggedInAs("a@b.com", "u1"), e.store.State())
	assert.Equal(t, 1, e.srv.Hits("/verify-token"))
}

func TestLogin_MalformedResponseIsGeneric(t *testing.T) {
	e := setup(t)
	e.srv.Force("/login", fakeserver.Override{Status: http.StatusOK, Body: `<html>`})

	out, err := e.svc.Login(context.Background(), "a@b.com", "pw")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Unknown))
	assert.Equal(t, MsgGeneric, out.Message)
}

func TestRegister(t *testing.T) {
	e := setup(t)

	out, err := e.svc.Register(context.Background(), " Ann ", "a@b.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, MsgRegistered, out.Message)
	assert.Equal(t, guard.RouteHome, out.Navigate)
	st := e.store.State()
	assert.True(t, st.LoggedIn)
	assert.Equal(t, "a@b.com", st.Email)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name, user, email, password string
	}{
		{name: "missing name", email: "a@b.com", password: "pw"},
		{name: "blank name", user: "  ", email: "a@b.com", password: "pw"},
		{name: "missing email", user: "Ann", password: "pw"},
		{name: "missing password", user: "Ann", email: "a@b.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			_, err := e.svc.Register(context.Background(), tt.user, tt.email, tt.password)
			assert.True(t, apperrors.IsKind(err, apperrors.Validation))
			assert.Equal(t, 0, e.srv.TotalHits())
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	e := setup(t)
	e.srv.AddUser("Ann", "a@b.com", "pw")

	out, err := e.svc.Register(context.Background(), "Ann", "a@b.com", "pw")

	assert.True(t, apperrors.IsKind(err, apperrors.Business))
	assert.Equal(t, "An account already exists with this email!", out.Message)
	assert.False(t, e.store.State().LoggedIn)
}

func TestLogout_Failure(t *testing.T) {
	e := setup(t)
	e.srv.Force("/logout", fakeserver.Override{Status: http.StatusInternalServerError})

	ok, err := e.svc.Logout(context.Background())

	assert.False(t, ok)
	assert.Equal(t, "Internal Server Error", apperrors.MessageOf(err))
}

func TestLogout_NetworkFailureIsGeneric(t *testing.T) {
	api := backend.New("http://127.0.0.1:1", backend.DefaultEndpoints())
	store := session.New(api)
	svc := NewService(api, store, nil)

	ok, err := svc.Logout(context.Background())

	assert.False(t, ok)
	assert.Equal(t, MsgLogoutFailed, apperrors.MessageOf(err))
	assert.False(t, store.Loading())
}

func TestSignOut(t *testing.T) {
	e := setup(t)
	e.srv.AddUser("Ann", "a@b.com", "pw")
	_, err := e.svc.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.True(t, e.store.State().LoggedIn)

	snap, err := e.svc.SignOut(context.Background())

	require.NoError(t, err)
	assert.Equal(t, session.LoggedOut(), snap.State)
	assert.False(t, snap.Loading)
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(snap.Err))
}

func TestSignOut_FailedLogoutKeepsSession(t *testing.T) {
	e := setup(t)
	e.srv.AddUser("Ann", "a@b.com", "pw")
	_, err := e.svc.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	e.srv.Force("/logout", fakeserver.Override{Status: http.StatusBadGateway})

	snap, err := e.svc.SignOut(context.Background())

	require.Error(t, err)
	assert.True(t, snap.State.LoggedIn)
}

func TestLogin_LoadingVisibleToSubscribers(t *testing.T) {
	e := setup(t)
	e.srv.AddUser("Ann", "a@b.com", "pw")

	var sawLoading bool
	var last session.Snapshot
	e.store.Subscribe(func(s session.Snapshot) {
		sawLoading = sawLoading || s.Loading
		last = s
	})

	_, err := e.svc.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	assert.True(t, sawLoading)
	assert.False(t, last.Loading)
	assert.True(t, last.State.LoggedIn)
}
