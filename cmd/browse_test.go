// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"cartcheckout/cli/internal/app"
	"cartcheckout/cli/internal/config"
	apperrors "cartcheckout/cli/internal/errors"
	"cartcheckout/cli/internal/fakeserver"
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv       *fakeserver.Server
	a         *app.App
	out       *bytes.Buffer
	redirects []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{out: &bytes.Buffer{}}
	h.srv = fakeserver.Start()
	t.Cleanup(h.srv.Close)

	origInteractive, origPrintln := interactive, printlnFn
	interactive = func() bool { return false }
	printlnFn = func(a ...any) { fmt.Fprintln(h.out, a...) }
	pterm.SetDefaultOutput(h.out)
	pterm.DisableStyling()
	t.Cleanup(func() {
		interactive, printlnFn = origInteractive, origPrintln
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})

	cfg := config.Defaults()
	cfg.Server = h.srv.URL()
	a, err := app.New(cfg, nil, app.WithoutPersistence(), app.OnRedirect(func(from guard.Route, d guard.Decision) {
		h.redirects = append(h.redirects, fmt.Sprintf("%s->%s", from, d.To))
	}))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	a.Mount(context.Background())
	h.a = a
	return h
}

func (h *harness) run(t *testing.T, script string) {
	t.Helper()
	v := newView(h.a, terminal.NewPrompter(strings.NewReader(script), io.Discard))
	require.NoError(t, runBrowse(context.Background(), v))
}

func TestBrowse_SignInCheckoutSignOut(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("Ann", "a@b.com", "pw")
	h.srv.SetCarts([]fakeserver.Cart{{ID: "c1", Name: "Birdie", Type: 2, Available: true}})

	h.run(t, strings.Join([]string{
		"/checkout", // redirected to the sign-in form
		"a@b.com",
		"pw",
		"carts",
		"checkout c1",
		"logout",
		"exit",
	}, "\n")+"\n")

	out := h.out.String()
	assert.Equal(t, []string{"/checkout->/login", "/login->/", "/checkout->/login"}, h.redirects)
	assert.Contains(t, out, "Welcome back, a@b.com!")
	assert.Contains(t, out, "Birdie")
	assert.Contains(t, out, "6-seater")
	assert.Contains(t, out, "Successfully checked out a cart")
	assert.Contains(t, out, "Logged out")
	assert.Contains(t, out, "Bye!")
	assert.False(t, h.a.Store.State().LoggedIn)
}

func TestBrowse_WrongPasswordStaysOnLogin(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("Ann", "a@b.com", "pw")

	h.run(t, "login\na@b.com\nnope\n")

	assert.Contains(t, h.out.String(), "Incorrect password")
	assert.Equal(t, guard.RouteLogin, h.a.Router.Current())
	assert.Empty(t, h.redirects)
}

func TestBrowse_EmptyFieldsMakeNoRequest(t *testing.T) {
	h := newHarness(t)
	before := h.srv.TotalHits()

	h.run(t, "register\n\n\n\n")

	assert.Contains(t, h.out.String(), "Please fill out all form inputs!")
	assert.Equal(t, before, h.srv.TotalHits())
}

func TestBrowse_UnknownCommandAndEOF(t *testing.T) {
	h := newHarness(t)

	h.run(t, "dance\ngo /nowhere\n")

	out := h.out.String()
	assert.Contains(t, out, "Unknown command: dance")
	assert.Contains(t, out, "Unknown page: /nowhere")
}

func TestReport(t *testing.T) {
	h := newHarness(t)

	assert.NoError(t, report(h.a, "signing in", apperrors.New(apperrors.Validation, "missing")))
	assert.NoError(t, report(h.a, "signing in", apperrors.New(apperrors.Business, "bad password")))

	err := report(h.a, "signing in", apperrors.NewTransport(http.StatusTooManyRequests, ""))
	var shown *shownError
	require.ErrorAs(t, err, &shown)
	assert.Contains(t, h.out.String(), "Too Many Requests")
}
