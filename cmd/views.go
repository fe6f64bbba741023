// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"cartcheckout/cli/internal/app"
	"cartcheckout/cli/internal/carts"
	"cartcheckout/cli/internal/credentials"
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/session"
	"cartcheckout/cli/internal/terminal"

	"github.com/pterm/pterm"
)

// view renders each route from the session snapshot and runs the forms.
type view struct {
	a *app.App
	p *terminal.Prompter
}

func newView(a *app.App, p *terminal.Prompter) *view {
	return &view{a: a, p: p}
}

// render prints the page for the current route.
func (v *view) render(ctx context.Context) error {
	switch v.a.Router.Current() {
	case guard.RouteLogin:
		return v.loginForm(ctx, "")
	case guard.RouteRegister:
		return v.registerForm(ctx)
	case guard.RouteCheckout:
		return v.checkoutPage(ctx, "")
	default:
		v.home()
		return nil
	}
}

func (v *view) home() {
	st := v.a.Store.State()
	if st.LoggedIn {
		pterm.Info.Printf("Signed in as %s\n", st.Email)
		pterm.Println("Go to /checkout to reserve a cart, or 'logout' to sign out.")
		return
	}
	pterm.Info.Println("You're not signed in.")
	pterm.Println("Go to /login or /register to continue.")
}

func (v *view) whoami() {
	snap := v.a.Store.Snapshot()
	if !snap.State.LoggedIn {
		pterm.Println("🔒 You're not logged in yet!")
		pterm.Println("   Run 'cartcheckout login' to get started.")
		return
	}
	pterm.Printf("👤 Current user: %s (%s)\n", snap.State.Email, snap.State.UIDString())
}

// loginForm collects credentials (email is asked for when empty) and signs in. On success it follows the
// outcome's navigation.
func (v *view) loginForm(ctx context.Context, email string) error {
	var err error
	if email == "" {
		if email, err = v.p.Line("Email: "); err != nil {
			return err
		}
	}
	password, err := v.p.Password("Password: ")
	if err != nil {
		return err
	}

	stop := showLoading(v.a, "Signing in")
	out, err := v.a.Credentials.Login(ctx, email, password)
	stop()
	if err != nil {
		return report(v.a, "signing in", err)
	}

	pterm.Success.Printf("Welcome back, %s!\n", v.a.Store.State().Email)
	v.follow(out.Navigate)
	return nil
}

func (v *view) registerForm(ctx context.Context) error {
	name, err := v.p.Line("Name: ")
	if err != nil {
		return err
	}
	email, err := v.p.Line("Email: ")
	if err != nil {
		return err
	}
	password, err := v.p.Password("Password: ")
	if err != nil {
		return err
	}

	stop := showLoading(v.a, "Creating account")
	out, err := v.a.Credentials.Register(ctx, name, email, password)
	stop()
	if err != nil {
		return report(v.a, "registering", err)
	}

	pterm.Success.Println(out.Message)
	v.follow(out.Navigate)
	return nil
}

// logout signs out and re-verifies. With forget set the local cookie jar is
// cleared even when the server could not be reached.
func (v *view) logout(ctx context.Context, forget bool) error {
	if !v.a.Store.State().LoggedIn && !forget {
		pterm.Println("🔒 You're not logged in.")
		return nil
	}

	stop := showLoading(v.a, "Signing out")
	snap, err := v.a.Credentials.SignOut(ctx)
	stop()

	if err != nil && forget {
		if cerr := v.a.Jar.Clear(); cerr != nil {
			return report(v.a, "clearing the saved session", cerr)
		}
		v.a.Store.Verify(ctx)
		snap, err = v.a.Store.Snapshot(), nil
	}
	if err != nil {
		return report(v.a, "signing out", err)
	}
	if snap.State.LoggedIn {
		pterm.Warning.Println("The server still reports an active session.")
		return nil
	}
	pterm.Success.Println("✅ " + credentials.MsgLoggedOut)
	return nil
}

// cartsPage lists carts. all includes carts that are not available.
func (v *view) cartsPage(ctx context.Context, all bool) ([]carts.Cart, error) {
	if v.redirectedFrom(guard.RouteCheckout) {
		return nil, nil
	}

	var stop func()
	if interactive() {
		stop = startInlineSpinner(os.Stdout, "Loading carts", spinnerFrames, 120*time.Millisecond)
	}
	list, err := v.a.Carts.List(ctx)
	if stop != nil {
		stop()
	}
	if err != nil {
		return nil, report(v.a, "loading carts", err)
	}

	shown := list
	if !all {
		shown = carts.Available(list)
	}
	if len(shown) == 0 {
		pterm.Info.Println("No carts are available right now.")
		return shown, nil
	}
	renderCarts(shown)
	return shown, nil
}

// checkoutPage checks out id, or lets the visitor pick an available cart.
func (v *view) checkoutPage(ctx context.Context, id string) error {
	if v.redirectedFrom(guard.RouteCheckout) {
		return nil
	}

	if id == "" {
		list, err := v.cartsPage(ctx, false)
		if err != nil || len(list) == 0 {
			return err
		}
		id, err = v.pickCart(list)
		if err != nil || id == "" {
			return err
		}
	}

	msg, err := v.a.Carts.Checkout(ctx, id)
	if err != nil {
		return report(v.a, "checking out", err)
	}
	pterm.Success.Println(msg)
	return nil
}

func (v *view) pickCart(list []carts.Cart) (string, error) {
	if interactive() {
		opts := make([]string, len(list))
		byLabel := make(map[string]string, len(list))
		for i, c := range list {
			opts[i] = fmt.Sprintf("%s (%s)", c.Name, c.Seats())
			byLabel[opts[i]] = c.ID
		}
		choice, err := pterm.DefaultInteractiveSelect.WithOptions(opts).Show("Choose a cart")
		if err != nil {
			return "", err
		}
		return byLabel[choice], nil
	}
	return v.p.Line("Cart id: ")
}

// redirectedFrom reports whether the guard moved the visitor away from
// route, and tells them why.
func (v *view) redirectedFrom(route guard.Route) bool {
	if v.a.Router.Current() == route {
		return false
	}
	if route.RequiresAuth() {
		pterm.Warning.Println("Sign in to view carts. Run 'cartcheckout login' first.")
	}
	return true
}

func (v *view) follow(to guard.Route) {
	if to == "" || v.a.Router.Current() == to {
		return
	}
	v.a.Navigate(to)
}

func renderCarts(list []carts.Cart) {
	rows := [][]string{{"ID", "Name", "Seats", "Available"}}
	for _, c := range list {
		avail := "yes"
		if !c.Available {
			avail = "no"
		}
		rows = append(rows, []string{c.ID, c.Name, c.Seats(), avail})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// describe is a one-line summary of a snapshot for prompts.
func describe(snap session.Snapshot) string {
	switch {
	case snap.Loading:
		return "…"
	case snap.State.LoggedIn:
		return snap.State.Email
	default:
		return "guest"
	}
}
