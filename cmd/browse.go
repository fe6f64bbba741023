// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cartcheckout/cli/internal/app"
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = pterm.Println

// browseCmd starts an interactive session that moves between the home,
// sign-in, registration and checkout pages.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Start an interactive session",
	Long: `The browse command opens an interactive session. Type a page path such as
/checkout or a command such as 'login' or 'logout'; pages you may not see
are redirected (for example /checkout sends signed-out visitors to /login).
Type 'help' for all commands.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd, guard.RouteHome, app.OnRedirect(func(from guard.Route, d guard.Decision) {
			printlnFn(fmt.Sprintf("↪ %s → %s", from, d.To))
		}))
		if err != nil {
			return err
		}
		defer cleanup()

		v := newView(a, terminal.Stdio())
		v.home()
		return runBrowse(cmd.Context(), v)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// runBrowse reads commands until EOF, "exit" or "quit". Handlers present
// their own errors, so only input failures end the loop early.
func runBrowse(ctx context.Context, v *view) error {
	for {
		prompt := fmt.Sprintf("cart %s %s> ", describe(v.a.Store.Snapshot()), v.a.Router.Current())
		line, err := v.p.Line(prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		done, err := dispatch(ctx, v, parts[0], parts[1:])
		if errors.Is(err, io.EOF) {
			return nil
		}
		if done {
			return nil
		}
	}
}

func dispatch(ctx context.Context, v *view, name string, args []string) (done bool, err error) {
	if r, ok := guard.Parse(name); ok {
		return false, v.visit(ctx, r)
	}

	switch name {
	case "help":
		printlnFn("Pages: / /login /register /checkout")
		printlnFn("Commands: go <page>, back, login, register, logout, carts, checkout [id], whoami, refresh, exit")

	case "go":
		if len(args) == 0 {
			printlnFn("Usage: go <page>")
			return false, nil
		}
		r, ok := guard.Parse(args[0])
		if !ok {
			printlnFn("Unknown page:", args[0])
			return false, nil
		}
		return false, v.visit(ctx, r)

	case "back":
		if v.a.Back() == guard.RouteHome {
			v.home()
		}

	case "login":
		return false, v.visit(ctx, guard.RouteLogin)

	case "register":
		return false, v.visit(ctx, guard.RouteRegister)

	case "logout":
		return false, v.logout(ctx, false)

	case "carts":
		if v.a.Navigate(guard.RouteCheckout) != guard.RouteCheckout {
			return false, v.render(ctx)
		}
		_, err = v.cartsPage(ctx, true)
		return false, err

	case "checkout":
		if v.a.Navigate(guard.RouteCheckout) != guard.RouteCheckout {
			return false, v.render(ctx)
		}
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return false, v.checkoutPage(ctx, id)

	case "whoami":
		v.whoami()

	case "refresh":
		v.a.Refresh(ctx)
		v.whoami()

	case "exit", "quit":
		printlnFn("Bye!")
		return true, nil

	default:
		printlnFn("Unknown command:", name)
	}
	return false, nil
}

// visit navigates to r and renders wherever the guard lets the visitor land.
func (v *view) visit(ctx context.Context, r guard.Route) error {
	v.a.Navigate(r)
	return v.render(ctx)
}
