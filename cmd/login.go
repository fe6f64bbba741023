// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var loginEmail string

// loginCmd signs in with email and password. The session cookie returned by
// the server is kept in the OS keychain for later commands.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your email and password",
	Long: `The login command signs in to the cart service. The password is read
without echo when running in a terminal. If a valid session already exists,
the command reports it and does nothing.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd, guard.RouteLogin)
		if err != nil {
			return err
		}
		defer cleanup()

		if a.Router.Current() != guard.RouteLogin {
			pterm.Info.Printf("Already logged in as %s\n", a.Store.State().Email)
			return nil
		}
		return newView(a, terminal.Stdio()).loginForm(cmd.Context(), loginEmail)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}
