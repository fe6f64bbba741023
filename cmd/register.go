// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// registerCmd creates an account and signs in with it.
var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"signup"},
	Short:   "Create an account",
	Long: `The register command asks for your name, email and password, creates an
account and signs you in. Signed-in visitors are told so and nothing happens.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd, guard.RouteRegister)
		if err != nil {
			return err
		}
		defer cleanup()

		if a.Router.Current() != guard.RouteRegister {
			pterm.Info.Printf("Already logged in as %s\n", a.Store.State().Email)
			return nil
		}
		return newView(a, terminal.Stdio()).registerForm(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
