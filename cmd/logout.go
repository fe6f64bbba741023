// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var logoutForget bool

// logoutCmd ends the session on the server and confirms it by re-verifying.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the cart service",
	Long: `The logout command asks the server to invalidate the session cookie and
then checks the session again; you are only reported as signed out once the
server agrees.

With --forget the saved session is also removed from the OS keychain when the
server cannot be reached.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd, guard.RouteHome)
		if err != nil {
			return err
		}
		defer cleanup()

		return newView(a, terminal.Stdio()).logout(cmd.Context(), logoutForget)
	},
}

func init() {
	logoutCmd.Flags().BoolVar(&logoutForget, "forget", false, "Remove the saved session even if the server is unreachable")
	rootCmd.AddCommand(logoutCmd)
}
