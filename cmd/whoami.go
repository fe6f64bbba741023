// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/terminal"

	"github.com/spf13/cobra"
)

// whoamiCmd verifies the saved session and shows the account it belongs to.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Long: `The whoami command verifies the saved session with the server and shows
the account email and id. Any verification failure is reported as not
logged in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd, guard.RouteHome)
		if err != nil {
			return err
		}
		defer cleanup()

		newView(a, terminal.Stdio()).whoami()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
