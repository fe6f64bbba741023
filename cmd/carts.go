// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var cartsAll bool

// cartsCmd lists carts for signed-in visitors.
var cartsCmd = &cobra.Command{
	Use:   "carts",
	Short: "List available carts",
	Long: `The carts command lists the carts that can currently be checked out.
Use --all to include carts that are already taken. Requires a signed-in
session.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd, guard.RouteCheckout)
		if err != nil {
			return err
		}
		defer cleanup()

		_, err = newView(a, terminal.Stdio()).cartsPage(cmd.Context(), cartsAll)
		return err
	},
}

func init() {
	cartsCmd.Flags().BoolVarP(&cartsAll, "all", "a", false, "Include unavailable carts")
	rootCmd.AddCommand(cartsCmd)
}
